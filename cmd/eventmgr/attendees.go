package main

import (
	"fmt"

	"eventmgr/internal/models"
	"eventmgr/internal/store"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func attendeesCommand() *cli.Command {
	return &cli.Command{
		Name:  "attendees",
		Usage: "Manage the reminder roster.",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every attendee.",
				Action: func(c *cli.Context) error {
					e, err := setup(c)
					if err != nil {
						return err
					}

					attendees, err := e.roster.Load()
					if err != nil {
						return err
					}
					if len(attendees) == 0 {
						fmt.Fprintf(c.App.Writer, "No attendees in %s.\n", e.roster.Path())
						return nil
					}
					for _, a := range attendees {
						if a.Name == "" {
							fmt.Fprintln(c.App.Writer, a.Email)
							continue
						}
						fmt.Fprintf(c.App.Writer, "%s <%s>\n", a.Name, a.Email)
					}
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "Add an attendee (admin).",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}},
					passwordFlag(),
				},
				Action: func(c *cli.Context) error {
					e, err := setup(c)
					if err != nil {
						return err
					}
					if err := e.requireAdmin(c); err != nil {
						return err
					}

					added, err := e.roster.Add(models.Attendee{Name: c.String("name"), Email: c.String("email")})
					if err != nil {
						return err
					}

					color.New(color.FgGreen).Fprintf(c.App.Writer, "Email '%s' added to attendees list.\n", added.Email)
					return nil
				},
			},
			{
				Name:  "remove",
				Usage: "Remove an attendee by email (admin).",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					passwordFlag(),
				},
				Action: func(c *cli.Context) error {
					e, err := setup(c)
					if err != nil {
						return err
					}
					if err := e.requireAdmin(c); err != nil {
						return err
					}

					removed, err := e.roster.Remove(c.String("email"))
					if err != nil {
						return err
					}
					if !removed {
						return fmt.Errorf("no attendee with email %q", c.String("email"))
					}

					color.New(color.FgGreen).Fprintf(c.App.Writer, "Email '%s' removed from attendees list.\n", c.String("email"))
					return nil
				},
			},
		},
	}
}

// requireAdmin guards roster changes, which do not go through the event store.
func (e *env) requireAdmin(c *cli.Context) error {
	role, err := e.role(c)
	if err != nil {
		return err
	}
	if !role.IsAdmin() {
		return store.ErrUnauthorized
	}
	return nil
}
