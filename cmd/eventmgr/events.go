package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"eventmgr/internal/models"
	"eventmgr/internal/store"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func todayCommand() *cli.Command {
	return &cli.Command{
		Name:  "today",
		Usage: "List today's events.",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			day := time.Now().In(e.loc).Format(models.DateLayout)
			printEvents(c.App.Writer, e.events.ListByDay(day), "No events found for "+day+".")
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all events, or the events of one day.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "only events on this date (YYYY-MM-DD)"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}

			if !c.IsSet("date") {
				printEvents(c.App.Writer, e.events.List(), "No events found.")
				return nil
			}

			day := c.String("date")
			if _, err := time.Parse(models.DateLayout, day); err != nil {
				return fmt.Errorf("invalid date %q, use YYYY-MM-DD", day)
			}
			printEvents(c.App.Writer, e.events.ListByDay(day), "No events found for "+day+".")
			return nil
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Find events whose name or type contains a keyword.",
		ArgsUsage: "KEYWORD",
		Action: func(c *cli.Context) error {
			keyword := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if keyword == "" {
				return errors.New("a search keyword is required")
			}

			e, err := setup(c)
			if err != nil {
				return err
			}
			printEvents(c.App.Writer, e.events.Search(keyword), fmt.Sprintf("No events found for keyword: '%s'.", keyword))
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one event in full.",
		ArgsUsage: "ID|PREFIX|NAME",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}

			ev, err := e.events.Find(c.Args().First())
			if err != nil {
				return err
			}
			printDetails(c.App.Writer, ev)
			return nil
		},
	}
}

func eventFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: required, Usage: "event name"},
		&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Required: required, Usage: "event type, e.g. meeting"},
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Required: required, Usage: "date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "start", Required: required, Usage: "start time (HH:MM)"},
		&cli.StringFlag{Name: "end", Required: required, Usage: "end time (HH:MM)"},
		&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "location"},
		&cli.StringFlag{Name: "description", Usage: "free text description"},
		passwordFlag(),
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add an event (admin).",
		Flags: eventFlags(true),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			role, err := e.role(c)
			if err != nil {
				return err
			}

			added, err := e.events.Add(role, models.Event{
				Name:        c.String("name"),
				Type:        c.String("type"),
				Date:        c.String("date"),
				Start:       c.String("start"),
				End:         c.String("end"),
				Location:    c.String("location"),
				Description: c.String("description"),
			})
			if err != nil {
				printSuggestions(c.App.Writer, err)
				return err
			}

			color.New(color.FgGreen).Fprintf(c.App.Writer, "Event added successfully! %s\n", added.String())
			return nil
		},
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change fields of an event (admin). Unset flags keep their value.",
		ArgsUsage: "ID|PREFIX|NAME",
		Flags:     eventFlags(false),
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			role, err := e.role(c)
			if err != nil {
				return err
			}

			target, err := e.events.Find(c.Args().First())
			if err != nil {
				return err
			}

			var changes models.EventChanges
			for name, dst := range map[string]**string{
				"name":        &changes.Name,
				"type":        &changes.Type,
				"date":        &changes.Date,
				"start":       &changes.Start,
				"end":         &changes.End,
				"location":    &changes.Location,
				"description": &changes.Description,
			} {
				if c.IsSet(name) {
					v := c.String(name)
					*dst = &v
				}
			}

			updated, err := e.events.Edit(role, target.ID, changes)
			if err != nil {
				printSuggestions(c.App.Writer, err)
				return err
			}

			color.New(color.FgGreen).Fprintf(c.App.Writer, "Event edited successfully! %s\n", updated.String())
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an event (admin).",
		ArgsUsage: "ID|PREFIX|NAME",
		Flags:     []cli.Flag{passwordFlag()},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			role, err := e.role(c)
			if err != nil {
				return err
			}

			target, err := e.events.Find(c.Args().First())
			if err != nil {
				return err
			}

			removed, err := e.events.Delete(role, target.ID)
			if err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(c.App.Writer, "Event '%s' deleted successfully.\n", removed.Name)
			return nil
		},
	}
}

func printEvents(w io.Writer, events []models.Event, empty string) {
	if len(events) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, ev := range events {
		fmt.Fprintln(w, ev.String())
	}
}

func printDetails(w io.Writer, ev models.Event) {
	location := ev.Location
	if location == "" {
		location = "Not specified"
	}
	fmt.Fprintf(w, "ID:          %s\n", ev.ID)
	fmt.Fprintf(w, "Name:        %s\n", ev.Name)
	fmt.Fprintf(w, "Type:        %s\n", ev.Type)
	fmt.Fprintf(w, "Date:        %s\n", ev.Date)
	fmt.Fprintf(w, "Time:        %s-%s\n", ev.Start, ev.End)
	fmt.Fprintf(w, "Location:    %s\n", location)
	if ev.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", ev.Description)
	}
}

func printSuggestions(w io.Writer, err error) {
	var conflict *store.ConflictError
	if !errors.As(err, &conflict) || len(conflict.Suggestions) == 0 {
		return
	}
	color.New(color.FgYellow).Fprintln(w, "Suggested available time slots:")
	for _, slot := range conflict.Suggestions {
		fmt.Fprintf(w, "   - %s\n", slot)
	}
}
