package main

import (
	"fmt"
	"log/slog"
	"time"

	"eventmgr/internal/caldav"
	"eventmgr/internal/export"
	"eventmgr/internal/syncer"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write every event as JSON or iCalendar.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "json or ics (default: from --out extension, else json)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "-", Usage: "output file, - for stdout"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}

			out := c.String("out")
			format, err := export.ParseFormat(c.String("format"), out)
			if err != nil {
				return err
			}

			events := e.events.List()
			if out == "-" {
				return export.Write(c.App.Writer, format, events, e.loc, time.Now())
			}

			if err := export.WriteFile(out, format, events, e.loc, time.Now()); err != nil {
				return err
			}

			e.log.Info("events exported", slog.String("path", out), slog.String("format", string(format)), slog.Int("count", len(events)))
			color.New(color.FgGreen).Fprintf(c.App.Writer, "All events have been successfully exported to %s.\n", out)
			return nil
		},
	}
}

func publishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Push events to a CalDAV calendar.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Log what would be published without making changes."},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}

			if c.Bool("dry-run") {
				e.log.Info("Performing a dry run. No changes will be made.")
			}

			client, err := caldav.NewClient(c.Context, e.log, caldav.Config{
				Endpoint:     e.cfg.CalDAV.Endpoint,
				Username:     e.cfg.CalDAV.Username,
				Password:     e.cfg.CalDAV.Password,
				CalendarName: e.cfg.CalDAV.CalendarName,
				Collection:   e.cfg.CalDAV.Collection,
				Timeout:      e.cfg.CalDAV.Timeout,
			})
			if err != nil {
				return fmt.Errorf("failed to create caldav client: %w", err)
			}

			s, err := syncer.NewSyncer(e.log, client, e.cfg.CalDAV.StateFile, e.loc, c.Bool("dry-run"))
			if err != nil {
				return fmt.Errorf("failed to create syncer: %w", err)
			}

			res, err := s.Sync(c.Context, e.events.List(), time.Now())
			if err != nil {
				return fmt.Errorf("publish failed: %w", err)
			}

			fmt.Fprintf(c.App.Writer, "Published to %s: %d created, %d updated, %d removed, %d unchanged, %d failed.\n",
				client.Collection(), res.Created, res.Updated, res.Removed, res.Skipped, res.Failed)
			if res.Failed > 0 {
				return fmt.Errorf("%d events could not be published", res.Failed)
			}
			return nil
		},
	}
}
