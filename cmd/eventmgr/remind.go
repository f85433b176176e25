package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventmgr/internal/lib/logger/sl"
	"eventmgr/internal/reminder"
	"eventmgr/internal/storage/jsonfile"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func remindCommand() *cli.Command {
	return &cli.Command{
		Name:  "remind",
		Usage: "Send simulated reminders for events starting soon.",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "window", Aliases: []string{"w"}, Usage: "look-ahead window (default from config, 24h)"},
			&cli.BoolFlag{Name: "log", Usage: "write reminders to the log instead of the console"},
			&cli.BoolFlag{Name: "watch", Usage: "keep running and send on a cron schedule"},
			&cli.StringFlag{Name: "schedule", Usage: "cron schedule for --watch (default from config)"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}

			window := e.cfg.Reminder.Window
			if c.IsSet("window") {
				window = c.Duration("window")
			}
			if window <= 0 {
				return fmt.Errorf("reminder window must be positive, got %s", window)
			}

			var notifier reminder.Notifier = reminder.NewConsoleNotifier(c.App.Writer)
			if c.Bool("log") {
				notifier = reminder.NewLogNotifier(e.log)
			}
			d := reminder.NewDispatcher(e.log, notifier, window, e.loc)

			if !c.Bool("watch") {
				return remindOnce(c.Context, e, d, c.App.Writer)
			}

			spec := e.cfg.Reminder.Schedule
			if c.IsSet("schedule") {
				spec = c.String("schedule")
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return reminder.Watch(ctx, e.log, spec, func(ctx context.Context) {
				if err := remindOnce(ctx, e, d, c.App.Writer); err != nil {
					e.log.Error("reminder run failed", sl.Err(err))
				}
			})
		},
	}
}

// remindOnce re-reads the event file and roster so a long-running watcher sees
// changes made by other invocations.
func remindOnce(ctx context.Context, e *env, d *reminder.Dispatcher, w io.Writer) error {
	events, err := jsonfile.New(e.cfg.EventsFile).Load()
	if err != nil {
		return err
	}

	attendees, err := e.roster.Load()
	if err != nil {
		return err
	}
	if len(attendees) == 0 {
		return fmt.Errorf("no valid email addresses were found in %s", e.roster.Path())
	}

	report, err := d.Send(ctx, events, attendees, time.Now())
	if err != nil {
		return err
	}

	if len(report.Events) == 0 {
		fmt.Fprintf(w, "No events starting in the next %s.\n", d.Window())
		return nil
	}

	for _, f := range report.Failures {
		color.New(color.FgRed).Fprintf(w, "Failed: %v\n", f)
	}
	color.New(color.FgGreen).Fprintf(w, "Reminders for %d events sent to %d attendees (%d messages).\n",
		len(report.Events), len(attendees), report.Sent)

	e.log.Info("reminders sent",
		slog.Int("events", len(report.Events)),
		slog.Int("sent", report.Sent),
		slog.Int("failed", len(report.Failures)),
	)
	return nil
}
