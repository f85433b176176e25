package main

import (
	"eventmgr/internal/reminder"
	"eventmgr/internal/shell"

	"github.com/urfave/cli/v2"
)

func shellCommand() *cli.Command {
	return &cli.Command{
		Name:   "shell",
		Usage:  "Start the interactive menu (default).",
		Action: runShell,
	}
}

func runShell(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	sh := shell.New(e.log, c.App.Reader, c.App.Writer, shell.Options{
		Store:      e.events,
		Roster:     e.roster,
		Gate:       e.gate,
		Dispatcher: reminder.NewDispatcher(e.log, reminder.NewConsoleNotifier(c.App.Writer), e.cfg.Reminder.Window, e.loc),
		Location:   e.loc,
	})
	return sh.Run(c.Context)
}
