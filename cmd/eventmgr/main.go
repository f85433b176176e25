package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"eventmgr/internal/auth"
	"eventmgr/internal/config"
	"eventmgr/internal/lib/logger/handlers/slogpretty"
	"eventmgr/internal/roster"
	"eventmgr/internal/storage/jsonfile"
	"eventmgr/internal/store"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "eventmgr",
		Usage: "Schedule events, keep an attendee roster and send reminders.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				EnvVars: []string{"EVENTMGR_CONFIG"},
				Usage:   "YAML config file; created with defaults if missing",
			},
		},
		Action: runShell,
		Commands: []*cli.Command{
			shellCommand(),
			todayCommand(),
			listCommand(),
			searchCommand(),
			showCommand(),
			addCommand(),
			editCommand(),
			deleteCommand(),
			attendeesCommand(),
			remindCommand(),
			exportCommand(),
			publishCommand(),
			serveCommand(),
		},
	}
}

// env is what every command needs: configuration, logger and the loaded event store.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	loc    *time.Location
	events *store.Store
	roster *roster.File
	gate   *auth.Gate
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg.Env, cfg.LogLevel)
	log.Debug("configuration loaded", slog.String("env", cfg.Env), slog.String("events_file", cfg.EventsFile))

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	events, err := store.Open(log, jsonfile.New(cfg.EventsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load events from %s: %w", cfg.EventsFile, err)
	}

	return &env{
		cfg:    cfg,
		log:    log,
		loc:    loc,
		events: events,
		roster: roster.New(log, cfg.RosterFile),
		gate:   auth.NewGate(cfg.AdminPassword),
	}, nil
}

// role turns the --password flag into a capability. No password means Viewer, which
// the store rejects for mutations; a wrong one is reported right away.
func (e *env) role(c *cli.Context) (auth.Role, error) {
	password := c.String("password")
	if password == "" {
		return auth.Viewer, nil
	}
	role, err := e.gate.Login(password)
	if err != nil {
		e.log.Warn("admin login rejected")
		return auth.Viewer, err
	}
	return role, nil
}

func setupLogger(env, level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	switch env {
	case envLocal:
		opts := slogpretty.PrettyHandlerOptions{
			SlogOpts: &slog.HandlerOptions{Level: logLevel},
		}
		return slog.New(opts.NewPrettyHandler(os.Stderr))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	default:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	}
}

func passwordFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "password",
		EnvVars: []string{"EVENTMGR_PASSWORD"},
		Usage:   "admin password, required for changes",
	}
}
