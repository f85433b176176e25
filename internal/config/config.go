package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"eventmgr/internal/lib/atomicfile"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration. Values come from, in increasing
// priority: defaults, the optional YAML file, then EVENTMGR_* environment variables.
type Config struct {
	Env           string     `yaml:"env" env:"EVENTMGR_ENV" env-default:"local"`
	LogLevel      string     `yaml:"log_level" env:"EVENTMGR_LOG_LEVEL" env-default:"info"`
	EventsFile    string     `yaml:"events_file" env:"EVENTMGR_EVENTS_FILE" env-default:"events.json"`
	RosterFile    string     `yaml:"roster_file" env:"EVENTMGR_ROSTER_FILE" env-default:"attendees.xlsx"`
	AdminPassword string     `yaml:"admin_password" env:"EVENTMGR_ADMIN_PASSWORD" env-default:"admin123"`
	Timezone      string     `yaml:"timezone" env:"EVENTMGR_TIMEZONE" env-default:"Local"`
	Reminder      Reminder   `yaml:"reminder"`
	HTTPServer    HTTPServer `yaml:"http_server"`
	CalDAV        CalDAV     `yaml:"caldav"`
}

type Reminder struct {
	// Window is how far ahead of now an event may start to be reminded about.
	Window time.Duration `yaml:"window" env:"EVENTMGR_REMINDER_WINDOW" env-default:"24h"`
	// Schedule is the cron spec used by "remind --watch" when no spec is given.
	Schedule string `yaml:"schedule" env:"EVENTMGR_REMINDER_SCHEDULE" env-default:"0 8 * * *"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"EVENTMGR_HTTP_ADDRESS" env-default:"127.0.0.1:8080"`
	Timeout     time.Duration `yaml:"timeout" env:"EVENTMGR_HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"EVENTMGR_HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type CalDAV struct {
	Endpoint     string        `yaml:"endpoint" env:"EVENTMGR_CALDAV_ENDPOINT"`
	Username     string        `yaml:"username" env:"EVENTMGR_CALDAV_USERNAME"`
	Password     string        `yaml:"password" env:"EVENTMGR_CALDAV_PASSWORD"`
	CalendarName string        `yaml:"calendar_name" env:"EVENTMGR_CALDAV_CALENDAR"`
	Collection   string        `yaml:"collection" env:"EVENTMGR_CALDAV_COLLECTION"`
	StateFile    string        `yaml:"state_file" env:"EVENTMGR_CALDAV_STATE_FILE" env-default:"publish-state.json"`
	Timeout      time.Duration `yaml:"timeout" env:"EVENTMGR_CALDAV_TIMEOUT" env-default:"30s"`
}

// Load builds the configuration. With an empty path only defaults and the
// environment are used. If path is set but the file does not exist, the effective
// configuration is written there (0600) so it can be edited later.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from environment: %w", err)
		}
		return &cfg, cfg.validate()
	}

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from environment: %w", err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		// First run: create default config file.
		if err := Save(path, &cfg); err != nil {
			return &cfg, err
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	return &cfg, cfg.validate()
}

// Save writes cfg to path as YAML, atomically, with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return atomicfile.WriteFile(path, data, 0o600)
}

func (c *Config) validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Reminder.Window <= 0 {
		return fmt.Errorf("reminder window must be positive, got %s", c.Reminder.Window)
	}
	if strings.TrimSpace(c.EventsFile) == "" {
		return errors.New("events file is not configured")
	}
	if strings.TrimSpace(c.RosterFile) == "" {
		return errors.New("roster file is not configured")
	}
	return nil
}

// Location resolves Timezone. "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	return loc, nil
}
