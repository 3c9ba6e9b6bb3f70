package config

import (
	"fmt"
	"time"

	"github.com/fafukeh/AramEnjoyer/pkg/controller"
	"github.com/fafukeh/AramEnjoyer/pkg/slot"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
)

// Config contains all application settings
type Config struct {
	BindPort      int    `mapstructure:"PORT" yaml:"port"`
	BindHost      string `mapstructure:"HOST" yaml:"host"`
	StorageDriver string `mapstructure:"STORAGE_DRIVER" yaml:"storage_driver"`
	SnapshotFile  string `mapstructure:"SNAPSHOT_FILE" yaml:"snapshot_file"`
	DatabaseURL   string `mapstructure:"DATABASE_URL" yaml:"database_url"`
	NATSServerURL string `mapstructure:"NATS_URL" yaml:"nats_url"`
	NATSSubject   string `mapstructure:"NATS_SUBJECT" yaml:"nats_subject"`
	Namespace     string `mapstructure:"NAMESPACE" yaml:"namespace"`
	LogLevel      string `mapstructure:"LOG_LEVEL" yaml:"log_level"`

	// Board
	Timezone        string        `mapstructure:"TIMEZONE" yaml:"timezone"`
	ResetHour       int           `mapstructure:"RESET_HOUR" yaml:"reset_hour"`
	SlotStep        time.Duration `mapstructure:"SLOT_STEP" yaml:"slot_step"`
	OpenWindow      time.Duration `mapstructure:"OPEN_WINDOW" yaml:"open_window"`
	CountdownWindow time.Duration `mapstructure:"COUNTDOWN_WINDOW" yaml:"countdown_window"`
	MaxPlayers      int           `mapstructure:"MAX_PLAYERS" yaml:"max_players"`
	TickInterval    time.Duration `mapstructure:"TICK_INTERVAL" yaml:"tick_interval"`

	// Version
	BuildVersion string `yaml:"-"`
	BuildHash    string `yaml:"-"`
	BuildTime    string `yaml:"-"`
}

// Validate rejects settings the board cannot run with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverMemory, StorageDriverFile, StorageDriverPostgres:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.StorageDriver)
	}
	if c.StorageDriver == StorageDriverFile && c.SnapshotFile == "" {
		return fmt.Errorf("config: SNAPSHOT_FILE is required for the file storage driver")
	}
	if c.ResetHour < 0 || c.ResetHour > 23 {
		return fmt.Errorf("config: RESET_HOUR must be between 0 and 23, got %d", c.ResetHour)
	}
	if c.SlotStep < time.Minute || time.Hour%c.SlotStep != 0 {
		return fmt.Errorf("config: SLOT_STEP must divide an hour in whole minutes, got %s", c.SlotStep)
	}
	if c.OpenWindow <= 0 {
		return fmt.Errorf("config: OPEN_WINDOW must be positive")
	}
	if c.CountdownWindow <= 0 {
		return fmt.Errorf("config: COUNTDOWN_WINDOW must be positive")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("config: TICK_INTERVAL must be positive")
	}
	if c.MaxPlayers < 1 {
		return fmt.Errorf("config: MAX_PLAYERS must be at least 1, got %d", c.MaxPlayers)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "config: invalid LOG_LEVEL")
	}
	return nil
}

// Location resolves the timezone the board runs in.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "config: invalid TIMEZONE %q", c.Timezone)
	}
	return loc, nil
}

// Policy translates the settings into the slot catalog policy.
func (c *Config) Policy() slot.Policy {
	p := slot.DefaultPolicy()
	p.ResetHour = c.ResetHour
	if c.SlotStep > 0 {
		p.Step = c.SlotStep
	}
	if loc, err := c.Location(); err == nil {
		p.Location = loc
	}
	return p
}

// Options translates the settings into the controller options.
func (c *Config) Options() controller.Options {
	return controller.Options{
		MaxPlayers:      c.MaxPlayers,
		OpenWindow:      c.OpenWindow,
		CountdownWindow: c.CountdownWindow,
		TickInterval:    c.TickInterval,
	}
}

// Level is the logrus level, info when unset or invalid.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
