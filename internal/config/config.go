package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/julianstephens/aura/internal/constants"
	"github.com/julianstephens/aura/internal/utils"
)

// NotificationsConfig controls reminder delivery.
type NotificationsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// TickSec is how often the reminder loop checks for due reminders.
	TickSec int `mapstructure:"tick_sec" yaml:"tick_sec"`
}

// WidgetConfig holds summary display preferences.
type WidgetConfig struct {
	Limit int `mapstructure:"limit" yaml:"limit"`
}

// Config is the top-level application configuration.
type Config struct {
	// Database is a SQLite file path or a PostgreSQL connection string.
	Database      string              `mapstructure:"database" yaml:"database"`
	Timezone      string              `mapstructure:"timezone" yaml:"timezone"`
	WeekStart     string              `mapstructure:"week_start" yaml:"week_start"`
	Debug         bool                `mapstructure:"debug" yaml:"debug"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
	Widget        WidgetConfig        `mapstructure:"widget" yaml:"widget"`
}

// DefaultPath returns ~/.config/aura/config.yaml.
func DefaultPath() string {
	dir, err := utils.ExpandHome(constants.DefaultConfigDir)
	if err != nil {
		return constants.DefaultConfigFile
	}
	return filepath.Join(dir, constants.DefaultConfigFile)
}

func Default() *Config {
	return &Config{
		Database:  constants.DefaultDBPath,
		Timezone:  "Local",
		WeekStart: "monday",
		Notifications: NotificationsConfig{
			Enabled: true,
			TickSec: int(constants.DefaultReminderTick / time.Second),
		},
		Widget: WidgetConfig{
			Limit: constants.DefaultWidgetLimit,
		},
	}
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// AURA_DATABASE, AURA_NOTIFICATIONS_ENABLED, ...
	v.SetEnvPrefix(strings.ToUpper(constants.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("database", d.Database)
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("week_start", d.WeekStart)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.tick_sec", d.Notifications.TickSec)
	v.SetDefault("widget.limit", d.Widget.Limit)
	return v
}

// Load reads the YAML file at path with AURA_* environment overrides. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// The legacy connection variable wins over the file
	if dsn := os.Getenv(constants.EnvDBConnection); dsn != "" {
		cfg.Database = dsn
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("timezone", cfg.Timezone)
	v.Set("week_start", cfg.WeekStart)
	v.Set("debug", cfg.Debug)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.tick_sec", cfg.Notifications.TickSec)
	v.Set("widget.limit", cfg.Widget.Limit)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	if _, err := c.FirstWeekday(); err != nil {
		return err
	}
	if c.Widget.Limit < 1 {
		return fmt.Errorf("widget.limit must be at least 1, got %d", c.Widget.Limit)
	}
	if c.Notifications.TickSec < 1 {
		return fmt.Errorf("notifications.tick_sec must be at least 1, got %d", c.Notifications.TickSec)
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// Now returns the current time in the configured timezone.
func (c *Config) Now() time.Time {
	loc, err := c.Location()
	if err != nil {
		return time.Now()
	}
	return time.Now().In(loc)
}

// FirstWeekday parses WeekStart ("monday", "sun", ...).
func (c *Config) FirstWeekday() (time.Weekday, error) {
	want := strings.ToLower(strings.TrimSpace(c.WeekStart))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if want == name || want == name[:3] {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("unknown week_start %q", c.WeekStart)
}

// ReminderTick is the reminder loop interval.
func (c *Config) ReminderTick() time.Duration {
	return time.Duration(c.Notifications.TickSec) * time.Second
}

// DatabaseLocation expands a leading "~" in a SQLite path. Connection
// strings are returned unchanged.
func (c *Config) DatabaseLocation() (string, error) {
	return utils.ExpandHome(c.Database)
}

// Dir is the directory holding logs, backups and the refresh signal.
func Dir(configPath string) string {
	return filepath.Dir(configPath)
}
