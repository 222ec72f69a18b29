// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// ScheduleConfig holds the clinic's working-day settings.
type ScheduleConfig struct {
	StartHour       int    `toml:"start_hour"`            // first visible hour, e.g. 7
	EndHour         int    `toml:"end_hour"`              // exclusive end hour, e.g. 21
	SlotMinutes     int    `toml:"slot_duration_minutes"` // e.g. 30
	WeekStartDay    string `toml:"week_start_day"`        // "monday" or "sunday"
	IncludeWeekTail bool   `toml:"include_week_tail"`     // show saturday/sunday in week view
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme       string  `toml:"theme"`         // "mocha", "macchiato", "frappe", "latte"
	RowsPerSlot int     `toml:"rows_per_slot"` // terminal rows per time slot
	DefaultRate float64 `toml:"default_rate"`  // session price suggested when booking
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			StartHour:       7,
			EndHour:         21,
			SlotMinutes:     30,
			WeekStartDay:    "monday",
			IncludeWeekTail: true,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:       "frappe",
			RowsPerSlot: 1,
			DefaultRate: 45,
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "clinicgrid.db"
	}
	return filepath.Join(home, ".local", "share", "clinicgrid", "clinicgrid.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "clinicgrid", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CLINICGRID_START_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.StartHour = n
		}
	}
	if v := os.Getenv("CLINICGRID_END_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.EndHour = n
		}
	}
	if v := os.Getenv("CLINICGRID_SLOT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.SlotMinutes = n
		}
	}
	if v := os.Getenv("CLINICGRID_WEEK_START_DAY"); v != "" {
		cfg.Schedule.WeekStartDay = v
	}
	if v := os.Getenv("CLINICGRID_INCLUDE_WEEK_TAIL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Schedule.IncludeWeekTail = b
		}
	}
	if v := os.Getenv("CLINICGRID_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("CLINICGRID_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Schedule.StartHour < 0 || c.Schedule.StartHour > 23 {
		return fmt.Errorf("start_hour must be between 0 and 23, got %d", c.Schedule.StartHour)
	}
	if c.Schedule.EndHour < 1 || c.Schedule.EndHour > 24 {
		return fmt.Errorf("end_hour must be between 1 and 24, got %d", c.Schedule.EndHour)
	}
	if c.Schedule.StartHour >= c.Schedule.EndHour {
		return errors.New("start_hour must be before end_hour")
	}
	if c.Schedule.SlotMinutes <= 0 {
		return errors.New("slot_duration_minutes must be positive")
	}
	windowMinutes := (c.Schedule.EndHour - c.Schedule.StartHour) * 60
	if windowMinutes%c.Schedule.SlotMinutes != 0 {
		return fmt.Errorf("slot_duration_minutes %d does not divide the %d-minute day evenly",
			c.Schedule.SlotMinutes, windowMinutes)
	}
	if _, err := c.WeekStart(); err != nil {
		return err
	}
	if c.UI.RowsPerSlot < 1 {
		return errors.New("rows_per_slot must be at least 1")
	}
	if c.UI.DefaultRate < 0 {
		return errors.New("default_rate must not be negative")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// WeekStart resolves the configured week start day name.
// Only monday and sunday starts are supported.
func (c *Config) WeekStart() (string, error) {
	day := strings.ToLower(c.Schedule.WeekStartDay)
	switch day {
	case "monday", "sunday":
		return day, nil
	default:
		return "", fmt.Errorf("week_start_day must be monday or sunday, got %q", c.Schedule.WeekStartDay)
	}
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
