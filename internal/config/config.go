// Package config loads the daemon configuration from config.json in the
// configuration directory, with environment overrides on top.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/warpdl/warpremind/common"
	"github.com/warpdl/warpremind/pkg/reminder"
	"github.com/warpdl/warpremind/pkg/timeline"
)

// FileName is the config file inside the configuration directory.
const FileName = "config.json"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Duration is a time.Duration that reads and writes as "10s", "5m".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the daemon configuration.
type Config struct {
	Listen  string `json:"listen"`
	DBPath  string `json:"db_path"`
	LogFile string `json:"log_file,omitempty"`
	Debug   bool   `json:"debug,omitempty"`
	// Origins are extra WebSocket origin patterns (for browser hosts).
	Origins []string `json:"origins,omitempty"`

	PollInterval Duration `json:"poll_interval"`
	// AwaitHostSync holds the sync gate until a host calls sync.done.
	// Otherwise the gate opens as soon as the store is ready.
	AwaitHostSync bool     `json:"await_host_sync"`
	DefaultSnooze Duration `json:"default_snooze"`

	WorkdayStart string `json:"workday_start"`
	WorkdayEnd   string `json:"workday_end"`
	LunchStart   string `json:"lunch_start"`
	LunchEnd     string `json:"lunch_end"`

	dir string
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Listen:        common.DefaultListenAddr,
		DBPath:        filepath.Join(dir, "reminders.db"),
		PollInterval:  Duration(reminder.DefaultPollInterval),
		DefaultSnooze: Duration(10 * time.Minute),
		WorkdayStart:  "09:00",
		WorkdayEnd:    "17:00",
		LunchStart:    "12:00",
		LunchEnd:      "13:00",
		dir:           dir,
	}
}

// Load reads dir/config.json from fs over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(fs afero.Fs, dir string) (*Config, error) {
	c := Default(dir)
	path := filepath.Join(dir, FileName)
	data, err := afero.ReadFile(fs, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(common.ListenEnv); v != "" {
		c.Listen = v
	}
	if common.DebugEnabled() {
		c.Debug = true
	}
}

// Save writes the configuration to dir/config.json with owner-only
// permissions.
func (c *Config) Save(fs afero.Fs) error {
	if err := fs.MkdirAll(c.dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, filepath.Join(c.dir, FileName), append(data, '\n'), 0o600)
}

// Dir returns the configuration directory.
func (c *Config) Dir() string {
	return c.dir
}

// Validate rejects unusable values.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("%w: listen is empty", ErrInvalidConfig)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path is empty", ErrInvalidConfig)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive", ErrInvalidConfig)
	}
	if c.DefaultSnooze <= 0 {
		return fmt.Errorf("%w: default_snooze must be positive", ErrInvalidConfig)
	}
	if _, err := c.Day(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Day converts the workday settings for the timeline.
func (c *Config) Day() (timeline.DayConfig, error) {
	var (
		day  timeline.DayConfig
		errs []error
	)
	parse := func(dst *timeline.ClockTime, s string) {
		v, err := timeline.ParseClockTime(s)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*dst = v
	}
	parse(&day.WorkdayStart, c.WorkdayStart)
	parse(&day.WorkdayEnd, c.WorkdayEnd)
	parse(&day.LunchStart, c.LunchStart)
	parse(&day.LunchEnd, c.LunchEnd)
	if err := errors.Join(errs...); err != nil {
		return day, err
	}
	day.ReminderDuration = 15 * time.Minute
	return day, day.Validate()
}
