package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Signals struct {
		Path     string   `yaml:"path"`
		Sheet    string   `yaml:"sheet"`
		Timezone string   `yaml:"timezone"`
		Layouts  []string `yaml:"datetime_layouts"`
	} `yaml:"signals"`
	LotSource string         `yaml:"lot_source"`
	LotSizes  map[string]int `yaml:"lot_sizes"`
	Workers   int            `yaml:"workers"`
	HTTP      struct {
		Addr            string `yaml:"addr"`
		Mode            string `yaml:"mode"`
		ShutdownSeconds int    `yaml:"shutdown_seconds"`
	} `yaml:"http"`
}

// DefaultDatetimeLayouts are tried in order when parsing the DATETIME column.
var DefaultDatetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-01-2006 15:04",
}

func (c *Config) Validate() error {
	if c.Signals.Path == "" {
		return errors.New("signals.path cannot be empty")
	}
	switch strings.ToLower(filepath.Ext(c.Signals.Path)) {
	case ".csv", ".xlsx":
	default:
		return fmt.Errorf("signals.path '%s': must be a .csv or .xlsx file", c.Signals.Path)
	}
	if _, err := time.LoadLocation(c.Signals.Timezone); err != nil {
		return fmt.Errorf("signals.timezone '%s': %w", c.Signals.Timezone, err)
	}
	if c.LotSource != "STATIC" && c.LotSource != "KITE" {
		return fmt.Errorf("invalid lot_source '%s': must be 'STATIC' or 'KITE'", c.LotSource)
	}
	for sym, n := range c.LotSizes {
		if n <= 0 {
			return fmt.Errorf("lot_sizes.%s must be positive, got %d", sym, n)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.HTTP.Mode != "debug" && c.HTTP.Mode != "release" && c.HTTP.Mode != "test" {
		return fmt.Errorf("http.mode must be 'debug', 'release' or 'test', got '%s'", c.HTTP.Mode)
	}
	return nil
}

// Location returns the timezone signal timestamps are interpreted in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Signals.Timezone)
	if err != nil {
		return time.FixedZone("IST", 19800)
	}
	return loc
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.HTTP.ShutdownSeconds) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}

// ParseConfig decodes YAML, applies defaults and environment overrides, and
// validates the result.
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if v := os.Getenv("SIGNALS_FILE"); v != "" {
		c.Signals.Path = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}

	if c.Signals.Timezone == "" {
		c.Signals.Timezone = "Asia/Kolkata"
	}
	if len(c.Signals.Layouts) == 0 {
		c.Signals.Layouts = DefaultDatetimeLayouts
	}
	if c.LotSource == "" {
		c.LotSource = "STATIC"
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8501"
	}
	if c.HTTP.Mode == "" {
		c.HTTP.Mode = "release"
	}
	if c.HTTP.ShutdownSeconds == 0 {
		c.HTTP.ShutdownSeconds = 5
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
