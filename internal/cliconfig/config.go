package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/counts2csv/internal/domain"
)

// DefaultOutfile is the output path used when none is given.
const DefaultOutfile = "out.csv"

// Config holds CLI configuration for counts2csv.
type Config struct {
	H5File       string
	Outfile      string
	Delimiter    string
	ColumnOrient string

	NoProgress bool
	LogLevel   string

	// watch mode
	WatchDir string
	OutDir   string
	StateDir string
	Workers  int
	Debounce time.Duration
	Once     bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Outfile:   DefaultOutfile,
		Delimiter: domain.Comma.String(),
		LogLevel:  "info",
		Workers:   2,
		Debounce:  500 * time.Millisecond,
	}
}

// Validate checks the settings shared by all commands.
func (c *Config) Validate() error {
	if _, err := domain.ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	if c.ColumnOrient == "" {
		return fmt.Errorf("%w: column-orient is required", domain.ErrInvalidConfig)
	}
	if _, err := domain.ParseOrient(c.ColumnOrient); err != nil {
		return err
	}
	return nil
}

// ValidateConvert checks the configuration of a single conversion.
func (c *Config) ValidateConvert() error {
	if c.H5File == "" {
		return fmt.Errorf("%w: h5-file is required", domain.ErrInvalidConfig)
	}
	if c.Outfile == "" {
		c.Outfile = DefaultOutfile
	}
	return c.Validate()
}

// ValidateWatch checks the watch mode configuration and sets derived defaults.
func (c *Config) ValidateWatch() error {
	if c.WatchDir == "" {
		return fmt.Errorf("%w: dir is required", domain.ErrInvalidConfig)
	}
	if c.OutDir == "" {
		c.OutDir = c.WatchDir
	}
	if c.StateDir == "" {
		c.StateDir = c.OutDir
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", domain.ErrInvalidConfig)
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("%w: debounce must be positive", domain.ErrInvalidConfig)
	}
	return c.Validate()
}

// Options returns the parsed delimiter and orientation.
// Call it after Validate.
func (c *Config) Options() (domain.Delimiter, domain.Orient, error) {
	d, err := domain.ParseDelimiter(c.Delimiter)
	if err != nil {
		return 0, 0, err
	}
	o, err := domain.ParseOrient(c.ColumnOrient)
	if err != nil {
		return 0, 0, err
	}
	return d, o, nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
