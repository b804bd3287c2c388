package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	H5File       string `toml:"h5_file"`
	Outfile      string `toml:"outfile"`
	Delimiter    string `toml:"delimiter"`
	ColumnOrient string `toml:"column_orient"`
	NoProgress   *bool  `toml:"no_progress"`
	LogLevel     string `toml:"log_level"`

	Watch WatchFileConfig `toml:"watch"`
}

// WatchFileConfig is the [watch] table of the config file.
type WatchFileConfig struct {
	Dir      string `toml:"dir"`
	OutDir   string `toml:"out_dir"`
	StateDir string `toml:"state_dir"`
	Workers  int    `toml:"workers"`
	Debounce string `toml:"debounce"`
	Once     *bool  `toml:"once"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.counts2csv/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".counts2csv", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("h5-file", fc.H5File, &cfg.H5File)
	s.setString("outfile", fc.Outfile, &cfg.Outfile)
	s.setString("delimiter", fc.Delimiter, &cfg.Delimiter)
	s.setString("column-orient", fc.ColumnOrient, &cfg.ColumnOrient)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setBool("no-progress", fc.NoProgress, &cfg.NoProgress)

	s.setString("dir", fc.Watch.Dir, &cfg.WatchDir)
	s.setString("out-dir", fc.Watch.OutDir, &cfg.OutDir)
	s.setString("state-dir", fc.Watch.StateDir, &cfg.StateDir)
	s.setInt("workers", fc.Watch.Workers, &cfg.Workers)
	if err := s.setDuration("debounce", fc.Watch.Debounce, &cfg.Debounce); err != nil {
		return err
	}
	s.setBool("once", fc.Watch.Once, &cfg.Once)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
