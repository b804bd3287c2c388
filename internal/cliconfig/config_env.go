package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (COUNTS2CSV_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("h5-file", os.Getenv("COUNTS2CSV_H5_FILE"), &cfg.H5File)
	s.setString("outfile", os.Getenv("COUNTS2CSV_OUTFILE"), &cfg.Outfile)
	s.setString("delimiter", os.Getenv("COUNTS2CSV_DELIMITER"), &cfg.Delimiter)
	s.setString("column-orient", os.Getenv("COUNTS2CSV_COLUMN_ORIENT"), &cfg.ColumnOrient)
	s.setString("log-level", os.Getenv("COUNTS2CSV_LOG_LEVEL"), &cfg.LogLevel)
	s.setBoolFromString("no-progress", os.Getenv("COUNTS2CSV_NO_PROGRESS"), &cfg.NoProgress)

	s.setString("dir", os.Getenv("COUNTS2CSV_WATCH_DIR"), &cfg.WatchDir)
	s.setString("out-dir", os.Getenv("COUNTS2CSV_OUT_DIR"), &cfg.OutDir)
	s.setString("state-dir", os.Getenv("COUNTS2CSV_STATE_DIR"), &cfg.StateDir)
	if err := s.setIntFromString("workers", os.Getenv("COUNTS2CSV_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("COUNTS2CSV_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}
	s.setBoolFromString("once", os.Getenv("COUNTS2CSV_ONCE"), &cfg.Once)

	return nil
}
