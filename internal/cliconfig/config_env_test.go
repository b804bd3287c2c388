package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"COUNTS2CSV_H5_FILE":       "/env/in.h5ad",
				"COUNTS2CSV_COLUMN_ORIENT": "obs-names",
				"COUNTS2CSV_DEBOUNCE":      "2s",
				"COUNTS2CSV_WORKERS":       "4",
				"COUNTS2CSV_NO_PROGRESS":   "true",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				H5File:       "/env/in.h5ad",
				ColumnOrient: "obs-names",
				Debounce:     2 * time.Second,
				Workers:      4,
				NoProgress:   true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"COUNTS2CSV_H5_FILE": "/env/in.h5ad",
				"COUNTS2CSV_OUTFILE": "/env/out.csv",
			},
			changed:  map[string]bool{"h5-file": true},
			initial:  Config{H5File: "/flag/in.h5ad"},
			expected: Config{H5File: "/flag/in.h5ad", Outfile: "/env/out.csv"},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"COUNTS2CSV_DEBOUNCE": "soon"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"COUNTS2CSV_WORKERS": "many"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:     "non-positive int is ignored",
			envVars:  map[string]string{"COUNTS2CSV_WORKERS": "0"},
			changed:  map[string]bool{},
			initial:  Config{Workers: 2},
			expected: Config{Workers: 2},
		},
		{
			name:     "handles bool '1' as true",
			envVars:  map[string]string{"COUNTS2CSV_ONCE": "1"},
			changed:  map[string]bool{},
			expected: Config{Once: true},
		},
		{
			name:     "handles bool 'false' as false",
			envVars:  map[string]string{"COUNTS2CSV_NO_PROGRESS": "false"},
			changed:  map[string]bool{},
			initial:  Config{NoProgress: true},
			expected: Config{NoProgress: false},
		},
		{
			name: "handles all field types correctly",
			envVars: map[string]string{
				"COUNTS2CSV_H5_FILE":       "in.h5ad",
				"COUNTS2CSV_OUTFILE":       "out.tsv",
				"COUNTS2CSV_DELIMITER":     "tab",
				"COUNTS2CSV_COLUMN_ORIENT": "var-names",
				"COUNTS2CSV_LOG_LEVEL":     "debug",
				"COUNTS2CSV_NO_PROGRESS":   "1",
				"COUNTS2CSV_WATCH_DIR":     "/in",
				"COUNTS2CSV_OUT_DIR":       "/out",
				"COUNTS2CSV_STATE_DIR":     "/state",
				"COUNTS2CSV_WORKERS":       "3",
				"COUNTS2CSV_DEBOUNCE":      "1m",
				"COUNTS2CSV_ONCE":          "true",
			},
			changed: map[string]bool{},
			expected: Config{
				H5File:       "in.h5ad",
				Outfile:      "out.tsv",
				Delimiter:    "tab",
				ColumnOrient: "var-names",
				LogLevel:     "debug",
				NoProgress:   true,
				WatchDir:     "/in",
				OutDir:       "/out",
				StateDir:     "/state",
				Workers:      3,
				Debounce:     time.Minute,
				Once:         true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		H5File:       "/file/in.h5ad",
		Delimiter:    "pipe",
		ColumnOrient: "obs-names",
		NoProgress:   &trueVal,
	}

	t.Setenv("COUNTS2CSV_H5_FILE", "/env/in.h5ad")
	t.Setenv("COUNTS2CSV_DELIMITER", "colon")
	t.Setenv("COUNTS2CSV_OUTFILE", "/env/out.csv")

	// CLI flag was set for h5-file
	changed := map[string]bool{"h5-file": true}

	cfg := DefaultConfig()
	cfg.H5File = "/cli/in.h5ad"

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.H5File != "/cli/in.h5ad" {
		t.Errorf("H5File = %v, want /cli/in.h5ad (CLI should win)", cfg.H5File)
	}
	if cfg.Delimiter != "colon" {
		t.Errorf("Delimiter = %v, want colon (env should override file)", cfg.Delimiter)
	}
	if cfg.Outfile != "/env/out.csv" {
		t.Errorf("Outfile = %v, want /env/out.csv (env should set)", cfg.Outfile)
	}
	if cfg.ColumnOrient != "obs-names" {
		t.Errorf("ColumnOrient = %v, want obs-names (file should set)", cfg.ColumnOrient)
	}
	if !cfg.NoProgress {
		t.Error("NoProgress = false, want true (file should set)")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info (default should remain)", cfg.LogLevel)
	}
}
