package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/bft-labs/counts2csv/internal/adapters/fs"
	"github.com/bft-labs/counts2csv/internal/adapters/h5ad"
	"github.com/bft-labs/counts2csv/internal/adapters/progress"
	"github.com/bft-labs/counts2csv/internal/app"
	"github.com/bft-labs/counts2csv/internal/cliconfig"
	"github.com/bft-labs/counts2csv/internal/ports"
)

func newWatchCommand(cfg *cliconfig.Config, cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Convert every AnnData file that appears in a directory",
		Long: `Convert every .h5ad or .h5 file in a directory, then keep watching it for
new or rewritten files. Each input is written to <out-dir>/<name>.csv
(.tsv with the tab delimiter). Converted inputs are recorded in a ledger in
the state directory and skipped until they change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfg, *cfgPath); err != nil {
				return err
			}
			if err := cfg.ValidateWatch(); err != nil {
				return err
			}
			return runWatch(cmd.Context(), *cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.WatchDir, "dir", cfg.WatchDir, "directory to watch for AnnData files")
	f.StringVar(&cfg.OutDir, "out-dir", cfg.OutDir, "directory for output tables (defaults to dir)")
	f.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for the conversion ledger (defaults to out-dir)")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "maximum number of concurrent conversions")
	f.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "quiet period after the last write before a file is converted")
	f.BoolVar(&cfg.Once, "once", cfg.Once, "convert the files present now and exit")

	return cmd
}

func runWatch(ctx context.Context, cfg cliconfig.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	delim, orient, err := cfg.Options()
	if err != nil {
		return err
	}

	// concurrent bars would overwrite each other
	showProgress := !cfg.NoProgress && cfg.Workers == 1

	conv := app.NewConverter(
		h5ad.NewReader(logger),
		progress.NewFactory(os.Stderr, showProgress),
		logger,
	)
	repo := fs.NewLedgerFileRepository(cfg.StateDir)
	logger.Debug("ledger", ports.String("path", repo.Path()))

	w := app.NewWatcher(app.WatcherConfig{
		Dir:       cfg.WatchDir,
		OutDir:    cfg.OutDir,
		Delimiter: delim,
		Orient:    orient,
		Workers:   cfg.Workers,
		Debounce:  cfg.Debounce,
		Once:      cfg.Once,
	}, conv, repo, logger)
	return w.Run(ctx)
}
