package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/counts2csv/internal/adapters/h5ad"
	"github.com/bft-labs/counts2csv/internal/adapters/progress"
	"github.com/bft-labs/counts2csv/internal/app"
	"github.com/bft-labs/counts2csv/internal/cliconfig"
	"github.com/bft-labs/counts2csv/pkg/countscsv"
	"github.com/bft-labs/counts2csv/pkg/log"
)

const longHelp = `Write counts matrix of H5 to CSV file.

The input must be an H5 file readable as AnnData with the counts matrix X
stored as a sparse matrix. Every position absent from the sparse matrix is
written as zero.

Configure via file ($HOME/.counts2csv/config.toml), COUNTS2CSV_* environment
variables, or flags. Flags win over the environment, which wins over the file.`

var exampleUsage = strings.TrimSpace(`
  counts2csv -f pbmc3k.h5ad -c var-names -o pbmc3k.csv
  counts2csv -f pbmc3k.h5ad -c obs-names -d tab -o pbmc3k.tsv
  counts2csv watch --dir ./incoming --out-dir ./tables -c var-names
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return countscsv.Version
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := cliconfig.DefaultConfig()
	root := newRootCommand(&cfg)
	if err := root.ExecuteContext(ctx); err != nil {
		logger, _ := cliconfig.Logger(cfg.LogLevel)
		logger.Error().Err(err).Msg("counts2csv")
		stop()
		os.Exit(1)
	}
}

func newRootCommand(cfg *cliconfig.Config) *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "counts2csv",
		Short:         "Write counts matrix of H5 to CSV file",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfg, cfgPath); err != nil {
				return err
			}
			if err := cfg.ValidateConvert(); err != nil {
				return err
			}
			return runConvert(cmd.Context(), *cfg)
		},
	}

	// Shared by the root command and watch.
	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.counts2csv/config.toml)")
	pf.StringVarP(&cfg.ColumnOrient, "column-orient", "c", cfg.ColumnOrient, "column orientation [possible values: var-names, obs-names]")
	pf.StringVarP(&cfg.Delimiter, "delimiter", "d", cfg.Delimiter, "delimiter [possible values: comma, tab, colon, pipe, semicolon]")
	pf.BoolVar(&cfg.NoProgress, "no-progress", cfg.NoProgress, "disable the progress bar")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.Flags().StringVarP(&cfg.H5File, "h5-file", "f", cfg.H5File, "H5 file readable as AnnData, with the counts matrix stored as CSR")
	root.Flags().StringVarP(&cfg.Outfile, "outfile", "o", cfg.Outfile, "output file")

	root.AddCommand(newWatchCommand(cfg, &cfgPath))
	return root
}

func runConvert(ctx context.Context, cfg cliconfig.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	delim, orient, err := cfg.Options()
	if err != nil {
		return err
	}

	conv := app.NewConverter(
		h5ad.NewReader(logger),
		progress.NewFactory(os.Stderr, !cfg.NoProgress),
		logger,
	)
	_, err = conv.Convert(ctx, app.Job{
		Input:     cfg.H5File,
		Output:    cfg.Outfile,
		Delimiter: delim,
		Orient:    orient,
	})
	return err
}

func newLogger(cfg cliconfig.Config) (*log.ZerologAdapter, error) {
	zl, err := cliconfig.Logger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log-level: %w", err)
	}
	return log.NewZerologAdapterWithLogger(zl), nil
}
