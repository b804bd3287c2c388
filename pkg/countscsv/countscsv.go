package countscsv

import (
	"context"
	"io"

	"github.com/bft-labs/counts2csv/internal/adapters/csvout"
	"github.com/bft-labs/counts2csv/internal/adapters/h5ad"
	"github.com/bft-labs/counts2csv/internal/adapters/progress"
	"github.com/bft-labs/counts2csv/internal/app"
	"github.com/bft-labs/counts2csv/pkg/log"
)

// Options controls how a table is written.
// The zero value writes comma separated output with VarNames orientation,
// no logging and no progress bar.
type Options struct {
	Delimiter Delimiter
	Orient    Orient

	// Logger receives progress messages. Nil disables logging.
	Logger Logger

	// Progress receives a progress bar over the written rows, typically
	// os.Stderr. Nil disables the bar.
	Progress io.Writer
}

func (o Options) logger() Logger {
	if o.Logger == nil {
		return log.NewNoopLogger()
	}
	return o.Logger
}

func (o Options) progress() *progress.Factory {
	return progress.NewFactory(o.Progress, o.Progress != nil)
}

// Write writes ds as a delimited table to w.
func Write(ctx context.Context, w io.Writer, ds Dataset, opts Options) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	table := ds.Orient(opts.Orient)
	bar := opts.progress().New(len(table.RowNames), "writing")
	_, err := csvout.NewWriter(w, opts.Delimiter).WriteTable(ctx, table, bar)
	return err
}

// WriteFile writes ds to path. The file only appears once the whole table
// has been written.
func WriteFile(ctx context.Context, path string, ds Dataset, opts Options) (Result, error) {
	c := app.NewConverter(nil, opts.progress(), opts.logger())
	return c.WriteDataset(ctx, ds, app.Job{
		Output:    path,
		Delimiter: opts.Delimiter,
		Orient:    opts.Orient,
	})
}

// MakeCSV writes ds to outfile. delimiter is one of "comma", "tab", "colon",
// "pipe" or "semicolon"; columnOrient is "var-names" or "obs-names".
func MakeCSV(ds Dataset, delimiter, columnOrient, outfile string) error {
	d, err := ParseDelimiter(delimiter)
	if err != nil {
		return err
	}
	o, err := ParseOrient(columnOrient)
	if err != nil {
		return err
	}
	_, err = WriteFile(context.Background(), outfile, ds, Options{Delimiter: d, Orient: o})
	return err
}

// Convert reads the AnnData file at input and writes its counts table to
// output.
func Convert(ctx context.Context, input, output string, opts Options) (Result, error) {
	logger := opts.logger()
	c := app.NewConverter(h5ad.NewReader(logger), opts.progress(), logger)
	return c.Convert(ctx, app.Job{
		Input:     input,
		Output:    output,
		Delimiter: opts.Delimiter,
		Orient:    opts.Orient,
	})
}
