package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bft-labs/counts2csv/internal/adapters/csvout"
	"github.com/bft-labs/counts2csv/internal/adapters/fs"
	"github.com/bft-labs/counts2csv/internal/domain"
	"github.com/bft-labs/counts2csv/internal/ports"
)

// Job describes one input file to convert.
type Job struct {
	Input     string
	Output    string
	Delimiter domain.Delimiter
	Orient    domain.Orient
}

// Result summarizes a finished conversion.
type Result struct {
	Input    string
	Output   string
	Rows     int
	Cols     int
	Bytes    int64
	Duration time.Duration
}

// Converter reads a dataset and writes it as a dense delimited table.
type Converter struct {
	reader   ports.DatasetReader
	progress ports.ProgressFactory
	logger   ports.Logger
	now      func() time.Time
}

// NewConverter creates a Converter.
func NewConverter(reader ports.DatasetReader, progress ports.ProgressFactory, logger ports.Logger) *Converter {
	return &Converter{
		reader:   reader,
		progress: progress,
		logger:   logger,
		now:      time.Now,
	}
}

// Convert runs job. The output file is written under a temporary name and
// renamed into place only when the whole table has been written.
func (c *Converter) Convert(ctx context.Context, job Job) (Result, error) {
	start := c.now()

	c.logger.Info("Reading H5 file", ports.String("path", job.Input))
	ds, err := c.reader.Read(ctx, job.Input)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", job.Input, err)
	}

	res, err := c.WriteDataset(ctx, ds, job)
	if err != nil {
		return Result{}, err
	}
	res.Duration = c.now().Sub(start)
	return res, nil
}

// WriteDataset writes an already loaded dataset to job.Output.
// job.Input is only used for reporting.
func (c *Converter) WriteDataset(ctx context.Context, ds domain.Dataset, job Job) (Result, error) {
	start := c.now()

	if err := ds.Validate(); err != nil {
		return Result{}, err
	}
	table := ds.Orient(job.Orient)

	c.logger.Info(fmt.Sprintf("Writing %s", job.Output),
		ports.String("orient", job.Orient.String()),
		ports.String("delimiter", job.Delimiter.String()),
		ports.String("dtype", table.Matrix.DType().String()),
		ports.Int("rows", table.Matrix.Rows()),
		ports.Int("cols", table.Matrix.Cols()))

	out, err := fs.CreateAtomic(job.Output)
	if err != nil {
		return Result{}, fmt.Errorf("create %s: %w", job.Output, err)
	}
	defer out.Abort()

	progress := c.progress.New(len(table.RowNames), job.Output)
	rows, err := csvout.NewWriter(out, job.Delimiter).WriteTable(ctx, table, progress)
	if err != nil {
		return Result{}, fmt.Errorf("write %s: %w", job.Output, err)
	}

	size, err := out.Commit()
	if err != nil {
		return Result{}, fmt.Errorf("commit %s: %w", job.Output, err)
	}

	res := Result{
		Input:    job.Input,
		Output:   job.Output,
		Rows:     rows,
		Cols:     table.Matrix.Cols(),
		Bytes:    size,
		Duration: c.now().Sub(start),
	}
	c.logger.Info(fmt.Sprintf("Done writing %s", job.Output),
		ports.Int("rows", res.Rows),
		ports.Int("cols", res.Cols),
		ports.String("size", humanize.Bytes(uint64(res.Bytes))),
		ports.Duration("took", res.Duration))
	return res, nil
}
