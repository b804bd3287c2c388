// Package csvout writes oriented counts tables as delimited text.
package csvout

import (
	"context"
	"fmt"
	"io"

	"github.com/oleg578/swiftcsv"

	"github.com/bft-labs/counts2csv/internal/domain"
	"github.com/bft-labs/counts2csv/internal/ports"
)

// progressStep is how many rows are written between progress updates.
const progressStep = 64

// Writer emits a header record followed by one dense record per matrix row.
type Writer struct {
	csv    *swiftcsv.Writer
	record []string
}

// NewWriter creates a Writer that separates fields with delim.
// Fields are quoted only when they contain the delimiter, a quote or a newline.
func NewWriter(w io.Writer, delim domain.Delimiter) *Writer {
	cw := swiftcsv.NewWriter(w)
	cw.Comma = delim.Byte()
	return &Writer{csv: cw}
}

// WriteTable writes t and flushes. It returns the number of data rows written.
// progress may be nil.
func (w *Writer) WriteTable(ctx context.Context, t domain.Table, progress ports.Progress) (int, error) {
	if len(t.RowNames) != t.Matrix.Rows() {
		return 0, fmt.Errorf("%w: %d row names for %d rows", domain.ErrShapeMismatch, len(t.RowNames), t.Matrix.Rows())
	}

	w.record = append(w.record[:0], t.FirstColumn)
	w.record = append(w.record, t.Header...)
	if err := w.csv.Write(w.record); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	pending := 0
	for i, name := range t.RowNames {
		if i%progressStep == 0 {
			if err := ctx.Err(); err != nil {
				return i, err
			}
		}

		w.record = append(w.record[:0], name)
		w.record = t.Matrix.AppendRow(w.record, i)
		if err := w.csv.Write(w.record); err != nil {
			return i, fmt.Errorf("write row %q: %w", name, err)
		}

		pending++
		if progress != nil && pending == progressStep {
			_ = progress.Add(pending)
			pending = 0
		}
	}

	if err := w.csv.Flush(); err != nil {
		return len(t.RowNames), fmt.Errorf("flush: %w", err)
	}
	if progress != nil {
		if pending > 0 {
			_ = progress.Add(pending)
		}
		_ = progress.Finish()
	}
	return len(t.RowNames), nil
}
