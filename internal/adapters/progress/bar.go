// Package progress renders row progress while a table is written.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/bft-labs/counts2csv/internal/ports"
)

// Factory creates terminal progress bars showing elapsed time, a full-width
// bar and the completion percentage.
type Factory struct {
	out     io.Writer
	enabled bool
}

// NewFactory returns a Factory writing to out. When enabled is false every
// bar it creates is a no-op.
func NewFactory(out io.Writer, enabled bool) *Factory {
	return &Factory{out: out, enabled: enabled}
}

// New implements ports.ProgressFactory.
func (f *Factory) New(total int, description string) ports.Progress {
	if !f.enabled || f.out == nil {
		return Noop{}
	}
	return progressbar.NewOptions64(int64(total),
		progressbar.OptionSetWriter(f.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(f.out)
		}),
	)
}

// Noop is a Progress that does nothing.
type Noop struct{}

func (Noop) Add(int) error { return nil }
func (Noop) Finish() error { return nil }

var (
	_ ports.ProgressFactory = (*Factory)(nil)
	_ ports.Progress        = Noop{}
	_ ports.Progress        = (*progressbar.ProgressBar)(nil)
)
