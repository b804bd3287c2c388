//go:build !cgo

package h5ad

import (
	"context"

	"github.com/bft-labs/counts2csv/internal/domain"
	"github.com/bft-labs/counts2csv/internal/ports"
)

// Reader implements ports.DatasetReader. Without cgo every Read fails with
// ErrHDF5Unavailable.
type Reader struct {
	logger ports.Logger
}

// NewReader creates a Reader that logs through logger.
func NewReader(logger ports.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read implements ports.DatasetReader.
func (r *Reader) Read(_ context.Context, path string) (domain.Dataset, error) {
	r.logger.Error("cannot read HDF5 input", ports.String("path", path), ports.Err(ErrHDF5Unavailable))
	return domain.Dataset{}, ErrHDF5Unavailable
}
