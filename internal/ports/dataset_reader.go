package ports

import (
	"context"

	"github.com/bft-labs/counts2csv/internal/domain"
)

// DatasetReader loads an AnnData dataset whose counts matrix is stored in CSR form.
type DatasetReader interface {
	// Read opens path and returns the matrix with its obs and var names.
	// The returned dataset has already passed domain validation.
	Read(ctx context.Context, path string) (domain.Dataset, error)
}
