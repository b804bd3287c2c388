// Package h5ad reads AnnData counts matrices from HDF5 files.
//
// The file must store X as a sparse matrix group with data, indices and
// indptr datasets, and the obs and var groups must name their index column
// in an "_index" attribute. Reading requires cgo and the HDF5 C library.
package h5ad

import (
	"errors"
	"fmt"
)

const (
	matrixGroup = "X"
	indexAttr   = "_index"
)

var (
	// ErrHDF5Unavailable is returned when the binary was built without cgo.
	ErrHDF5Unavailable = errors.New("counts2csv: HDF5 support requires a cgo build")

	// ErrNotSparse is returned when X is not a sparse matrix group.
	ErrNotSparse = errors.New("counts2csv: counts matrix must be stored as a sparse matrix (CSR)")
)

type layout string

const (
	layoutCSR layout = "csr"
	layoutCSC layout = "csc"
)

func parseLayout(encoding string) (layout, error) {
	switch encoding {
	case "csr_matrix", "csr":
		return layoutCSR, nil
	case "csc_matrix", "csc":
		return layoutCSC, nil
	}
	return "", fmt.Errorf("%w: X is encoded as %q", ErrNotSparse, encoding)
}
