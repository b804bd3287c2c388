package countscsv

import (
	"github.com/bft-labs/counts2csv/internal/adapters/h5ad"
	"github.com/bft-labs/counts2csv/internal/app"
	"github.com/bft-labs/counts2csv/internal/domain"
	"github.com/bft-labs/counts2csv/pkg/log"
)

// Re-export types from internal packages for convenient access.
type (
	// Number is the set of supported matrix element types.
	Number = domain.Number

	// Matrix is a sparse counts matrix of any element type.
	Matrix = domain.Matrix

	// CSR is a compressed sparse row matrix.
	CSR[T Number] = domain.CSR[T]

	// Dataset is a counts matrix with its observation and variable names.
	Dataset = domain.Dataset

	// DType identifies the element type of a Matrix.
	DType = domain.DType

	// Delimiter is the field separator of the output table.
	Delimiter = domain.Delimiter

	// Orient selects which names label the output columns.
	Orient = domain.Orient

	// InvalidValueError reports a delimiter or orientation name that is not
	// recognized.
	InvalidValueError = domain.InvalidValueError

	// Result summarizes a finished file conversion.
	Result = app.Result

	// Logger is the interface for structured logging.
	Logger = log.Logger
)

const (
	Comma     = domain.Comma
	Tab       = domain.Tab
	Colon     = domain.Colon
	Pipe      = domain.Pipe
	Semicolon = domain.Semicolon

	VarNames = domain.VarNames
	ObsNames = domain.ObsNames
)

var (
	ErrInvalidValue     = domain.ErrInvalidValue
	ErrUnsupportedDType = domain.ErrUnsupportedDType
	ErrInvalidMatrix    = domain.ErrInvalidMatrix
	ErrShapeMismatch    = domain.ErrShapeMismatch

	// ErrHDF5Unavailable is returned by Convert in builds without cgo.
	ErrHDF5Unavailable = h5ad.ErrHDF5Unavailable
)

// NewCSR validates the CSR arrays and returns the matrix. indptr must have
// rows+1 non-decreasing entries starting at 0 and ending at len(data), and the
// column indices of each row must be strictly increasing and below cols.
func NewCSR[T Number](rows, cols int, indptr, indices []int, data []T) (*CSR[T], error) {
	return domain.NewCSR(rows, cols, indptr, indices, data)
}

// NewDataset pairs a matrix with its names and checks that the names match
// the matrix shape.
func NewDataset(m Matrix, obsNames, varNames []string) (Dataset, error) {
	ds := Dataset{Matrix: m, ObsNames: obsNames, VarNames: varNames}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// ParseDelimiter maps "comma", "tab", "colon", "pipe" or "semicolon" to a
// Delimiter.
func ParseDelimiter(name string) (Delimiter, error) {
	return domain.ParseDelimiter(name)
}

// ParseOrient maps "var-names" or "obs-names" to an Orient.
func ParseOrient(name string) (Orient, error) {
	return domain.ParseOrient(name)
}
