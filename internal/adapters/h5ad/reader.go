//go:build cgo

package h5ad

import (
	"context"
	"fmt"

	"gonum.org/v1/hdf5"

	"github.com/bft-labs/counts2csv/internal/domain"
	"github.com/bft-labs/counts2csv/internal/ports"
)

// Reader implements ports.DatasetReader for AnnData HDF5 files.
type Reader struct {
	logger ports.Logger
}

// NewReader creates a Reader that logs through logger.
func NewReader(logger ports.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read implements ports.DatasetReader.
func (r *Reader) Read(ctx context.Context, path string) (domain.Dataset, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	enc, err := readLayout(f)
	if err != nil {
		return domain.Dataset{}, err
	}

	indptr, err := readInts(f, matrixGroup+"/indptr")
	if err != nil {
		return domain.Dataset{}, err
	}
	indices, err := readInts(f, matrixGroup+"/indices")
	if err != nil {
		return domain.Dataset{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}

	varNames, err := readIndex(f, "var")
	if err != nil {
		return domain.Dataset{}, err
	}
	obsNames, err := readIndex(f, "obs")
	if err != nil {
		return domain.Dataset{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}

	// CSC arrays of an (obs, var) matrix are the CSR arrays of its transpose.
	rows, cols := len(obsNames), len(varNames)
	if enc == layoutCSC {
		rows, cols = cols, rows
	}
	matrix, err := readMatrix(f, rows, cols, indptr, indices)
	if err != nil {
		return domain.Dataset{}, err
	}
	if enc == layoutCSC {
		matrix = matrix.Transposed()
	}

	r.logger.Debug("dataset loaded",
		ports.String("path", path),
		ports.String("layout", string(enc)),
		ports.String("dtype", matrix.DType().String()),
		ports.Int("obs", matrix.Rows()),
		ports.Int("var", matrix.Cols()),
		ports.Int("nnz", matrix.NNZ()))

	ds := domain.Dataset{Matrix: matrix, ObsNames: obsNames, VarNames: varNames}
	if err := ds.Validate(); err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}

// readLayout inspects the attributes of the X group. Files written by anndata
// >= 0.8 carry "encoding-type", older ones "h5sparse_format".
func readLayout(f *hdf5.File) (layout, error) {
	g, err := f.OpenGroup(matrixGroup)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotSparse, err)
	}
	defer g.Close()

	for _, name := range []string{"encoding-type", "h5sparse_format"} {
		// a missing attribute is not an error, the next name is tried
		value, err := readStringAttr(g, name)
		if err != nil {
			continue
		}
		return parseLayout(value)
	}
	return layoutCSR, nil
}

func readStringAttr(g *hdf5.Group, name string) (string, error) {
	attr, err := g.OpenAttribute(name)
	if err != nil {
		return "", fmt.Errorf("open attribute %s: %w", name, err)
	}
	defer attr.Close()

	var value string
	if err := attr.Read(&value, hdf5.T_GO_STRING); err != nil {
		return "", fmt.Errorf("read attribute %s: %w", name, err)
	}
	return value, nil
}

// readIndex reads the index column of the obs or var dataframe. The column
// name is stored in the group's "_index" attribute.
func readIndex(f *hdf5.File, group string) ([]string, error) {
	g, err := f.OpenGroup(group)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", group, err)
	}
	defer g.Close()

	column, err := readStringAttr(g, indexAttr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", group, err)
	}

	dset, err := g.OpenDataset(column)
	if err != nil {
		return nil, fmt.Errorf("open %s/%s: %w", group, column, err)
	}
	defer dset.Close()

	names, err := readStrings(dset)
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", group, column, err)
	}
	return names, nil
}

// readInts reads an integer array of any width, sign or byte order into []int.
func readInts(f *hdf5.File, name string) ([]int, error) {
	dset, err := f.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrNotSparse, name, err)
	}
	defer dset.Close()

	dt, err := elementType(dset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if dt.IsFloat() {
		return nil, fmt.Errorf("%w: %s holds %s, want integers", ErrNotSparse, name, dt)
	}

	raw, err := readNative[int64](dset)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = int(v)
	}
	return out, nil
}

func readMatrix(f *hdf5.File, rows, cols int, indptr, indices []int) (domain.Matrix, error) {
	name := matrixGroup + "/data"
	dset, err := f.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrNotSparse, name, err)
	}
	defer dset.Close()

	dt, err := elementType(dset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	switch dt {
	case domain.Int8:
		return readCSR[int8](dset, rows, cols, indptr, indices)
	case domain.Int16:
		return readCSR[int16](dset, rows, cols, indptr, indices)
	case domain.Int32:
		return readCSR[int32](dset, rows, cols, indptr, indices)
	case domain.Int64:
		return readCSR[int64](dset, rows, cols, indptr, indices)
	case domain.Uint8:
		return readCSR[uint8](dset, rows, cols, indptr, indices)
	case domain.Uint16:
		return readCSR[uint16](dset, rows, cols, indptr, indices)
	case domain.Uint32:
		return readCSR[uint32](dset, rows, cols, indptr, indices)
	case domain.Uint64:
		return readCSR[uint64](dset, rows, cols, indptr, indices)
	case domain.Float32:
		return readCSR[float32](dset, rows, cols, indptr, indices)
	case domain.Float64:
		return readCSR[float64](dset, rows, cols, indptr, indices)
	}
	return nil, domain.ErrUnsupportedDType
}

func readCSR[T domain.Number](dset *hdf5.Dataset, rows, cols int, indptr, indices []int) (domain.Matrix, error) {
	data, err := readNative[T](dset)
	if err != nil {
		return nil, fmt.Errorf("read %s/data: %w", matrixGroup, err)
	}
	m, err := domain.NewCSR(rows, cols, indptr, indices, data)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func length(dset *hdf5.Dataset) int {
	space := dset.Space()
	defer space.Close()
	return space.SimpleExtentNPoints()
}
