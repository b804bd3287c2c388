//go:build cgo

package h5ad

import (
	"context"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/counts2csv/internal/adapters/h5ad/h5adtest"
	"github.com/bft-labs/counts2csv/internal/domain"
	"github.com/bft-labs/counts2csv/pkg/log"
)

var (
	obsNames = []string{"cell-1", "cell-2", "cell-3"}
	varNames = []string{"CD3E", "MS4A1", "GNLY", "ünïcode"}
)

// 3x4 matrix with an empty middle row:
//
//	0    1.5  0     2
//	0    0    0     0
//	3    0    0.25  0
func csrFixture() h5adtest.Fixture {
	return h5adtest.Fixture{
		Encoding: "csr_matrix",
		Data:     []float32{1.5, 2, 3, 0.25},
		Indices:  []int32{1, 3, 0, 2},
		Indptr:   []int32{0, 2, 2, 4},
		ObsNames: obsNames,
		VarNames: varNames,
	}
}

func writeFixture(t *testing.T, fx h5adtest.Fixture) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counts.h5ad")
	require.NoError(t, h5adtest.Write(path, fx))
	return path
}

func readFixture(t *testing.T, fx h5adtest.Fixture) (domain.Dataset, error) {
	t.Helper()
	return NewReader(log.NewNoopLogger()).Read(context.Background(), writeFixture(t, fx))
}

func denseRows(m domain.Matrix) [][]string {
	rows := make([][]string, m.Rows())
	for i := range rows {
		rows[i] = m.AppendRow(nil, i)
	}
	return rows
}

var wantFloatRows = [][]string{
	{"0.0", "1.5", "0.0", "2.0"},
	{"0.0", "0.0", "0.0", "0.0"},
	{"3.0", "0.0", "0.25", "0.0"},
}

func TestRead_CSR(t *testing.T) {
	ds, err := readFixture(t, csrFixture())
	require.NoError(t, err)

	assert.Equal(t, obsNames, ds.ObsNames)
	assert.Equal(t, varNames, ds.VarNames)
	assert.Equal(t, domain.Float32, ds.Matrix.DType())
	assert.Equal(t, 4, ds.Matrix.NNZ())

	m, ok := ds.Matrix.(*domain.CSR[float32])
	require.True(t, ok, "matrix is %T", ds.Matrix)
	assert.Equal(t, []int{0, 2, 2, 4}, m.Indptr())
	assert.Equal(t, []int{1, 3, 0, 2}, m.Indices())
	assert.Equal(t, wantFloatRows, denseRows(m))
}

func TestRead_CSC(t *testing.T) {
	fx := csrFixture()
	fx.Encoding = "csc_matrix"
	fx.Data = []float32{3, 1.5, 0.25, 2}
	fx.Indices = []int32{2, 0, 2, 0}
	fx.Indptr = []int32{0, 1, 2, 3, 4}

	ds, err := readFixture(t, fx)
	require.NoError(t, err)

	require.Equal(t, 3, ds.Matrix.Rows())
	require.Equal(t, 4, ds.Matrix.Cols())
	assert.Equal(t, wantFloatRows, denseRows(ds.Matrix))
}

func TestRead_BigEndianFixedLength(t *testing.T) {
	fx := h5adtest.Fixture{
		LegacyEncoding:   "csr",
		Data:             []int64{1 << 40, -2, 3, 70000},
		Indices:          []uint32{1, 3, 0, 2},
		Indptr:           []uint32{0, 2, 2, 4},
		ByteOrder:        binary.BigEndian,
		ObsNames:         obsNames,
		VarNames:         varNames,
		FixedLengthNames: true,
	}

	ds, err := readFixture(t, fx)
	require.NoError(t, err)

	assert.Equal(t, obsNames, ds.ObsNames)
	assert.Equal(t, varNames, ds.VarNames)
	assert.Equal(t, domain.Int64, ds.Matrix.DType())
	assert.Equal(t, [][]string{
		{"0", "1099511627776", "0", "-2"},
		{"0", "0", "0", "0"},
		{"3", "0", "70000", "0"},
	}, denseRows(ds.Matrix))
}

func TestRead_NoEncodingDefaultsToCSR(t *testing.T) {
	fx := csrFixture()
	fx.Encoding = ""
	fx.Data = []uint16{1, 2, 3, 4}

	ds, err := readFixture(t, fx)
	require.NoError(t, err)
	assert.Equal(t, domain.Uint16, ds.Matrix.DType())
	assert.Equal(t, []string{"0", "1", "0", "2"}, ds.Matrix.AppendRow(nil, 0))
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*h5adtest.Fixture)
		wantErr error
	}{
		{
			name:    "dense encoding",
			modify:  func(fx *h5adtest.Fixture) { fx.Encoding = "array" },
			wantErr: ErrNotSparse,
		},
		{
			name:    "string data",
			modify:  func(fx *h5adtest.Fixture) { fx.Data = []string{"a", "b", "c", "d"} },
			wantErr: domain.ErrUnsupportedDType,
		},
		{
			name:    "float indices",
			modify:  func(fx *h5adtest.Fixture) { fx.Indices = []float64{1, 3, 0, 2} },
			wantErr: ErrNotSparse,
		},
		{
			name:    "column out of range",
			modify:  func(fx *h5adtest.Fixture) { fx.Indices = []int32{1, 4, 0, 2} },
			wantErr: domain.ErrInvalidMatrix,
		},
		{
			name:    "names do not match shape",
			modify:  func(fx *h5adtest.Fixture) { fx.ObsNames = obsNames[:2] },
			wantErr: domain.ErrInvalidMatrix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := csrFixture()
			tt.modify(&fx)
			_, err := readFixture(t, fx)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := NewReader(log.NewNoopLogger()).Read(context.Background(), filepath.Join(t.TempDir(), "missing.h5ad"))
	assert.Error(t, err)
}
