package domain

// Matrix is the type-erased view of a counts matrix used by readers and writers
// that do not care about the concrete element type.
type Matrix interface {
	// Rows returns the number of rows (outer dimension).
	Rows() int

	// Cols returns the number of columns (inner dimension).
	Cols() int

	// NNZ returns the number of explicitly stored values.
	NNZ() int

	// DType returns the element type.
	DType() DType

	// Transposed returns the matrix with rows and columns swapped, in CSR form.
	Transposed() Matrix

	// AppendRow appends the formatted dense values of row i to dst.
	// Exactly Cols() values are appended; unstored positions format as zero.
	AppendRow(dst []string, i int) []string
}

// CSR is a compressed sparse row matrix.
// Row i stores its column indices in indices[indptr[i]:indptr[i+1]]
// (strictly increasing) and the matching values in the same range of data.
type CSR[T Number] struct {
	rows    int
	cols    int
	indptr  []int
	indices []int
	data    []T

	zero string
}

// NewCSR builds a CSR matrix after checking its structure.
// The slices are retained, not copied.
func NewCSR[T Number](rows, cols int, indptr, indices []int, data []T) (*CSR[T], error) {
	if rows < 0 || cols < 0 {
		return nil, invalidMatrix("negative shape (%d, %d)", rows, cols)
	}
	if len(indptr) != rows+1 {
		return nil, invalidMatrix("indptr length %d does not match %d rows", len(indptr), rows)
	}
	if indptr[0] != 0 {
		return nil, invalidMatrix("indptr starts at %d, want 0", indptr[0])
	}
	if len(indices) != len(data) {
		return nil, invalidMatrix("indices and data lengths differ (%d != %d)", len(indices), len(data))
	}
	for i := 0; i < rows; i++ {
		if indptr[i+1] < indptr[i] {
			return nil, invalidMatrix("unsorted indptr at row %d", i)
		}
	}
	if indptr[rows] != len(indices) {
		return nil, invalidMatrix("indptr last value %d does not match nnz %d", indptr[rows], len(indices))
	}

	for i := 0; i < rows; i++ {
		start, end := indptr[i], indptr[i+1]
		prev := -1
		for k := start; k < end; k++ {
			j := indices[k]
			if j < 0 || j >= cols {
				return nil, invalidMatrix("index %d out of bounds for %d columns (row %d)", j, cols, i)
			}
			if j <= prev {
				return nil, invalidMatrix("unsorted indices in row %d", i)
			}
			prev = j
		}
	}

	return newCSR(rows, cols, indptr, indices, data), nil
}

func newCSR[T Number](rows, cols int, indptr, indices []int, data []T) *CSR[T] {
	var zero T
	return &CSR[T]{
		rows:    rows,
		cols:    cols,
		indptr:  indptr,
		indices: indices,
		data:    data,
		zero:    FormatValue(zero),
	}
}

func (m *CSR[T]) Rows() int    { return m.rows }
func (m *CSR[T]) Cols() int    { return m.cols }
func (m *CSR[T]) NNZ() int     { return len(m.data) }
func (m *CSR[T]) DType() DType { return DTypeOf[T]() }

// Indptr returns the row pointer array.
func (m *CSR[T]) Indptr() []int { return m.indptr }

// Indices returns the column index array.
func (m *CSR[T]) Indices() []int { return m.indices }

// Data returns the stored values.
func (m *CSR[T]) Data() []T { return m.data }

// At returns the value at (i, j), or zero when the position is not stored.
func (m *CSR[T]) At(i, j int) T {
	var zero T
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return zero
	}
	lo, hi := m.indptr[i], m.indptr[i+1]
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case m.indices[mid] == j:
			return m.data[mid]
		case m.indices[mid] < j:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return zero
}

// Transpose returns the CSR form of the transposed matrix.
// Indices stay sorted because rows are visited in ascending order.
func (m *CSR[T]) Transpose() *CSR[T] {
	nnz := len(m.data)
	indptr := make([]int, m.cols+1)
	for _, j := range m.indices {
		indptr[j+1]++
	}
	for j := 0; j < m.cols; j++ {
		indptr[j+1] += indptr[j]
	}

	next := make([]int, m.cols)
	copy(next, indptr[:m.cols])

	indices := make([]int, nnz)
	data := make([]T, nnz)
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			j := m.indices[k]
			p := next[j]
			indices[p] = i
			data[p] = m.data[k]
			next[j]++
		}
	}

	return newCSR(m.cols, m.rows, indptr, indices, data)
}

// Transposed implements Matrix.
func (m *CSR[T]) Transposed() Matrix {
	return m.Transpose()
}

// Row returns an iterator over the dense values of row i.
func (m *CSR[T]) Row(i int) *RowIter[T] {
	start, end := m.indptr[i], m.indptr[i+1]
	return &RowIter[T]{
		data:    m.data[start:end],
		indices: m.indices[start:end],
		stop:    m.cols,
	}
}

// AppendRow implements Matrix.
func (m *CSR[T]) AppendRow(dst []string, i int) []string {
	it := m.Row(i)
	for {
		v, stored, ok := it.next()
		if !ok {
			return dst
		}
		if stored {
			dst = append(dst, FormatValue(v))
		} else {
			dst = append(dst, m.zero)
		}
	}
}

// RowIter walks one CSR row column by column, yielding zero for every
// position that has no stored value.
type RowIter[T Number] struct {
	data    []T
	indices []int
	pos     int
	index   int
	stop    int
}

// Next returns the next value of the row. ok is false once every column has
// been produced.
func (it *RowIter[T]) Next() (v T, ok bool) {
	v, _, ok = it.next()
	return v, ok
}

// Len returns the number of values still to be produced.
func (it *RowIter[T]) Len() int {
	return it.stop - it.index
}

func (it *RowIter[T]) next() (v T, stored bool, ok bool) {
	if it.index >= it.stop {
		return v, false, false
	}
	if it.pos < len(it.indices) && it.indices[it.pos] == it.index {
		v = it.data[it.pos]
		it.pos++
		it.index++
		return v, true, true
	}
	it.index++
	return v, false, true
}

// Dense expands the remaining values into a slice.
func (it *RowIter[T]) Dense() []T {
	out := make([]T, 0, it.Len())
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		out = append(out, v)
	}
	return out
}
