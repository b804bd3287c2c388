package domain

import "fmt"

// Dataset is an AnnData counts matrix with its index columns.
// Rows of Matrix are observations (cells), columns are variables (genes).
type Dataset struct {
	Matrix   Matrix
	ObsNames []string
	VarNames []string
}

// Validate checks that the name vectors match the matrix shape.
func (d Dataset) Validate() error {
	if d.Matrix == nil {
		return fmt.Errorf("%w: no counts matrix", ErrInvalidMatrix)
	}
	if len(d.ObsNames) != d.Matrix.Rows() {
		return fmt.Errorf("%w: %d obs names for %d rows", ErrShapeMismatch, len(d.ObsNames), d.Matrix.Rows())
	}
	if len(d.VarNames) != d.Matrix.Cols() {
		return fmt.Errorf("%w: %d var names for %d columns", ErrShapeMismatch, len(d.VarNames), d.Matrix.Cols())
	}
	return nil
}

// Table is a dataset laid out for output: one header record followed by one
// record per row name.
type Table struct {
	FirstColumn string
	Header      []string
	RowNames    []string
	Matrix      Matrix
}

// Orient lays the dataset out for output. ObsNames transposes the matrix so
// that variables become rows.
func (d Dataset) Orient(o Orient) Table {
	if o == ObsNames {
		return Table{
			FirstColumn: o.FirstColumn(),
			Header:      d.ObsNames,
			RowNames:    d.VarNames,
			Matrix:      d.Matrix.Transposed(),
		}
	}
	return Table{
		FirstColumn: o.FirstColumn(),
		Header:      d.VarNames,
		RowNames:    d.ObsNames,
		Matrix:      d.Matrix,
	}
}
