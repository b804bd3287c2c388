package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent error conditions in the counts2csv domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrInvalidValue is matched by every *InvalidValueError.
	ErrInvalidValue = errors.New("counts2csv: invalid value")

	// ErrUnsupportedDType is returned when the matrix data array has a type
	// other than the ten supported integer and float types.
	ErrUnsupportedDType = errors.New("Invalid data type\nPossible data types: i8, i16, i32, i64, u8, u16, u32, u64, f32, f64")

	// ErrInvalidMatrix is returned when CSR arrays are not structurally valid.
	ErrInvalidMatrix = errors.New("counts2csv: invalid CSR matrix")

	// ErrShapeMismatch is returned when name vectors do not match the matrix shape.
	ErrShapeMismatch = errors.New("counts2csv: shape mismatch")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("counts2csv: invalid configuration")
)

// InvalidValueError reports an option value outside its allowed set.
type InvalidValueError struct {
	Value    string
	Possible []string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("Invalid value: %s\nPossible values: %s", e.Value, strings.Join(e.Possible, ", "))
}

// Is reports whether target is ErrInvalidValue.
func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

func invalidMatrix(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidMatrix, fmt.Sprintf(format, args...))
}
