package domain

import (
	"bytes"
	"math"
	"strconv"
)

// FormatValue renders a matrix element the way it is written to the output file.
// Integers are printed in base 10. Floats use the shortest representation that
// round-trips, with ".0" appended to integral values so that 1 prints as "1.0".
func FormatValue[T Number](v T) string {
	return string(AppendValue(nil, v))
}

// AppendValue appends the textual form of v to dst.
func AppendValue[T Number](dst []byte, v T) []byte {
	switch x := any(v).(type) {
	case int8:
		return strconv.AppendInt(dst, int64(x), 10)
	case int16:
		return strconv.AppendInt(dst, int64(x), 10)
	case int32:
		return strconv.AppendInt(dst, int64(x), 10)
	case int64:
		return strconv.AppendInt(dst, x, 10)
	case uint8:
		return strconv.AppendUint(dst, uint64(x), 10)
	case uint16:
		return strconv.AppendUint(dst, uint64(x), 10)
	case uint32:
		return strconv.AppendUint(dst, uint64(x), 10)
	case uint64:
		return strconv.AppendUint(dst, x, 10)
	case float32:
		return appendFloat(dst, float64(x), 32)
	case float64:
		return appendFloat(dst, x, 64)
	}
	return dst
}

func appendFloat(dst []byte, f float64, bitSize int) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "NaN"...)
	case math.IsInf(f, 1):
		return append(dst, "inf"...)
	case math.IsInf(f, -1):
		return append(dst, "-inf"...)
	}

	// Decimal exponents outside [lo, hi] switch to scientific notation. The
	// shortest float32 form keeps fewer digits, so its range is narrower.
	lo, hi := -5, 15
	if bitSize == 32 {
		lo, hi = -6, 12
	}

	var buf [32]byte
	sci := strconv.AppendFloat(buf[:0], f, 'e', -1, bitSize)
	mark := bytes.IndexByte(sci, 'e')
	if exp, _ := strconv.Atoi(string(sci[mark+1:])); exp < lo || exp > hi {
		return appendExponent(dst, sci[:mark], sci[mark+1:])
	}

	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'f', -1, bitSize)
	if bytes.IndexByte(dst[start:], '.') >= 0 {
		return dst
	}
	return append(dst, '.', '0')
}

// appendExponent writes 1e16 and 2.5e-7 instead of Go's 1e+16 and 2.5e-07.
func appendExponent(dst, mantissa, exp []byte) []byte {
	dst = append(dst, mantissa...)
	dst = append(dst, 'e')
	if exp[0] == '+' {
		exp = exp[1:]
	} else if exp[0] == '-' {
		dst = append(dst, '-')
		exp = exp[1:]
	}
	for len(exp) > 1 && exp[0] == '0' {
		exp = exp[1:]
	}
	return append(dst, exp...)
}
