//go:build cgo

package h5ad

/*
#cgo LDFLAGS: -lhdf5
#cgo darwin CFLAGS: -I/usr/local/include
#cgo darwin LDFLAGS: -L/usr/local/lib
#cgo linux,!arm64 CFLAGS: -I/usr/local/include -I/usr/lib/x86_64-linux-gnu/hdf5/serial/include
#cgo linux,!arm64 LDFLAGS: -L/usr/local/lib -L/usr/lib/x86_64-linux-gnu/hdf5/serial/
#cgo linux,arm64 CFLAGS: -I/usr/local/include -I/usr/lib/aarch64-linux-gnu/hdf5/serial/include
#cgo linux,arm64 LDFLAGS: -L/usr/local/lib -L/usr/lib/aarch64-linux-gnu/hdf5/serial/
#include <stdlib.h>
#include "hdf5.h"

enum {
	KIND_INT8,
	KIND_INT16,
	KIND_INT32,
	KIND_INT64,
	KIND_UINT8,
	KIND_UINT16,
	KIND_UINT32,
	KIND_UINT64,
	KIND_FLOAT,
	KIND_DOUBLE,
};

static hid_t native_type(int kind) {
	switch (kind) {
	case KIND_INT8:   return H5T_NATIVE_INT8;
	case KIND_INT16:  return H5T_NATIVE_INT16;
	case KIND_INT32:  return H5T_NATIVE_INT32;
	case KIND_INT64:  return H5T_NATIVE_INT64;
	case KIND_UINT8:  return H5T_NATIVE_UINT8;
	case KIND_UINT16: return H5T_NATIVE_UINT16;
	case KIND_UINT32: return H5T_NATIVE_UINT32;
	case KIND_UINT64: return H5T_NATIVE_UINT64;
	case KIND_FLOAT:  return H5T_NATIVE_FLOAT;
	case KIND_DOUBLE: return H5T_NATIVE_DOUBLE;
	}
	return -1;
}

// HDF5 converts width, sign and byte order from the file type.
static herr_t read_native(hid_t dset, int kind, void *buf) {
	hid_t mem = native_type(kind);
	if (mem < 0) {
		return -1;
	}
	return H5Dread(dset, mem, H5S_ALL, H5S_ALL, H5P_DEFAULT, buf);
}

// string_type returns a C string memory type with the character set of the
// dataset's file type. size is H5T_VARIABLE for variable-length strings.
static hid_t string_type(hid_t dset, size_t size) {
	hid_t ft = H5Dget_type(dset);
	if (ft < 0) {
		return -1;
	}
	H5T_cset_t cset = H5Tget_cset(ft);
	H5Tclose(ft);

	hid_t mem = H5Tcopy(H5T_C_S1);
	if (mem < 0) {
		return -1;
	}
	if (H5Tset_size(mem, size) < 0 || H5Tset_cset(mem, cset) < 0) {
		H5Tclose(mem);
		return -1;
	}
	return mem;
}

static herr_t read_vlen_strings(hid_t dset, char **buf) {
	hid_t mem = string_type(dset, H5T_VARIABLE);
	if (mem < 0) {
		return -1;
	}
	herr_t rc = H5Dread(dset, mem, H5S_ALL, H5S_ALL, H5P_DEFAULT, buf);
	H5Tclose(mem);
	return rc;
}

// Space padded values are converted to null padding on read.
static herr_t read_fixed_strings(hid_t dset, size_t size, char *buf) {
	hid_t mem = string_type(dset, size);
	if (mem < 0) {
		return -1;
	}
	herr_t rc = H5Tset_strpad(mem, H5T_STR_NULLPAD);
	if (rc >= 0) {
		rc = H5Dread(dset, mem, H5S_ALL, H5S_ALL, H5P_DEFAULT, buf);
	}
	H5Tclose(mem);
	return rc;
}

static void free_strings(char **buf, size_t n) {
	for (size_t i = 0; i < n; i++) {
		if (buf[i] != NULL) {
			H5free_memory(buf[i]);
		}
	}
}
*/
import "C"

import (
	"bytes"
	"errors"
	"fmt"
	"unsafe"

	"gonum.org/v1/hdf5"

	"github.com/bft-labs/counts2csv/internal/domain"
)

var errRead = errors.New("H5Dread failed")

var nativeKinds = map[domain.DType]C.int{
	domain.Int8:    C.KIND_INT8,
	domain.Int16:   C.KIND_INT16,
	domain.Int32:   C.KIND_INT32,
	domain.Int64:   C.KIND_INT64,
	domain.Uint8:   C.KIND_UINT8,
	domain.Uint16:  C.KIND_UINT16,
	domain.Uint32:  C.KIND_UINT32,
	domain.Uint64:  C.KIND_UINT64,
	domain.Float32: C.KIND_FLOAT,
	domain.Float64: C.KIND_DOUBLE,
}

func hid(dset *hdf5.Dataset) C.hid_t {
	return C.hid_t(dset.ID())
}

// elementType maps the on-disk element type of dset to a DType by its numpy
// name. Byte order does not matter since reads convert to native types.
func elementType(dset *hdf5.Dataset) (domain.DType, error) {
	ft := C.H5Dget_type(hid(dset))
	if ft < 0 {
		return domain.DTypeInvalid, errors.New("H5Dget_type failed")
	}
	defer C.H5Tclose(ft)

	bits := int(C.H5Tget_size(ft)) * 8
	var name string
	switch C.H5Tget_class(ft) {
	case C.H5T_INTEGER:
		name = fmt.Sprintf("int%d", bits)
		if C.H5Tget_sign(ft) == C.H5T_SGN_NONE {
			name = "u" + name
		}
	case C.H5T_FLOAT:
		name = fmt.Sprintf("float%d", bits)
	case C.H5T_STRING:
		name = "string"
	default:
		name = fmt.Sprintf("type class %d", int(C.H5Tget_class(ft)))
	}

	dt, err := domain.ParseDType(name)
	if err != nil {
		return domain.DTypeInvalid, fmt.Errorf("%s: %w", name, err)
	}
	return dt, nil
}

// readNative reads every element of dset converted to T.
func readNative[T domain.Number](dset *hdf5.Dataset) ([]T, error) {
	out := make([]T, length(dset))
	if len(out) == 0 {
		return out, nil
	}
	kind := nativeKinds[domain.DTypeOf[T]()]
	if C.read_native(hid(dset), kind, unsafe.Pointer(unsafe.SliceData(out))) < 0 {
		return nil, errRead
	}
	return out, nil
}

// readStrings reads a one-dimensional string dataset of either variable or
// fixed length.
func readStrings(dset *hdf5.Dataset) ([]string, error) {
	ft := C.H5Dget_type(hid(dset))
	if ft < 0 {
		return nil, errors.New("H5Dget_type failed")
	}
	defer C.H5Tclose(ft)
	if C.H5Tget_class(ft) != C.H5T_STRING {
		return nil, errors.New("not a string dataset")
	}

	n := length(dset)
	out := make([]string, n)
	if n == 0 {
		return out, nil
	}

	if C.H5Tis_variable_str(ft) > 0 {
		ptrs := make([]*C.char, n)
		if C.read_vlen_strings(hid(dset), &ptrs[0]) < 0 {
			return nil, errRead
		}
		defer C.free_strings(&ptrs[0], C.size_t(n))
		for i, p := range ptrs {
			if p != nil {
				out[i] = C.GoString(p)
			}
		}
		return out, nil
	}

	size := int(C.H5Tget_size(ft))
	if size == 0 {
		return out, nil
	}
	buf := make([]byte, n*size)
	if C.read_fixed_strings(hid(dset), C.size_t(size), (*C.char)(unsafe.Pointer(&buf[0]))) < 0 {
		return nil, errRead
	}
	for i := range out {
		s := buf[i*size : (i+1)*size]
		if end := bytes.IndexByte(s, 0); end >= 0 {
			s = s[:end]
		}
		out[i] = string(s)
	}
	return out, nil
}
