//go:build cgo

// Package h5adtest writes small AnnData files for reader tests.
//
// Files mirror what anndata writes through h5py: a sparse X group with
// data, indices and indptr datasets, and obs and var groups whose "_index"
// attribute names a UTF-8 string column.
package h5adtest

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

// write_strings creates a one-dimensional UTF-8 string dataset. size is
// H5T_VARIABLE with values in vlen, or the element width with values packed
// in fixed.
static herr_t write_strings(hid_t loc, const char *name, size_t size, hsize_t n, char **vlen, const char *fixed) {
	hid_t type = H5Tcopy(H5T_C_S1);
	if (type < 0) {
		return -1;
	}
	herr_t rc = H5Tset_size(type, size);
	if (rc >= 0) {
		rc = H5Tset_cset(type, H5T_CSET_UTF8);
	}
	if (rc >= 0 && size != H5T_VARIABLE) {
		rc = H5Tset_strpad(type, H5T_STR_NULLPAD);
	}
	if (rc < 0) {
		H5Tclose(type);
		return rc;
	}

	hid_t space = H5Screate_simple(1, &n, NULL);
	if (space < 0) {
		H5Tclose(type);
		return -1;
	}
	hid_t dset = H5Dcreate2(loc, name, type, space, H5P_DEFAULT, H5P_DEFAULT, H5P_DEFAULT);
	if (dset < 0) {
		rc = -1;
	} else if (n > 0) {
		const void *buf = size == H5T_VARIABLE ? (const void *)vlen : (const void *)fixed;
		rc = H5Dwrite(dset, type, H5S_ALL, H5S_ALL, H5P_DEFAULT, buf);
	}
	if (dset >= 0) {
		H5Dclose(dset);
	}
	H5Sclose(space);
	H5Tclose(type);
	return rc;
}

static herr_t write_vlen_strings(hid_t loc, const char *name, hsize_t n, char **values) {
	return write_strings(loc, name, H5T_VARIABLE, n, values, NULL);
}

static herr_t write_fixed_strings(hid_t loc, const char *name, size_t size, hsize_t n, const char *values) {
	return write_strings(loc, name, size, n, NULL, values);
}
*/
import "C"

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
	"unsafe"

	"gonum.org/v1/hdf5"
)

// Fixture describes an AnnData file.
type Fixture struct {
	// Encoding is stored as the "encoding-type" attribute of X, and
	// LegacyEncoding as "h5sparse_format". Empty values are not written.
	Encoding       string
	LegacyEncoding string

	// Data, Indices and Indptr are numeric slices such as []float32 or []int32.
	// A []string Data is written as a string dataset.
	Data    any
	Indices any
	Indptr  any

	// ByteOrder of the numeric datasets on disk. Defaults to little endian.
	ByteOrder binary.ByteOrder

	ObsNames []string
	VarNames []string

	// FixedLengthNames stores the index columns as null padded fixed-length
	// strings instead of variable-length ones.
	FixedLengthNames bool
}

// Write creates the file at path, truncating any existing one.
func Write(path string, fx Fixture) error {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return err
	}
	defer f.Close()

	x, err := f.CreateGroup("X")
	if err != nil {
		return err
	}
	defer x.Close()

	if fx.Encoding != "" {
		if err := writeAttr(x, "encoding-type", fx.Encoding); err != nil {
			return err
		}
	}
	if fx.LegacyEncoding != "" {
		if err := writeAttr(x, "h5sparse_format", fx.LegacyEncoding); err != nil {
			return err
		}
	}

	order := fx.ByteOrder
	if order == nil {
		order = binary.LittleEndian
	}
	for _, ds := range []struct {
		name   string
		values any
	}{
		{"data", fx.Data},
		{"indices", fx.Indices},
		{"indptr", fx.Indptr},
	} {
		if err := writeNumbers(x, ds.name, ds.values, order); err != nil {
			return fmt.Errorf("X/%s: %w", ds.name, err)
		}
	}

	if err := writeFrame(f, "obs", fx.ObsNames, fx.FixedLengthNames); err != nil {
		return err
	}
	return writeFrame(f, "var", fx.VarNames, fx.FixedLengthNames)
}

func writeFrame(f *hdf5.File, name string, index []string, fixed bool) error {
	g, err := f.CreateGroup(name)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := writeAttr(g, "_index", "_index"); err != nil {
		return err
	}
	if fixed {
		return writeFixedStrings(g, "_index", index)
	}
	return writeVlenStrings(g, "_index", index)
}

func writeAttr(g *hdf5.Group, name, value string) error {
	space, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer space.Close()

	attr, err := g.CreateAttribute(name, hdf5.T_GO_STRING, space)
	if err != nil {
		return fmt.Errorf("attribute %s: %w", name, err)
	}
	defer attr.Close()
	return attr.Write(&value, hdf5.T_GO_STRING)
}

// writeNumbers encodes values in order and writes the bytes under the
// matching file type, so no conversion happens on write.
func writeNumbers(g *hdf5.Group, name string, values any, order binary.ByteOrder) error {
	if s, ok := values.([]string); ok {
		return writeFixedStrings(g, name, s)
	}

	dtype, err := fileType(values, order == binary.BigEndian)
	if err != nil {
		return err
	}
	n := reflect.ValueOf(values).Len()
	space, err := hdf5.CreateSimpleDataspace([]uint{uint(n)}, nil)
	if err != nil {
		return err
	}
	defer space.Close()

	dset, err := g.CreateDataset(name, dtype, space)
	if err != nil {
		return err
	}
	defer dset.Close()
	if n == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, order, values); err != nil {
		return err
	}
	raw := buf.Bytes()
	return dset.Write(&raw)
}

func fileType(values any, bigEndian bool) (*hdf5.Datatype, error) {
	pick := func(le, be *hdf5.Datatype) (*hdf5.Datatype, error) {
		if bigEndian {
			return be, nil
		}
		return le, nil
	}
	switch values.(type) {
	case []int8:
		return pick(hdf5.T_STD_I8LE, hdf5.T_STD_I8BE)
	case []int16:
		return pick(hdf5.T_STD_I16LE, hdf5.T_STD_I16BE)
	case []int32:
		return pick(hdf5.T_STD_I32LE, hdf5.T_STD_I32BE)
	case []int64:
		return pick(hdf5.T_STD_I64LE, hdf5.T_STD_I64BE)
	case []uint8:
		return pick(hdf5.T_STD_U8LE, hdf5.T_STD_U8BE)
	case []uint16:
		return pick(hdf5.T_STD_U16LE, hdf5.T_STD_U16BE)
	case []uint32:
		return pick(hdf5.T_STD_U32LE, hdf5.T_STD_U32BE)
	case []uint64:
		return pick(hdf5.T_STD_U64LE, hdf5.T_STD_U64BE)
	case []float32:
		return pick(hdf5.T_IEEE_F32LE, hdf5.T_IEEE_F32BE)
	case []float64:
		return pick(hdf5.T_IEEE_F64LE, hdf5.T_IEEE_F64BE)
	}
	return nil, fmt.Errorf("unsupported slice %T", values)
}

func writeVlenStrings(g *hdf5.Group, name string, values []string) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	ptrs := make([]*C.char, len(values)+1)
	for i, v := range values {
		ptrs[i] = C.CString(v)
	}
	defer func() {
		for _, p := range ptrs {
			C.free(unsafe.Pointer(p))
		}
	}()

	if C.write_vlen_strings(C.hid_t(g.ID()), cname, C.hsize_t(len(values)), &ptrs[0]) < 0 {
		return fmt.Errorf("write %s: H5Dwrite failed", name)
	}
	return nil
}

func writeFixedStrings(g *hdf5.Group, name string, values []string) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	size := 1
	for _, v := range values {
		size = max(size, len(v))
	}
	buf := make([]byte, len(values)*size+1)
	for i, v := range values {
		copy(buf[i*size:], v)
	}

	if C.write_fixed_strings(C.hid_t(g.ID()), cname, C.size_t(size), C.hsize_t(len(values)), (*C.char)(unsafe.Pointer(&buf[0]))) < 0 {
		return fmt.Errorf("write %s: H5Dwrite failed", name)
	}
	return nil
}
