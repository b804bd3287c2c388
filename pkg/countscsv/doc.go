// Package countscsv writes single-cell counts matrices as dense delimited
// text tables.
//
// A counts matrix is held as a compressed sparse row matrix whose rows are
// observations (cells) and whose columns are variables (genes), together with
// the observation and variable names. The table has a header record followed
// by one record per row, with every position absent from the sparse matrix
// written as zero.
//
// # Basic Usage
//
//	m, err := countscsv.NewCSR(2, 3,
//	    []int{0, 2, 3},    // indptr
//	    []int{0, 2, 1},    // indices
//	    []float32{1, 0.5, 4})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ds, err := countscsv.NewDataset(m, []string{"c1", "c2"}, []string{"g1", "g2", "g3"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := countscsv.MakeCSV(ds, "comma", "var-names", "out.csv"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Orientation
//
// With [VarNames] the header lists the variable names after a leading "cell"
// column and every row is an observation. With [ObsNames] the matrix is
// transposed: the header lists observation names after "gene" and every row
// is a variable.
//
// # Reading AnnData files
//
// [Convert] reads an AnnData HDF5 file and writes its table to disk. It needs
// a cgo build linked against the HDF5 C library; other builds return
// [ErrHDF5Unavailable].
package countscsv
