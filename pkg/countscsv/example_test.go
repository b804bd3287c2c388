package countscsv_test

import (
	"context"
	"fmt"
	"os"

	"github.com/bft-labs/counts2csv/pkg/countscsv"
)

// ExampleWrite writes a small counts matrix with one row per cell.
func ExampleWrite() {
	m, err := countscsv.NewCSR(2, 3, []int{0, 2, 3}, []int{0, 2, 1}, []uint32{5, 2, 7})
	if err != nil {
		fmt.Println(err)
		return
	}
	ds, err := countscsv.NewDataset(m, []string{"AAAC-1", "AAAG-1"}, []string{"CD3E", "MS4A1", "NKG7"})
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := countscsv.Write(context.Background(), os.Stdout, ds, countscsv.Options{}); err != nil {
		fmt.Println(err)
	}

	// Output:
	// cell,CD3E,MS4A1,NKG7
	// AAAC-1,5,0,2
	// AAAG-1,0,7,0
}

// ExampleWrite_obsNames writes one row per gene, tab separated.
func ExampleWrite_obsNames() {
	m, _ := countscsv.NewCSR(2, 2, []int{0, 1, 2}, []int{1, 0}, []float64{1.5, 3})
	ds, _ := countscsv.NewDataset(m, []string{"c1", "c2"}, []string{"g1", "g2"})

	opts := countscsv.Options{Delimiter: countscsv.Tab, Orient: countscsv.ObsNames}
	if err := countscsv.Write(context.Background(), os.Stdout, ds, opts); err != nil {
		fmt.Println(err)
	}

	// Output:
	// gene	c1	c2
	// g1	0.0	3.0
	// g2	1.5	0.0
}

// ExampleParseDelimiter shows the error for an unknown delimiter name.
func ExampleParseDelimiter() {
	_, err := countscsv.ParseDelimiter("space")
	fmt.Println(err)

	// Output:
	// Invalid value: space
	// Possible values: comma, tab, colon, pipe, semicolon
}
