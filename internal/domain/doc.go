// Package domain contains the core domain entities and value objects for counts2csv.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (HDF5, file system, logging) and
// contains only pure conversion logic.
//
// # Entities
//
//   - [CSR]: A compressed sparse row counts matrix, generic over its element type
//   - [Dataset]: A counts matrix together with its observation and variable names
//   - [Table]: A dataset oriented for output (header, row names, matrix)
//   - [Ledger]: Persistent record of inputs already converted in watch mode
//
// # Value Objects
//
//   - [DType]: Element type of the matrix data array
//   - [Delimiter]: Field separator of the output file
//   - [Orient]: Which names become the column header
package domain
