// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [DatasetReader]: Loads an AnnData counts matrix from a file
//   - [ProgressFactory] / [Progress]: Reports row progress while writing
//   - [LedgerRepository]: Persists which inputs watch mode already converted
//   - [Logger]: Structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with HDF5,
// a terminal progress bar and JSON files.
package ports
