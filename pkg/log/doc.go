// Package log provides the logging abstraction used by counts2csv components.
//
// The converter, the watcher and the HDF5 reader log through the small
// [Logger] interface so that library callers can plug in their own logging
// or silence it. A zerolog implementation and a no-op logger are provided.
//
// # Usage
//
// Console output on stderr at info level:
//
//	logger := log.NewZerologAdapter(os.Stderr, zerolog.InfoLevel)
//
// Wrapping a zerolog.Logger you already configured:
//
//	logger := log.NewZerologAdapterWithLogger(zl)
//
// Discarding everything (tests, embedding):
//
//	logger := log.NewNoopLogger()
package log
