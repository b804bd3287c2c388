package log

var (
	_ Logger = NoopLogger{}
	_ Logger = (*ZerologAdapter)(nil)
)

// NoopLogger implements Logger by discarding all log messages.
// It is the default logger of the library facade.
type NoopLogger struct{}

// NewNoopLogger creates a new no-op logger.
func NewNoopLogger() NoopLogger {
	return NoopLogger{}
}

func (NoopLogger) Debug(string, ...Field) {}
func (NoopLogger) Info(string, ...Field)  {}
func (NoopLogger) Warn(string, ...Field)  {}
func (NoopLogger) Error(string, ...Field) {}
