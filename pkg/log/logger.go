package log

// Logger is the logging surface used across the supervisor.
// It keeps callers independent of the concrete logging library.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})

	// WithField returns a Logger that appends key=value to every line.
	WithField(key string, value interface{}) Logger
}

// NopLogger discards everything. Useful in tests.
type NopLogger struct{}

var _ Logger = NopLogger{}

func (NopLogger) Debugf(string, ...interface{})          {}
func (NopLogger) Infof(string, ...interface{})           {}
func (NopLogger) Warnf(string, ...interface{})           {}
func (NopLogger) Errorf(string, ...interface{})          {}
func (NopLogger) Fatalf(string, ...interface{})          {}
func (n NopLogger) WithField(string, interface{}) Logger { return n }
