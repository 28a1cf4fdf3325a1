package log

// noop discards everything. It is the zero value used by tests that
// don't care about log output.
type noop struct{}

// Noop returns a Logger that discards every entry.
func Noop() Logger { return noop{} }

func (noop) Info(args ...any)             {}
func (noop) Infof(format string, a ...any) {}
func (noop) Warn(args ...any)             {}
func (noop) Warnf(format string, a ...any) {}
func (noop) Error(args ...any)            {}
func (noop) Errorf(format string, a ...any) {}
func (noop) Debug(args ...any)            {}
func (noop) Debugf(format string, a ...any) {}
func (n noop) With(keyvals ...any) Logger { return n }
