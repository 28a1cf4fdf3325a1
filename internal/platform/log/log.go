// Package log defines the narrow logging interface every use-case and
// adapter depends on, grounded on the teacher's common/mlog.Logger.
package log

// Logger is the logging surface the domain engine depends on. It is
// passed explicitly to every constructor — nothing in this module
// reaches for a package-level global.
type Logger interface {
	Info(args ...any)
	Infof(format string, args ...any)

	Warn(args ...any)
	Warnf(format string, args ...any)

	Error(args ...any)
	Errorf(format string, args ...any)

	Debug(args ...any)
	Debugf(format string, args ...any)

	// With returns a Logger that annotates every subsequent entry with
	// the given key/value pairs, e.g. With("place_id", id).
	With(keyvals ...any) Logger
}
