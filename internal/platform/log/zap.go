package log

import "go.uber.org/zap"

// zapLogger adapts *zap.SugaredLogger to Logger, the way the teacher's
// common/mzap package wraps zap for the rest of the codebase.
type zapLogger struct {
	z *zap.SugaredLogger
}

// NewZap wraps an already-configured zap logger.
func NewZap(z *zap.Logger) Logger {
	return &zapLogger{z: z.Sugar()}
}

// NewProductionZap builds a production zap configuration (JSON
// encoding, info level) the way common/mzap.InitializeLogger does for
// ENV_NAME=production.
func NewProductionZap() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	return NewZap(z), nil
}

func (l *zapLogger) Info(args ...any)              { l.z.Info(args...) }
func (l *zapLogger) Infof(format string, a ...any)  { l.z.Infof(format, a...) }
func (l *zapLogger) Warn(args ...any)               { l.z.Warn(args...) }
func (l *zapLogger) Warnf(format string, a ...any)  { l.z.Warnf(format, a...) }
func (l *zapLogger) Error(args ...any)              { l.z.Error(args...) }
func (l *zapLogger) Errorf(format string, a ...any) { l.z.Errorf(format, a...) }
func (l *zapLogger) Debug(args ...any)              { l.z.Debug(args...) }
func (l *zapLogger) Debugf(format string, a ...any) { l.z.Debugf(format, a...) }

func (l *zapLogger) With(keyvals ...any) Logger {
	return &zapLogger{z: l.z.With(keyvals...)}
}
