// Package xlog is the thin structured-logging seam used across this
// module. It mirrors the call shape of the teacher's own logger
// (erigon's log.Logger: Info/Warn/Error(msg string, keyvals ...any)) so the
// rest of the codebase reads the same regardless of backend, while the
// default backend is zap.
package xlog

import "go.uber.org/zap"

// Logger is the structured logger interface used throughout this module.
// Key-value pairs follow the alternating key, value convention (matching
// the teacher's own log.Logger calls, e.g. s.log.Info("msg", "key", val)).
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// NewZap wraps a *zap.Logger as a Logger.
func NewZap(l *zap.Logger) Logger {
	return &zapLogger{s: l.Sugar()}
}

type zapLogger struct {
	s *zap.SugaredLogger
}

func (z *zapLogger) Debug(msg string, kv ...any) { z.s.Debugw(msg, kv...) }
func (z *zapLogger) Info(msg string, kv ...any)  { z.s.Infow(msg, kv...) }
func (z *zapLogger) Warn(msg string, kv ...any)  { z.s.Warnw(msg, kv...) }
func (z *zapLogger) Error(msg string, kv ...any) { z.s.Errorw(msg, kv...) }

// Nop returns a Logger that discards everything; used as the default when
// no logger is supplied (e.g. fresh test instances).
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
