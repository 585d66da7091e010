// Package logger builds the zap loggers used by the command-line tool and the server.
package logger

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.Logger that starts out as a no-op until Init is called.
type Logger struct {
	Log *zap.Logger
}

// New returns a Logger that discards everything.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init replaces the logger with a JSON production logger at the given level ("debug", "Info", ...).
func (l *Logger) Init(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = zl
	return nil
}

// NewConsole returns a Logger writing human-readable lines, without timestamps or callers, to w.
func NewConsole(w io.Writer, level string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return &Logger{Log: zap.New(core)}, nil
}

func parseLevel(level string) (zap.AtomicLevel, error) {
	return zap.ParseAtomicLevel(strings.ToLower(level))
}
