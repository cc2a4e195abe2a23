package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON logger. Entries below error level are written to stdout,
// errors and above to stderr.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return NewWithSinks(lvl, zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr)), nil
}

// NewWithSinks is like New but writes to the given sinks.
func NewWithSinks(level zapcore.Level, out, errOut zapcore.WriteSyncer) *zap.Logger {
	encoder := zapcore.NewJSONEncoder(encoderConfig())

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l < zapcore.ErrorLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, out, low),
		zapcore.NewCore(encoder, errOut, high),
	)
	return zap.New(core, zap.AddCaller())
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.LevelKey = "level"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}
