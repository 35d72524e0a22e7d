package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op logger until Init is called.
var Log = zap.NewNop()

// Init builds the default production logger.
func Init() {
	InitWithLevel("info", false)
}

// InitWithLevel builds a logger at the given level. Development mode uses the
// console encoder and stack traces on warnings.
func InitWithLevel(level string, development bool) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		// Keep whatever logger we already have.
		Log.Error("Could not build logger", zap.Error(err))
		return
	}
	Log = l
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
