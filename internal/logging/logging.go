// Package logging builds the process-wide zap logger from configuration.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Cfg struct {
	Level string
	JSON  bool
}

// New builds a logger: JSON production output when c.JSON, otherwise a
// console encoder with human-readable timestamps for interactive runs.
// Unknown level strings fall back to info.
func New(c Cfg) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if !c.JSON {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	if c.Level != "" {
		if err := cfg.Level.UnmarshalText([]byte(c.Level)); err != nil {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l.Named("pulsewire")
}
