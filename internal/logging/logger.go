// Package logging builds the zap logger shared by all aioctx services.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New sets up a console-encoded zap logger. Verbose lowers the level to
// debug, which is where the validator and reconciler report swallowed
// housekeeping errors.
func New(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		// Config above is static; Build can only fail on a bad sink path.
		return zap.NewNop()
	}
	return logger
}
