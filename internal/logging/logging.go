// Package logging builds the zap loggers used across the tool.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ModeRelease = "release"
	ModeDebug   = "debug"
	ModeQuiet   = "quiet"
)

// New returns a logger for mode. Release writes JSON at info level, debug
// writes coloured console output, quiet discards everything.
func New(mode string) (*zap.Logger, error) {
	var config zap.Config

	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeQuiet, "off", "none":
		return zap.NewNop(), nil
	case ModeRelease, "production":
		config = zap.NewProductionConfig()
	case ModeDebug, "development", "":
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log mode %q", mode)
	}
	// stdout carries command output.
	config.OutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// Sync flushes l, ignoring the errors stderr reports on some terminals.
func Sync(l *zap.Logger) {
	if l != nil {
		_ = l.Sync()
	}
}
