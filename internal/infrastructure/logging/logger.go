// Package logging builds the process logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production zap logger, at debug level when debug is set.
func New(debug bool) (*zap.Logger, error) {
	conf := zap.NewProductionConfig()
	if debug {
		conf.Development = true
		conf.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := conf.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}
	return logger, nil
}
