// Package logging builds the logr.Logger shared by the CLI, rig, store and
// dashboard. The numeric core never logs.
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	uberzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels passed to logger.V.
const (
	DEBUG = 1
	TRACE = 2
)

// NewLogger returns a zap-backed logger. verbosity enables V(n) for n up to the
// given level; dev switches to the human readable console encoder.
func NewLogger(verbosity int, dev bool) logr.Logger {
	var cfg uberzap.Config
	if dev {
		cfg = uberzap.NewDevelopmentConfig()
	} else {
		cfg = uberzap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.Level = uberzap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	cfg.OutputPaths = []string{"stderr"}

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard()
	}
	return zapr.NewLogger(zl)
}

// NewTestLogger creates a dev-mode logger at trace verbosity.
func NewTestLogger() logr.Logger {
	return NewLogger(TRACE, true)
}
