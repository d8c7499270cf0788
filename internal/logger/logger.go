// Package logger builds the zap logger shared by the CLI and the engine.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Config holds logging configuration.
type Config struct {
	Level       string // debug, info, warn, error
	JSON        bool   // json encoding instead of console
	Development bool
	OutputPath  string // defaults to stderr
}

// New builds a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Sampling = nil
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	zapConfig.Level = atomic

	if cfg.JSON {
		zapConfig.Encoding = "json"
	} else {
		zapConfig.Encoding = "console"
	}

	if cfg.OutputPath != "" {
		zapConfig.OutputPaths = []string{cfg.OutputPath}
	} else {
		zapConfig.OutputPaths = []string{"stderr"}
	}

	return zapConfig.Build()
}

// Init builds a logger and installs it as the zap global. The returned
// function restores the previous global.
func Init(cfg Config) (*zap.Logger, func(), error) {
	l, err := New(cfg)
	if err != nil {
		return nil, nil, err
	}
	undo := zap.ReplaceGlobals(l)
	return l, undo, nil
}
