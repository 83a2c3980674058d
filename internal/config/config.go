// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80decomp/internal/options"
	"github.com/xyproto/env/v2"
)

// Environment variables that override options.
const (
	EnvDebug  = "Z80DECOMP_DEBUG"
	EnvQuiet  = "Z80DECOMP_QUIET"
	EnvOutput = "Z80DECOMP_OUTPUT"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// ApplyEnvironment enables debug and quiet mode from the environment and
// sets the output file if none was given.
func ApplyEnvironment(opts *options.Program) {
	if env.Bool(EnvDebug) {
		opts.Debug = true
	}
	if env.Bool(EnvQuiet) {
		opts.Quiet = true
	}
	if opts.Output == "" {
		opts.Output = env.Str(EnvOutput)
	}
}
