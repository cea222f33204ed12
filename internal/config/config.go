// Package config sets up the runtime environment of the processor runner:
// the application logger and the memory map of the machine, either the
// default layout or one described by a Starlark machine file.
package config

import (
	"github.com/retroenv/retrogolib/log"
)

// Default machine layout.
const (
	DefaultRAMStart = 0x0000
	DefaultRAMSize  = 0x2000
	DefaultRAMFill  = 0xFF
)

// CreateLogger creates the application logger. Debug output takes
// precedence over quiet mode, which only shows errors.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case debug:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
