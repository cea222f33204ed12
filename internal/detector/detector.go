// Package detector handles firmware image format detection.
package detector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retroproc/internal/options"
)

// Format is the container format of a firmware image.
type Format string

// Supported image formats.
const (
	Raw  Format = "raw"
	INES Format = "nes"
)

func (f Format) String() string {
	return string(f)
}

// FormatFromString returns the format for a name as used on the command line.
func FormatFromString(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "raw", "bin":
		return Raw, nil
	case "nes", "ines":
		return INES, nil
	default:
		return "", fmt.Errorf("unsupported image format '%s'", s)
	}
}

// Detector handles image format detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the image format from options or from the input file
// extension. An invalid explicit format has been rejected by the command
// line parsing already and falls back to detection here.
func (d *Detector) Detect(opts options.Program) Format {
	format, err := FormatFromString(opts.Format)
	if err != nil {
		format = d.detectFromFile(opts.Input)
		d.logger.Debug("Auto-detected image format",
			log.Stringer("format", format),
			log.String("file", opts.Input))
	}
	return format
}

func (d *Detector) detectFromFile(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".nes" {
		return INES
	}
	return Raw
}
