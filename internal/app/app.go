// Package app provides the main application helpers for the processor runner.
package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retroproc/internal/detector"
	"github.com/retroenv/retroproc/internal/loader"
	"github.com/retroenv/retroproc/internal/machine"
	"github.com/retroenv/retroproc/internal/memory"
	"github.com/retroenv/retroproc/internal/options"
)

// PrintBanner prints application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("retroproc", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}

// PrintImageInfo prints the information about the loaded firmware image.
func PrintImageInfo(logger *log.Logger, opts options.Program, img *loader.Image, format detector.Format) {
	if opts.Quiet {
		return
	}

	switch format {
	case detector.INES:
		logger.Info("Loaded NES cartridge",
			log.String("file", opts.Input),
			log.Uint16("mapper", img.Mapper),
			log.Hex("start", img.Start),
			log.Int("size", len(img.Data)),
		)
		if img.Mapper != 0 {
			logger.Warn("Mapper is not supported, PRG banks are mapped linearly")
		}

	default:
		logger.Info("Loaded raw image",
			log.String("file", opts.Input),
			log.Hex("start", img.Start),
			log.Int("size", len(img.Data)),
		)
	}
}

// PrintMemoryMap prints the devices mapped into the address space.
func PrintMemoryMap(logger *log.Logger, opts options.Program, mappings []memory.Mapping) {
	if opts.Quiet {
		return
	}

	for _, mapping := range mappings {
		access := "ram"
		if dev, ok := mapping.Device.(*memory.Device); ok && !dev.WriteEnabled() {
			access = "rom"
		}
		logger.Info("Mapped device",
			log.String("name", mapping.Name),
			log.String("access", access),
			log.Hex("start", mapping.Start),
			log.Hex("end", mapping.End()),
		)
	}
}

// PrintResults prints the outcome of every processor run. Processors that
// failed before an identifier was allocated are logged without one.
func PrintResults(logger *log.Logger, results []machine.Result) {
	for _, result := range results {
		fields := make([]log.Field, 0, 5)
		if result.HasID {
			fields = append(fields, log.String("id", result.ID.Key()))
		}
		fields = append(fields,
			log.Stringer("reason", result.Reason),
			log.Int("steps", result.Steps),
			log.Hex("pc", result.Snapshot.ProgramCounter),
		)

		if result.Err != nil {
			fields = append(fields, log.Err(result.Err))
			logger.Error("Processor stopped", fields...)
			continue
		}
		logger.Info("Processor stopped", fields...)
	}
}

// DumpMemory writes the memory range in hex, 16 bytes per row prefixed by
// the address of the row.
func DumpMemory(w io.Writer, mem memory.Memory, start uint16, length int) error {
	var row strings.Builder
	for i := range length {
		address := start + uint16(i)
		if i%16 == 0 {
			row.Reset()
			fmt.Fprintf(&row, "%04X:", address)
		}

		value, err := mem.Read8(address)
		if err != nil {
			return fmt.Errorf("reading $%04X: %w", address, err)
		}
		fmt.Fprintf(&row, " %02X", value)

		if i%16 == 15 || i == length-1 {
			if _, err := io.WriteString(w, row.String()+"\n"); err != nil {
				return fmt.Errorf("writing dump: %w", err)
			}
		}
	}
	return nil
}
