// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retroproc/internal/detector"
	"github.com/retroenv/retroproc/internal/options"
)

// ParseFlags parses command line flags and returns program and run options
func ParseFlags() (options.Program, options.Run, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil {
		return opts, options.Run{}, &UsageError{flags: flags, msg: err.Error()}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Run{}, err
	}
	if len(args) == 1 {
		if opts.Input != "" {
			return opts, options.Run{}, &UsageError{flags: flags, msg: "image file given twice"}
		}
		opts.Input = args[0]
	}
	if opts.Input == "" && opts.Machine == "" {
		return opts, options.Run{}, &UsageError{flags: flags}
	}

	run, err := createRunOptions(opts)
	if err != nil {
		return opts, options.Run{}, err
	}
	return opts, run, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retroproc [options] <firmware image>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after image file, please pass the image file as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{msg: fmt.Sprintf("only one image file can be run, got %d", len(args))}
	}
	return nil
}

// createRunOptions validates the option values and converts them to run options
func createRunOptions(opts options.Program) (options.Run, error) {
	run := options.NewRun()
	run.MaxSteps = opts.MaxSteps
	run.Processors = opts.Processors
	run.Trace = opts.Trace

	if opts.Format != "" {
		if _, err := detector.FormatFromString(opts.Format); err != nil {
			return run, err
		}
	}
	if run.MaxSteps < 0 {
		return run, fmt.Errorf("invalid step limit %d", run.MaxSteps)
	}
	if run.Processors < 1 {
		return run, fmt.Errorf("invalid processor count %d", run.Processors)
	}

	if opts.LoadAddress != "" {
		address, err := parseAddress(opts.LoadAddress)
		if err != nil {
			return run, fmt.Errorf("parsing load address: %w", err)
		}
		run.LoadAddress = address
		run.HasLoadAddress = true
	}

	if opts.Dump != "" {
		address, err := parseAddress(opts.Dump)
		if err != nil {
			return run, fmt.Errorf("parsing dump address: %w", err)
		}
		run.Dump = address
		run.DumpEnabled = true
	}

	breakpoints, err := parseBreakpoints(opts.Breakpoints)
	if err != nil {
		return run, err
	}
	run.Breakpoints = breakpoints

	if opts.ID >= 0 {
		if run.Processors > 1 {
			return run, fmt.Errorf("resuming processor %d can not be combined with %d processors", opts.ID, run.Processors)
		}
		run.Resume = true
		run.ResumeID = uint64(opts.ID)
	}
	return run, nil
}

func parseBreakpoints(s string) ([]uint16, error) {
	if s == "" {
		return nil, nil
	}

	var breakpoints []uint16
	for field := range strings.SplitSeq(s, ",") {
		address, err := parseAddress(field)
		if err != nil {
			return nil, fmt.Errorf("parsing breakpoint: %w", err)
		}
		breakpoints = append(breakpoints, address)
	}
	return breakpoints, nil
}

// parseAddress parses a hex address with optional $ or 0x prefix.
func parseAddress(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	trimmed := strings.TrimPrefix(s, "$")
	trimmed = strings.TrimPrefix(strings.ToLower(trimmed), "0x")

	value, err := strconv.ParseUint(trimmed, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s'", s)
	}
	return uint16(value), nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the firmware image file")
	flags.StringVar(&opts.Machine, "c", "", "Starlark machine description file, default is 8 KiB RAM at $0000 and the image as ROM")
	flags.StringVar(&opts.State, "state", "", "directory to persist processor snapshots in, kept in memory if not given")
	flags.StringVar(&opts.Format, "f", "", "image format (raw, nes) - if not auto-detected from file extension")
	flags.StringVar(&opts.LoadAddress, "load", "", "hex address to load a raw image at, by default it ends at $FFFF")
	flags.IntVar(&opts.MaxSteps, "n", 0, "maximum number of instructions to execute per processor, 0 for no limit")
	flags.StringVar(&opts.Breakpoints, "b", "", "comma separated list of hex addresses to stop at")
	flags.StringVar(&opts.Dump, "dump", "", "hex address of a 256 byte memory page to print after the run")
	flags.Int64Var(&opts.ID, "id", -1, "snapshot id of a persisted processor to resume")
	flags.IntVar(&opts.Processors, "cpus", 1, "number of processors to run concurrently on the shared memory")
	flags.BoolVar(&opts.Trace, "trace", false, "print the trace of every executed instruction")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
