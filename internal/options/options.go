// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input   string `flag:"i" usage:"firmware image file"`
	Machine string `flag:"c" usage:"Starlark machine description file"`
	State   string `flag:"state" usage:"directory to persist processor snapshots in (default: in memory)"`
}

// Flags contains behavior options.
type Flags struct {
	Format      string `flag:"f" usage:"image format: raw, nes (default: auto-detect)"`
	LoadAddress string `flag:"load" usage:"hex address to place a raw image at (default: end at $FFFF)"`
	MaxSteps    int    `flag:"n" usage:"maximum number of instructions per processor, 0 for no limit" default:"0"`
	Breakpoints string `flag:"b" usage:"comma separated hex addresses to stop at"`
	Dump        string `flag:"dump" usage:"hex address of a 256 byte memory page to print after the run"`
	ID          int64  `flag:"id" usage:"snapshot id of the processor to resume, -1 for a new one" default:"-1"`
	Processors  int    `flag:"cpus" usage:"number of processors to run concurrently" default:"1"`
	Trace       bool   `flag:"trace" usage:"print the trace of every step"`
	Debug       bool   `flag:"debug" usage:"enable debug logging"`
	Quiet       bool   `flag:"q" usage:"quiet mode"`
}

// Program options of the runner.
type Program struct {
	Parameters
	Flags
}

// Run defines the options that control a run, derived from the program options.
type Run struct {
	LoadAddress    uint16 // start address of a raw image
	HasLoadAddress bool   // raw image is placed at LoadAddress instead of ending at $FFFF

	Breakpoints []uint16
	MaxSteps    int

	Resume   bool   // restore the processor from the store instead of resetting it
	ResumeID uint64 // snapshot id to restore

	Processors int
	Trace      bool

	Dump        uint16 // start address of the page printed after the run
	DumpEnabled bool
}

// NewRun returns run options with default values.
func NewRun() Run {
	return Run{
		Processors: 1,
	}
}
