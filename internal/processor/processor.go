// Package processor implements the instruction execution engine of a 6502
// family processor subset: register loads and stores, the conditional
// branches and the flag set and clear instructions.
package processor

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retroproc/internal/memory"
)

// ResetVector is the address of the little endian start address that is
// loaded into the program counter on reset.
var ResetVector = uint16(cpu6502.ResetAddress)

const (
	initialStackPointer = 0xFF
	initialStatus       = 1 << Always
)

// Processor is the state of one emulated processor. It is not safe for
// concurrent use, independent instances share nothing but their memory.
type Processor struct {
	Accumulator     uint8
	IndexX          uint8
	IndexY          uint8
	StackPointer    uint8
	ProcessorStatus uint8
	ProgramCounter  uint16

	mem    memory.Memory
	logger *log.Logger
}

// Option configures optional processor behavior.
type Option func(*Processor)

// WithLogger enables debug logging of every executed step.
func WithLogger(logger *log.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// New returns a processor in its power-on state attached to the memory.
func New(mem memory.Memory, opts ...Option) *Processor {
	p := &Processor{
		StackPointer:    initialStackPointer,
		ProcessorStatus: initialStatus,
		mem:             mem,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Restore returns a processor with the register state of the snapshot.
// Values that do not fit their register are rejected, a cleared Always
// flag is restored and reported by the next Step or ValidateState.
func Restore(mem memory.Memory, snap Snapshot, opts ...Option) (*Processor, error) {
	if violations := snap.rangeViolations(); len(violations) > 0 {
		return nil, fmt.Errorf("restoring snapshot: %w", violations.Err())
	}

	p := New(mem, opts...)
	p.Accumulator = uint8(snap.Accumulator)
	p.IndexX = uint8(snap.IndexX)
	p.IndexY = uint8(snap.IndexY)
	p.StackPointer = uint8(snap.StackPointer)
	p.ProcessorStatus = uint8(snap.ProcessorStatus)
	p.ProgramCounter = uint16(snap.ProgramCounter)
	return p, nil
}

// Snapshot returns the persistable register state.
func (p *Processor) Snapshot() Snapshot {
	return Snapshot{
		Accumulator:     int(p.Accumulator),
		IndexX:          int(p.IndexX),
		IndexY:          int(p.IndexY),
		StackPointer:    int(p.StackPointer),
		ProcessorStatus: int(p.ProcessorStatus),
		ProgramCounter:  int(p.ProgramCounter),
	}
}

// Reset loads the program counter from the reset vector. No other register
// is changed.
func (p *Processor) Reset() error {
	pc, err := memory.Read16(p.mem, ResetVector)
	if err != nil {
		return fmt.Errorf("reading reset vector: %w", err)
	}
	p.ProgramCounter = pc

	if p.logger != nil {
		p.logger.Debug("Reset", log.Hex("address", pc))
	}
	return nil
}

// String returns the register state in the trace format.
func (p *Processor) String() string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X SP=%02X ST=%02X(%s)",
		p.Accumulator, p.IndexX, p.IndexY, p.StackPointer,
		p.ProcessorStatus, DecodeStatus(p.ProcessorStatus))
}
