package processor

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
	"github.com/retroenv/retroproc/internal/memory"
)

// Mode is the addressing mode of an opcode.
type Mode int

const (
	Implied Mode = iota
	Immediate
	ZeroPage
	Absolute
	Relative
)

func (m Mode) String() string {
	switch m {
	case Implied:
		return ""
	case Immediate:
		return "imm"
	case ZeroPage:
		return "zero"
	case Absolute:
		return "abs"
	case Relative:
		return "rel"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Addressing returns the matching retrogolib addressing mode.
func (m Mode) Addressing() cpu6502.AddressingMode {
	switch m {
	case Immediate:
		return cpu6502.ImmediateAddressing
	case ZeroPage:
		return cpu6502.ZeroPageAddressing
	case Absolute:
		return cpu6502.AbsoluteAddressing
	case Relative:
		return cpu6502.RelativeAddressing
	default:
		return cpu6502.ImpliedAddressing
	}
}

// Size returns the number of operand bytes following the opcode.
func (m Mode) Size() int {
	switch m {
	case Immediate, ZeroPage, Relative:
		return 1
	case Absolute:
		return 2
	default:
		return 0
	}
}

// fetch reads the byte at the program counter and moves past it.
func (p *Processor) fetch() (byte, error) {
	pc := p.ProgramCounter
	p.ProgramCounter++
	return p.mem.Read8(pc)
}

// fetchWord reads the little endian word at the program counter and moves
// past it.
func (p *Processor) fetchWord() (uint16, error) {
	pc := p.ProgramCounter
	p.ProgramCounter += 2
	return memory.Read16(p.mem, pc)
}

// operand resolves the value an instruction reads, consuming exactly the
// operand bytes of the mode.
func (p *Processor) operand(mode Mode) (byte, error) {
	if mode == Immediate {
		return p.fetch()
	}

	address, err := p.address(mode)
	if err != nil {
		return 0, err
	}
	return p.mem.Read8(address)
}

// address resolves the memory address an instruction accesses, consuming
// exactly the operand bytes of the mode.
func (p *Processor) address(mode Mode) (uint16, error) {
	switch mode {
	case ZeroPage:
		b, err := p.fetch()
		if err != nil {
			return 0, err
		}
		return uint16(b), nil

	case Absolute:
		return p.fetchWord()

	default:
		return 0, fmt.Errorf("%w: no address for addressing mode '%s'", ErrInvalidConfiguration, mode)
	}
}
