package processor

import (
	"errors"

	"github.com/retroenv/retroproc/internal/translate"
)

var f = translate.From

var (
	// ErrInvalidConfiguration signals an opcode table entry referencing an
	// unsupported register or addressing mode.
	ErrInvalidConfiguration = errors.New(f("invalid configuration"))
	// ErrUnknownOpcode is returned by Step for a byte that is not part of the
	// opcode table.
	ErrUnknownOpcode = errors.New(f("unknown opcode"))
	// ErrCorruptedState is returned when the processor state violates one of
	// its invariants.
	ErrCorruptedState = errors.New(f("corrupted state"))
)
