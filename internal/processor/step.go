package processor

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

// ErrorPrefix marks the trace lines that describe a terminal error.
const ErrorPrefix = "^ERR: "

// Step executes one instruction and returns the trace of it. The trace
// starts with the program counter, opcode and register state before the
// instruction, followed by the decoded instruction or the error lines.
//
// A state violating the processor invariants is reported as
// ErrCorruptedState before the opcode is decoded, an opcode outside of the
// table as ErrUnknownOpcode with the program counter moved past it. Memory
// errors are returned unchanged in the error chain. After any error the
// caller decides whether to halt or reset.
func (p *Processor) Step() (string, error) {
	pc := p.ProgramCounter
	b, err := p.mem.Read8(pc)
	if err != nil {
		return "", fmt.Errorf("fetching opcode at $%04X: %w", pc, err)
	}

	var trace strings.Builder
	fmt.Fprintf(&trace, "%04X:%02X %s", pc, b, p)

	if violations := p.Validate(); len(violations) > 0 {
		for _, violation := range violations {
			trace.WriteString("\n" + ErrorPrefix + violation.Message)
		}
		return trace.String(), violations.Err()
	}

	p.ProgramCounter++

	op, ok := Lookup(b)
	if !ok {
		trace.WriteString("\n" + ErrorPrefix + f("Unknown OP-code"))
		return trace.String(), fmt.Errorf("%w $%02X at $%04X", ErrUnknownOpcode, b, pc)
	}
	trace.WriteString("\n" + op.String())

	if p.logger != nil {
		p.logger.Debug("Executing instruction",
			log.Hex("address", pc),
			log.String("instruction", op.String()))
	}

	if err := p.execute(op); err != nil {
		return trace.String(), fmt.Errorf("executing %s at $%04X: %w", op, pc, err)
	}
	return trace.String(), nil
}
