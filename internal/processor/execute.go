package processor

import "fmt"

func (p *Processor) execute(op Opcode) error {
	switch op.Kind {
	case Load:
		return p.load(op.Register, op.Mode)
	case Store:
		return p.store(op.Register, op.Mode)
	case Branch:
		return p.branch(op.Flag, op.FlagValue)
	case FlagChange:
		p.SetFlag(op.Flag, op.FlagValue)
		return nil
	default:
		return fmt.Errorf("%w: opcode $%02X has no operation", ErrInvalidConfiguration, op.Value)
	}
}

func (p *Processor) register(reg Register) (*uint8, error) {
	switch reg {
	case A:
		return &p.Accumulator, nil
	case X:
		return &p.IndexX, nil
	case Y:
		return &p.IndexY, nil
	default:
		return nil, fmt.Errorf("%w: register '%s'", ErrInvalidConfiguration, reg)
	}
}

// load reads the operand into the register and updates the negative and
// zero flags from the loaded value.
func (p *Processor) load(reg Register, mode Mode) error {
	target, err := p.register(reg)
	if err != nil {
		return err
	}
	value, err := p.operand(mode)
	if err != nil {
		return err
	}

	*target = value
	p.setZeroNegative(value)
	return nil
}

// store writes the register to the resolved address, flags are unaffected.
func (p *Processor) store(reg Register, mode Mode) error {
	source, err := p.register(reg)
	if err != nil {
		return err
	}
	address, err := p.address(mode)
	if err != nil {
		return err
	}
	return p.mem.Write8(address, *source)
}

// branch reads the signed offset at the program counter. If the flag
// matches the condition the offset is added to the address of the offset
// byte itself, otherwise execution continues after the offset byte.
func (p *Processor) branch(flag Flag, condition bool) error {
	b, err := p.mem.Read8(p.ProgramCounter)
	if err != nil {
		return err
	}

	if p.Flag(flag) == condition {
		p.ProgramCounter += uint16(int8(b))
	} else {
		p.ProgramCounter++
	}
	return nil
}
