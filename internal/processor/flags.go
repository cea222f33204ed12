package processor

// Flag is a bit position within the processor status byte.
type Flag uint8

// Status flag bits, bit 0 is the least significant.
const (
	Carry            Flag = 0
	Zero             Flag = 1
	InterruptDisable Flag = 2
	Decimal          Flag = 3
	Break            Flag = 4
	Always           Flag = 5 // must always read 1
	Overflow         Flag = 6
	Negative         Flag = 7
)

var flagNames = [...]string{
	Carry:            "Carry",
	Zero:             "Zero",
	InterruptDisable: "InterruptDisable",
	Decimal:          "Decimal",
	Break:            "Break",
	Always:           "Always",
	Overflow:         "Overflow",
	Negative:         "Negative",
}

func (f Flag) String() string {
	if int(f) < len(flagNames) {
		return flagNames[f]
	}
	return "Flag(?)"
}

// statusLabels holds the status letters from bit 7 down to bit 0.
const statusLabels = "NV1BDIZC"

// GetBit returns whether the given bit of b is set.
func GetBit(b byte, bit Flag) bool {
	return b&(1<<bit) != 0
}

// SetBit returns b with the given bit set or cleared.
func SetBit(b byte, bit Flag, value bool) byte {
	if value {
		return b | 1<<bit
	}
	return b &^ (1 << bit)
}

// DecodeStatus renders the status byte from bit 7 down to bit 0, using the
// flag letter for a set bit and a dash for a cleared one.
func DecodeStatus(b byte) string {
	s := make([]byte, 8)
	for i := range s {
		bit := Flag(7 - i)
		if GetBit(b, bit) {
			s[i] = statusLabels[i]
		} else {
			s[i] = '-'
		}
	}
	return string(s)
}

// Flag returns the state of the status flag.
func (p *Processor) Flag(flag Flag) bool {
	return GetBit(p.ProcessorStatus, flag)
}

// SetFlag sets or clears the status flag, all other bits stay untouched.
func (p *Processor) SetFlag(flag Flag, value bool) {
	p.ProcessorStatus = SetBit(p.ProcessorStatus, flag, value)
}

// ClearFlag clears the status flag.
func (p *Processor) ClearFlag(flag Flag) {
	p.SetFlag(flag, false)
}

// setZeroNegative updates the flags affected by loading a value.
func (p *Processor) setZeroNegative(value byte) {
	p.SetFlag(Negative, GetBit(value, 7))
	p.SetFlag(Zero, value == 0)
}
