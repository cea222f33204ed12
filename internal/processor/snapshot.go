package processor

// Snapshot is the persisted register state of a processor. The fields are
// wider than the registers so that corrupted persisted data stays
// representable and can be validated.
type Snapshot struct {
	Accumulator     int `json:"Accumulator"`
	IndexX          int `json:"IndexX"`
	IndexY          int `json:"IndexY"`
	StackPointer    int `json:"StackPointer"`
	ProcessorStatus int `json:"ProcessorStatus"`
	ProgramCounter  int `json:"ProgramCounter"`
}

// Validate checks the snapshot against the processor invariants.
func (s Snapshot) Validate() Violations {
	violations := s.rangeViolations()
	if s.ProcessorStatus >= 0 && s.ProcessorStatus <= 0xFF && !GetBit(byte(s.ProcessorStatus), Always) {
		violations = append(violations, Violation{
			Field:   "ProcessorStatus",
			Message: f("%s flag invalidly set", "ProcessorStatus"),
		})
	}
	return violations
}

func (s Snapshot) rangeViolations() Violations {
	var violations Violations

	byteRegisters := []struct {
		name  string
		value int
	}{
		{"Accumulator", s.Accumulator},
		{"IndexX", s.IndexX},
		{"IndexY", s.IndexY},
		{"StackPointer", s.StackPointer},
		{"ProcessorStatus", s.ProcessorStatus},
	}
	for _, reg := range byteRegisters {
		if reg.value < 0 || reg.value > 0xFF {
			violations = append(violations, Violation{
				Field:   reg.name,
				Message: f("%s out of range", reg.name),
			})
		}
	}

	if s.ProgramCounter < 0 || s.ProgramCounter > 0xFFFF {
		violations = append(violations, Violation{
			Field:   "ProgramCounter",
			Message: f("%s out of range", "ProgramCounter"),
		})
	}
	return violations
}
