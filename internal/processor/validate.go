package processor

import (
	"fmt"
	"strings"
)

// Violation describes one broken processor invariant.
type Violation struct {
	Field   string
	Message string
}

// Violations is the result of a state validation, empty for a valid state.
type Violations []Violation

// Err returns nil for a valid state, otherwise an error wrapping
// ErrCorruptedState that lists all violations.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrCorruptedState, v.String())
}

func (v Violations) String() string {
	messages := make([]string, len(v))
	for i, violation := range v {
		messages[i] = violation.Message
	}
	return strings.Join(messages, "; ")
}

// Validate checks the invariants of the current state and returns all
// violations for the caller to inspect.
func (p *Processor) Validate() Violations {
	return p.Snapshot().Validate()
}

// ValidateState returns an error wrapping ErrCorruptedState if any
// invariant of the current state is violated.
func (p *Processor) ValidateState() error {
	return p.Validate().Err()
}
