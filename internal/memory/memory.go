// Package memory provides the byte addressable memory the processor is
// attached to, the memory devices and the controller mapping them into the
// 16 bit address space.
package memory

import (
	"errors"
	"fmt"

	"github.com/retroenv/retroproc/internal/translate"
)

var f = translate.From

var (
	ErrOutOfRange = errors.New(f("address outside of device"))
	ErrOverlap    = errors.New(f("device range already mapped"))
	ErrRange      = errors.New(f("device does not fit into the address space"))
	ErrEmpty      = errors.New(f("device has no memory"))
)

// Memory is the byte level access the processor needs. Implementations
// report failures as *Fault errors, the processor never retries them.
type Memory interface {
	Read8(address uint16) (byte, error)
	Write8(address uint16, value byte) error
}

// Read16 reads a little endian word, the low byte first.
func Read16(m Memory, address uint16) (uint16, error) {
	low, err := m.Read8(address)
	if err != nil {
		return 0, err
	}
	high, err := m.Read8(address + 1)
	if err != nil {
		return 0, err
	}
	return uint16(high)<<8 | uint16(low), nil
}

// Fault describes a failed memory access.
type Fault struct {
	Op      string // read or write
	Address uint16
	Err     error
}

func (fe *Fault) Error() string {
	return fmt.Sprintf("memory %s at $%04X: %v", fe.Op, fe.Address, fe.Err)
}

func (fe *Fault) Unwrap() error {
	return fe.Err
}
