package processor

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retroproc/internal/memory"
)

const programStart = 0x0200

var errUnreachable = errors.New("memory unreachable")

// newTestProcessor returns a processor that was reset to a program loaded
// at programStart in a 64 KiB RAM.
func newTestProcessor(t *testing.T, program ...byte) (*Processor, *memory.Device) {
	t.Helper()

	ram, err := memory.NewRAM(0x10000, 0)
	assert.NoError(t, err)
	for i, b := range program {
		assert.NoError(t, ram.Write8(programStart+uint16(i), b))
	}
	assert.NoError(t, ram.Write8(0xFFFC, programStart&0xFF))
	assert.NoError(t, ram.Write8(0xFFFD, programStart>>8))

	p := New(ram)
	assert.NoError(t, p.Reset())
	return p, ram
}

// faultMemory fails every access at or above the fault address.
type faultMemory struct {
	data      map[uint16]byte
	faultFrom uint16
	writes    int
}

func (m *faultMemory) Read8(address uint16) (byte, error) {
	if address >= m.faultFrom {
		return 0, &memory.Fault{Op: "read", Address: address, Err: errUnreachable}
	}
	return m.data[address], nil
}

func (m *faultMemory) Write8(address uint16, value byte) error {
	if address >= m.faultFrom {
		return &memory.Fault{Op: "write", Address: address, Err: errUnreachable}
	}
	m.writes++
	m.data[address] = value
	return nil
}
