package memory

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRAM(t *testing.T) {
	ram, err := NewRAM(0x100, 0xFF)
	assert.NoError(t, err)
	assert.Equal(t, 0x100, ram.Size())
	assert.True(t, ram.WriteEnabled())

	b, err := ram.Read8(0x80)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xFF), b)

	assert.NoError(t, ram.Write8(0x80, 0x42))
	b, err = ram.Read8(0x80)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), b)
}

func TestROMIgnoresWrites(t *testing.T) {
	data := []byte{0xA9, 0x05}
	rom, err := NewROM(data)
	assert.NoError(t, err)
	assert.False(t, rom.WriteEnabled())

	// the device owns a copy of the image
	data[0] = 0x00

	assert.NoError(t, rom.Write8(0, 0xEA))
	b, err := rom.Read8(0)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xA9), b)
}

func TestDeviceOutOfRange(t *testing.T) {
	ram, err := NewRAM(4, 0)
	assert.NoError(t, err)

	_, err = ram.Read8(4)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	err = ram.Write8(10, 1)
	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, "write", fault.Op)
	assert.Equal(t, uint16(10), fault.Address)
}

func TestNewDeviceErrors(t *testing.T) {
	_, err := NewRAM(0, 0)
	assert.True(t, errors.Is(err, ErrRange))

	_, err = NewRAM(0x10001, 0)
	assert.True(t, errors.Is(err, ErrRange))

	_, err = NewROM(nil)
	assert.True(t, errors.Is(err, ErrEmpty))
}
