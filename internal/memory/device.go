package memory

import "fmt"

// Device is a contiguous block of memory. A device that is not write
// enabled behaves like a ROM: writes are accepted and dropped.
type Device struct {
	data        []byte
	writeEnable bool
}

// NewRAM returns a writable device of the given size filled with fill.
func NewRAM(size int, fill byte) (*Device, error) {
	if size <= 0 || size > 0x10000 {
		return nil, fmt.Errorf("ram size %d: %w", size, ErrRange)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = fill
	}
	return &Device{data: data, writeEnable: true}, nil
}

// NewROM returns a read-only device holding a copy of data.
func NewROM(data []byte) (*Device, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > 0x10000 {
		return nil, fmt.Errorf("rom size %d: %w", len(data), ErrRange)
	}
	rom := make([]byte, len(data))
	copy(rom, data)
	return &Device{data: rom}, nil
}

// Size returns the number of bytes of the device.
func (d *Device) Size() int {
	return len(d.data)
}

// WriteEnabled returns whether writes change the device content.
func (d *Device) WriteEnabled() bool {
	return d.writeEnable
}

// Read8 reads the byte at the device relative address.
func (d *Device) Read8(address uint16) (byte, error) {
	if int(address) >= len(d.data) {
		return 0, &Fault{Op: "read", Address: address, Err: ErrOutOfRange}
	}
	return d.data[address], nil
}

// Write8 writes the byte at the device relative address.
func (d *Device) Write8(address uint16, value byte) error {
	if int(address) >= len(d.data) {
		return &Fault{Op: "write", Address: address, Err: ErrOutOfRange}
	}
	if d.writeEnable {
		d.data[address] = value
	}
	return nil
}
