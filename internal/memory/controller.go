package memory

import (
	"fmt"
	"sort"
	"sync"
)

// Unmapped is the value read from an address no device is mapped to.
const Unmapped = 0xFF

// Mapped is a device that can be mapped into the address space of a
// controller. Addresses passed to it are relative to its start.
type Mapped interface {
	Memory
	Size() int
}

// Mapping describes a device mapped into the address space.
type Mapping struct {
	Name   string
	Start  uint16
	Size   int
	Device Mapped
}

// End returns the last address covered by the mapping.
func (m Mapping) End() uint16 {
	return uint16(int(m.Start) + m.Size - 1)
}

func (m Mapping) contains(address uint16) bool {
	return int(address) >= int(m.Start) && int(address) < int(m.Start)+m.Size
}

// Controller dispatches accesses of the 16 bit address space to the
// mapped devices. It is safe for concurrent use by independent
// processors, overlapping writes are last-writer-wins.
type Controller struct {
	mu       sync.RWMutex
	mappings []Mapping
}

// NewController returns a controller with an empty device map.
func NewController() *Controller {
	return &Controller{}
}

// Map maps the device at the given start address.
func (c *Controller) Map(name string, start uint16, dev Mapped) error {
	size := dev.Size()
	if size <= 0 {
		return fmt.Errorf("mapping '%s': %w", name, ErrEmpty)
	}
	if int(start)+size > 0x10000 {
		return fmt.Errorf("mapping '%s' at $%04X size $%X: %w", name, start, size, ErrRange)
	}

	mapping := Mapping{
		Name:   name,
		Start:  start,
		Size:   size,
		Device: dev,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.mappings {
		if mapping.contains(existing.Start) || existing.contains(mapping.Start) {
			return fmt.Errorf("mapping '%s' at $%04X overlaps '%s': %w", name, start, existing.Name, ErrOverlap)
		}
	}

	c.mappings = append(c.mappings, mapping)
	sort.Slice(c.mappings, func(i, j int) bool {
		return c.mappings[i].Start < c.mappings[j].Start
	})
	return nil
}

// Mappings returns a copy of the current device map ordered by address.
func (c *Controller) Mappings() []Mapping {
	c.mu.RLock()
	defer c.mu.RUnlock()

	mappings := make([]Mapping, len(c.mappings))
	copy(mappings, c.mappings)
	return mappings
}

// Read8 reads a byte, unmapped addresses read as $FF.
func (c *Controller) Read8(address uint16) (byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	mapping, ok := c.lookup(address)
	if !ok {
		return Unmapped, nil
	}
	value, err := mapping.Device.Read8(address - mapping.Start)
	if err != nil {
		return 0, fmt.Errorf("device '%s': %w", mapping.Name, err)
	}
	return value, nil
}

// Write8 writes a byte, writes to unmapped addresses are dropped.
func (c *Controller) Write8(address uint16, value byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	mapping, ok := c.lookup(address)
	if !ok {
		return nil
	}
	if err := mapping.Device.Write8(address-mapping.Start, value); err != nil {
		return fmt.Errorf("device '%s': %w", mapping.Name, err)
	}
	return nil
}

func (c *Controller) lookup(address uint16) (Mapping, bool) {
	for _, mapping := range c.mappings {
		if mapping.contains(address) {
			return mapping, true
		}
	}
	return Mapping{}, false
}
