// Package memory defines the byte-addressed storage abstraction the 6502
// core reads and writes through. Implementations may back this with flat
// RAM, a mapped bus, or anything else that can answer a total Read/Write
// pair; the core never probes bounds before calling either.
package memory

import (
	"fmt"
	"math/rand"
	"time"
)

// Port is the interface the cpu package consumes for all memory access.
// Both methods are total: Read always returns a byte and Write always
// succeeds from the core's point of view, even if the backing store
// chooses to ignore it (e.g. a ROM region).
type Port interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) uint8
	// Write updates addr with val. Implementations backing ROM are
	// free to make this a no-op.
	Write(addr uint16, val uint8)
}

// RAM implements Port over a flat, fully allocated 8 bit address space.
type RAM struct {
	mem []uint8
}

// NewRAMBank creates a R/W RAM bank of the given size. Size must be a
// power of 2 and no larger than 64KB; addresses outside the bank alias
// modulo its size, matching how real 6502 systems mirror undersized RAM
// across the address bus.
func NewRAMBank(size int) (*RAM, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("memory: invalid size %d, must be a power of 2", size)
	}
	if size > 1<<16 {
		return nil, fmt.Errorf("memory: invalid size %d, larger than 64k", size)
	}
	return &RAM{mem: make([]uint8, size)}, nil
}

// NewRAM returns a full 64KB flat RAM bank, the common case for a
// standalone core instance or test harness.
func NewRAM() *RAM {
	b, _ := NewRAMBank(1 << 16)
	return b
}

// Read implements Port. Address is masked to fit the bank size.
func (r *RAM) Read(addr uint16) uint8 {
	addr &= uint16(len(r.mem) - 1)
	return r.mem[addr]
}

// Write implements Port. Address is masked to fit the bank size.
func (r *RAM) Write(addr uint16, val uint8) {
	addr &= uint16(len(r.mem) - 1)
	r.mem[addr] = val
}

// PowerOn randomizes the contents of RAM, matching the documented
// power-on behavior of real hardware where SRAM cells hold whatever
// charge they last carried rather than a defined value.
func (r *RAM) PowerOn() {
	rand.Seed(time.Now().UnixNano())
	for i := range r.mem {
		r.mem[i] = uint8(rand.Intn(256))
	}
}

// LoadAt copies data into the bank starting at addr, masking to the
// bank's size the same way Read/Write do.
func (r *RAM) LoadAt(addr uint16, data []uint8) {
	for i, b := range data {
		r.mem[(int(addr)+i)&(len(r.mem)-1)] = b
	}
}
