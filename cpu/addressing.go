package cpu

import "github.com/sixtwofiveclc/mos6502/memory"

// AddrMode names one of the thirteen effective-address computations the
// decoder can select for an opcode.
type AddrMode int

const (
	Implied AddrMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	AbsoluteMode
	AbsoluteX
	AbsoluteY
	IndirectX
	IndirectY
	Relative
	Indirect
)

func le16(mem memory.Port, addr uint16) uint16 {
	lo := mem.Read(addr)
	hi := mem.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// resolveAddress consumes the operand bytes (if any) for the opcode
// fetched this instruction, advances PC past them, and fills in
// c.addr/c.addrPresent (or c.branchTarget for Relative) plus
// c.pageCrossed for the modes where a page cross changes the cycle
// count. It never itself adds to c.Cycles: the dispatch table's base
// cost already bakes in the addressing mode's contribution, and the
// only dynamic additions are the page-cross penalty (applied generically
// in execute) and the branch-taken bookkeeping each branch handler does
// itself.
func (c *Chip) resolveAddress(mem memory.Port) error {
	entry := c.dispatchTable()[c.opcode.Byte()]
	switch entry.Mode {
	case Implied, Accumulator:
		c.addrPresent = false

	case Immediate:
		c.addr = c.PC
		c.addrPresent = true
		c.PC++

	case ZeroPage:
		c.addr = uint16(mem.Read(c.PC))
		c.PC++
		c.addrPresent = true

	case ZeroPageX:
		c.addr = uint16(mem.Read(c.PC) + c.X)
		c.PC++
		c.addrPresent = true

	case ZeroPageY:
		c.addr = uint16(mem.Read(c.PC) + c.Y)
		c.PC++
		c.addrPresent = true

	case AbsoluteMode:
		c.addr = le16(mem, c.PC)
		c.PC += 2
		c.addrPresent = true

	case AbsoluteX:
		base := le16(mem, c.PC)
		c.PC += 2
		c.addr = base + uint16(c.X)
		c.pageCrossed = base&0xFF00 != c.addr&0xFF00
		c.addrPresent = true

	case AbsoluteY:
		base := le16(mem, c.PC)
		c.PC += 2
		c.addr = base + uint16(c.Y)
		c.pageCrossed = base&0xFF00 != c.addr&0xFF00
		c.addrPresent = true

	case IndirectX:
		zp := mem.Read(c.PC) + c.X
		c.PC++
		c.addr = uint16(mem.Read(uint16(zp))) | uint16(mem.Read(uint16(zp+1)))<<8
		c.addrPresent = true

	case IndirectY:
		zp := mem.Read(c.PC)
		c.PC++
		base := uint16(mem.Read(uint16(zp))) | uint16(mem.Read(uint16(zp+1)))<<8
		c.addr = base + uint16(c.Y)
		c.pageCrossed = base&0xFF00 != c.addr&0xFF00
		c.addrPresent = true

	case Indirect:
		base := le16(mem, c.PC)
		c.PC += 2
		// Reproduces the 6502 JMP (indirect) page-wrap bug: the high
		// byte is fetched from base with only the low byte of the
		// pointer incremented, never carrying into the high byte.
		hiAddr := base&0xFF00 | (base+1)&0x00FF
		c.addr = uint16(mem.Read(base)) | uint16(mem.Read(hiAddr))<<8
		c.addrPresent = true

	case Relative:
		c.branchBase = c.PC
		offset := int8(mem.Read(c.PC))
		c.PC++
		c.branchTarget = uint16(int32(c.PC) + int32(offset))
		c.addrPresent = false
	}
	return nil
}

// operand returns the byte an instruction in the current addressing
// mode operates on: memory at c.addr when present, the accumulator
// otherwise (ASL/LSR/ROL/ROR with no operand byte).
func (c *Chip) operand(mem memory.Port) uint8 {
	if c.addrPresent {
		return mem.Read(c.addr)
	}
	return c.A
}

// storeOperand writes back to wherever operand read from.
func (c *Chip) storeOperand(mem memory.Port, val uint8) {
	if c.addrPresent {
		mem.Write(c.addr, val)
		return
	}
	c.A = val
}
