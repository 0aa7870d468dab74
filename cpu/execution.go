package cpu

import "github.com/sixtwofiveclc/mos6502/memory"

// Handler performs the semantic operation of one decoded opcode: it
// reads/writes registers, flags, and memory through c.operand/
// c.storeOperand (or directly for register-only forms) and reports any
// halt condition. It never touches c.Cycles; the dispatch table's base
// cost plus execute's page-cross penalty account for timing, except
// for the branch handlers, which add the taken and page-cross cycles
// themselves since those aren't a fixed per-opcode constant.
type Handler func(c *Chip, mem memory.Port) error

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// adcCore implements ADC's add-with-carry semantics against an operand
// that SBC obtains by XORing its own operand with 0xFF first, per the
// documented ADC/SBC duality.
func adcCore(c *Chip, m uint8) {
	sum := uint16(c.A) + uint16(m) + uint16(boolToUint8(c.P.Carry()))
	result := uint8(sum)
	c.P.setOverflowFromAdd(c.A, m, result)
	c.P.setCarryFromSum(sum)
	c.P.setNZ(result)
	c.A = result
}

func compareCore(c *Chip, reg, m uint8) {
	c.P.SetCarry(reg >= m)
	c.P.setNZ(reg - m)
}

// Transfer.

func execLDA(c *Chip, mem memory.Port) error { c.A = c.operand(mem); c.P.setNZ(c.A); return nil }
func execLDX(c *Chip, mem memory.Port) error { c.X = c.operand(mem); c.P.setNZ(c.X); return nil }
func execLDY(c *Chip, mem memory.Port) error { c.Y = c.operand(mem); c.P.setNZ(c.Y); return nil }
func execSTA(c *Chip, mem memory.Port) error { c.storeOperand(mem, c.A); return nil }
func execSTX(c *Chip, mem memory.Port) error { c.storeOperand(mem, c.X); return nil }
func execSTY(c *Chip, mem memory.Port) error { c.storeOperand(mem, c.Y); return nil }
func execTAX(c *Chip, mem memory.Port) error { c.X = c.A; c.P.setNZ(c.X); return nil }
func execTAY(c *Chip, mem memory.Port) error { c.Y = c.A; c.P.setNZ(c.Y); return nil }
func execTXA(c *Chip, mem memory.Port) error { c.A = c.X; c.P.setNZ(c.A); return nil }
func execTYA(c *Chip, mem memory.Port) error { c.A = c.Y; c.P.setNZ(c.A); return nil }
func execTSX(c *Chip, mem memory.Port) error { c.X = c.SP; c.P.setNZ(c.X); return nil }
func execTXS(c *Chip, mem memory.Port) error { c.SP = c.X; return nil }

// Arithmetic.

func execADC(c *Chip, mem memory.Port) error { adcCore(c, c.operand(mem)); return nil }
func execSBC(c *Chip, mem memory.Port) error { adcCore(c, c.operand(mem)^0xFF); return nil }

// Compare.

func execCMP(c *Chip, mem memory.Port) error { compareCore(c, c.A, c.operand(mem)); return nil }
func execCPX(c *Chip, mem memory.Port) error { compareCore(c, c.X, c.operand(mem)); return nil }
func execCPY(c *Chip, mem memory.Port) error { compareCore(c, c.Y, c.operand(mem)); return nil }

// Logical.

func execAND(c *Chip, mem memory.Port) error { c.A &= c.operand(mem); c.P.setNZ(c.A); return nil }
func execORA(c *Chip, mem memory.Port) error { c.A |= c.operand(mem); c.P.setNZ(c.A); return nil }
func execEOR(c *Chip, mem memory.Port) error { c.A ^= c.operand(mem); c.P.setNZ(c.A); return nil }

func execBIT(c *Chip, mem memory.Port) error {
	m := c.operand(mem)
	c.P.SetZero(c.A&m == 0)
	c.P.SetNegative(m&0x80 != 0)
	c.P.SetOverflow(m&0x40 != 0)
	return nil
}

// Shifts/rotates.

func execASL(c *Chip, mem memory.Port) error {
	m := c.operand(mem)
	c.P.SetCarry(m&0x80 != 0)
	res := m << 1
	c.P.setNZ(res)
	c.storeOperand(mem, res)
	return nil
}

func execLSR(c *Chip, mem memory.Port) error {
	m := c.operand(mem)
	c.P.SetCarry(m&0x01 != 0)
	res := m >> 1
	c.P.setNZ(res)
	c.storeOperand(mem, res)
	return nil
}

func execROL(c *Chip, mem memory.Port) error {
	m := c.operand(mem)
	oldC := boolToUint8(c.P.Carry())
	res := m<<1 | oldC
	c.P.SetCarry(m&0x80 != 0)
	c.P.setNZ(res)
	c.storeOperand(mem, res)
	return nil
}

func execROR(c *Chip, mem memory.Port) error {
	m := c.operand(mem)
	oldC := boolToUint8(c.P.Carry())
	res := oldC<<7 | m>>1
	c.P.SetCarry(m&0x01 != 0)
	c.P.setNZ(res)
	c.storeOperand(mem, res)
	return nil
}

// Increment/decrement.

func execINC(c *Chip, mem memory.Port) error {
	res := c.operand(mem) + 1
	c.P.setNZ(res)
	c.storeOperand(mem, res)
	return nil
}

func execDEC(c *Chip, mem memory.Port) error {
	res := c.operand(mem) - 1
	c.P.setNZ(res)
	c.storeOperand(mem, res)
	return nil
}

func execINX(c *Chip, mem memory.Port) error { c.X++; c.P.setNZ(c.X); return nil }
func execINY(c *Chip, mem memory.Port) error { c.Y++; c.P.setNZ(c.Y); return nil }
func execDEX(c *Chip, mem memory.Port) error { c.X--; c.P.setNZ(c.X); return nil }
func execDEY(c *Chip, mem memory.Port) error { c.Y--; c.P.setNZ(c.Y); return nil }

// Control flow. execJMP handles both absolute and (bugged) indirect
// forms since resolveAddress already reproduces the page-wrap bug for
// the indirect opcode before the handler ever runs.

func execJMP(c *Chip, mem memory.Port) error { c.PC = c.addr; return nil }

func execJSR(c *Chip, mem memory.Port) error {
	target := c.addr
	c.push16(mem, c.PC-1)
	c.PC = target
	return nil
}

func execRTS(c *Chip, mem memory.Port) error {
	c.PC = c.pop16(mem) + 1
	return nil
}

// branchIf applies the taken/page-cross cycle bookkeeping shared by all
// eight conditional branches and the interrupt-sampling-skip rule a
// taken branch imposes on the following instruction. The page-cross
// penalty is measured from the offset byte's own address (branchBase),
// not the post-fetch c.PC: an offset byte that itself sits at a
// 0xFF-ending address already differs in page from c.PC by virtue of
// the fetch increment alone, which would charge a spurious penalty (or
// miss a real one) if used as the anchor instead.
func (c *Chip) branchIf(taken bool) {
	if !taken {
		return
	}
	base := c.branchBase
	c.PC = c.branchTarget
	c.Cycles++
	if base&0xFF00 != c.PC&0xFF00 {
		c.Cycles++
	}
	c.skipInterrupt = true
}

func execBPL(c *Chip, mem memory.Port) error { c.branchIf(!c.P.Negative()); return nil }
func execBMI(c *Chip, mem memory.Port) error { c.branchIf(c.P.Negative()); return nil }
func execBVC(c *Chip, mem memory.Port) error { c.branchIf(!c.P.Overflow()); return nil }
func execBVS(c *Chip, mem memory.Port) error { c.branchIf(c.P.Overflow()); return nil }
func execBCC(c *Chip, mem memory.Port) error { c.branchIf(!c.P.Carry()); return nil }
func execBCS(c *Chip, mem memory.Port) error { c.branchIf(c.P.Carry()); return nil }
func execBNE(c *Chip, mem memory.Port) error { c.branchIf(!c.P.Zero()); return nil }
func execBEQ(c *Chip, mem memory.Port) error { c.branchIf(c.P.Zero()); return nil }

// Flag ops.

func execCLC(c *Chip, mem memory.Port) error { c.P.SetCarry(false); return nil }
func execSEC(c *Chip, mem memory.Port) error { c.P.SetCarry(true); return nil }
func execCLI(c *Chip, mem memory.Port) error { c.P.SetInterrupt(false); return nil }
func execSEI(c *Chip, mem memory.Port) error { c.P.SetInterrupt(true); return nil }
func execCLD(c *Chip, mem memory.Port) error { c.P.SetDecimal(false); return nil }
func execSED(c *Chip, mem memory.Port) error { c.P.SetDecimal(true); return nil }
func execCLV(c *Chip, mem memory.Port) error { c.P.SetOverflow(false); return nil }

// Stack ops.

func execPHA(c *Chip, mem memory.Port) error { c.push(mem, c.A); return nil }

func execPLA(c *Chip, mem memory.Port) error {
	c.A = c.pop(mem)
	c.P.setNZ(c.A)
	return nil
}

func execPHP(c *Chip, mem memory.Port) error {
	c.push(mem, c.P.Get()|uint8(FlagBreak)|uint8(FlagReserved))
	return nil
}

func execPLP(c *Chip, mem memory.Port) error { c.P.Set(c.pop(mem)); return nil }

// Interrupt return.

func execRTI(c *Chip, mem memory.Port) error {
	c.P.Set(c.pop(mem))
	c.PC = c.pop16(mem)
	c.InNMI = false
	return nil
}

// BRK pushes the current PC unmodified: the fetch phase's PC++ leaves it
// at BRK's padding byte (opcode address + 1), and no further increment
// happens here (matching the documented end-to-end BRK scenario exactly).
func execBRK(c *Chip, mem memory.Port) error {
	c.push16(mem, c.PC)
	c.push(mem, c.P.Get()|uint8(FlagBreak))
	c.P.SetInterrupt(true)
	c.PC = le16(mem, IRQVector)
	return nil
}

func execNOP(c *Chip, mem memory.Port) error { return nil }

func execJAM(c *Chip, mem memory.Port) error { return HaltOpcode{Opcode: c.opcode.Byte()} }

// Undocumented opcodes.

func execSLO(c *Chip, mem memory.Port) error {
	m := c.operand(mem)
	carry := m&0x80 != 0
	shifted := m << 1
	c.storeOperand(mem, shifted)
	c.P.SetCarry(carry)
	c.A |= shifted
	c.P.setNZ(c.A)
	return nil
}

func execRLA(c *Chip, mem memory.Port) error {
	m := c.operand(mem)
	oldC := boolToUint8(c.P.Carry())
	rotated := m<<1 | oldC
	c.storeOperand(mem, rotated)
	c.P.SetCarry(m&0x80 != 0)
	c.A &= rotated
	c.P.setNZ(c.A)
	return nil
}

func execSRE(c *Chip, mem memory.Port) error {
	m := c.operand(mem)
	carry := m&0x01 != 0
	shifted := m >> 1
	c.storeOperand(mem, shifted)
	c.P.SetCarry(carry)
	c.A ^= shifted
	c.P.setNZ(c.A)
	return nil
}

func execRRA(c *Chip, mem memory.Port) error {
	m := c.operand(mem)
	oldC := boolToUint8(c.P.Carry())
	rotated := oldC<<7 | m>>1
	c.storeOperand(mem, rotated)
	c.P.SetCarry(m&0x01 != 0)
	adcCore(c, rotated)
	return nil
}

func execANC(c *Chip, mem memory.Port) error {
	c.A &= c.operand(mem)
	c.P.setNZ(c.A)
	c.P.SetCarry(c.A&0x80 != 0)
	return nil
}

func execALR(c *Chip, mem memory.Port) error {
	c.A &= c.operand(mem)
	carry := c.A&0x01 != 0
	c.A >>= 1
	c.P.SetCarry(carry)
	c.P.setNZ(c.A)
	return nil
}

func execARR(c *Chip, mem memory.Port) error {
	t := c.A & c.operand(mem)
	oldC := boolToUint8(c.P.Carry())
	res := t>>1 | oldC<<7
	c.A = res
	c.P.setNZ(res)
	c.P.SetCarry(res&0x40 != 0)
	c.P.SetOverflow(res&0x40 != 0 != (res&0x20 != 0))
	return nil
}

func execAXS(c *Chip, mem memory.Port) error {
	m := c.operand(mem)
	aAndX := c.A & c.X
	c.P.SetCarry(aAndX >= m)
	c.X = aAndX - m
	c.P.setNZ(c.X)
	return nil
}

func execLAX(c *Chip, mem memory.Port) error {
	v := c.operand(mem)
	c.A, c.X = v, v
	c.P.setNZ(v)
	return nil
}

func execSAX(c *Chip, mem memory.Port) error { c.storeOperand(mem, c.A&c.X); return nil }

func execDCP(c *Chip, mem memory.Port) error {
	m := c.operand(mem) - 1
	c.storeOperand(mem, m)
	compareCore(c, c.A, m)
	return nil
}

func execISC(c *Chip, mem memory.Port) error {
	m := c.operand(mem) + 1
	c.storeOperand(mem, m)
	adcCore(c, m^0xFF)
	return nil
}

// execXAA emulates the notoriously unstable AND-X-and-immediate opcode
// with the commonly observed stable approximation (A = X & operand)
// rather than modeling the magic constant's undefined behavior.
func execXAA(c *Chip, mem memory.Port) error {
	c.A = c.X & c.operand(mem)
	c.P.setNZ(c.A)
	return nil
}

func execLAS(c *Chip, mem memory.Port) error {
	v := c.operand(mem) & c.SP
	c.A, c.X, c.SP = v, v, v
	c.P.setNZ(v)
	return nil
}

func execTAS(c *Chip, mem memory.Port) error {
	c.SP = c.A & c.X
	v := c.SP & (uint8(c.addr>>8) + 1)
	c.storeOperand(mem, v)
	return nil
}

func execAHX(c *Chip, mem memory.Port) error {
	v := c.A & c.X & (uint8(c.addr>>8) + 1)
	c.storeOperand(mem, v)
	return nil
}

func execSHX(c *Chip, mem memory.Port) error {
	v := c.X & (uint8(c.addr>>8) + 1)
	c.storeOperand(mem, v)
	return nil
}

func execSHY(c *Chip, mem memory.Port) error {
	v := c.Y & (uint8(c.addr>>8) + 1)
	c.storeOperand(mem, v)
	return nil
}
