package cpu

// Flags is the packed 8 bit processor status register: N V - B D I Z C
// from bit 7 down to bit 0. Bit 5 is unused on real silicon but always
// reads back as 1; bit 4 (B) only reflects a real state in a byte that's
// been pushed to the stack, not in the live register.
type Flags uint8

const (
	FlagCarry     Flags = 1 << 0
	FlagZero      Flags = 1 << 1
	FlagInterrupt Flags = 1 << 2
	FlagDecimal   Flags = 1 << 3
	FlagBreak     Flags = 1 << 4
	FlagReserved  Flags = 1 << 5
	FlagOverflow  Flags = 1 << 6
	FlagNegative  Flags = 1 << 7

	// powerOnFlags is the documented P value on power-on: I and the
	// reserved bit set, everything else clear.
	powerOnFlags = FlagReserved | FlagInterrupt
)

// NewFlags returns P in its documented power-on state (0x24).
func NewFlags() Flags {
	return powerOnFlags
}

// Get returns the raw status byte, used for PHP/BRK pushes.
func (f Flags) Get() uint8 {
	return uint8(f)
}

// Set replaces the raw status byte wholesale, used for PLP/RTI pops. The
// reserved bit is always forced on and B is always forced off, matching
// how the physical register never actually holds those bits any other way.
func (f *Flags) Set(val uint8) {
	*f = Flags(val)&^FlagBreak | FlagReserved
}

func (f Flags) has(bit Flags) bool {
	return f&bit != 0
}

func (f *Flags) setBit(bit Flags, on bool) {
	if on {
		*f |= bit
	} else {
		*f &^= bit
	}
}

func (f Flags) Negative() bool  { return f.has(FlagNegative) }
func (f Flags) Overflow() bool  { return f.has(FlagOverflow) }
func (f Flags) Break() bool     { return f.has(FlagBreak) }
func (f Flags) Decimal() bool   { return f.has(FlagDecimal) }
func (f Flags) Interrupt() bool { return f.has(FlagInterrupt) }
func (f Flags) Zero() bool      { return f.has(FlagZero) }
func (f Flags) Carry() bool     { return f.has(FlagCarry) }

func (f *Flags) SetNegative(v bool)  { f.setBit(FlagNegative, v) }
func (f *Flags) SetOverflow(v bool)  { f.setBit(FlagOverflow, v) }
func (f *Flags) SetDecimal(v bool)   { f.setBit(FlagDecimal, v) }
func (f *Flags) SetInterrupt(v bool) { f.setBit(FlagInterrupt, v) }
func (f *Flags) SetZero(v bool)      { f.setBit(FlagZero, v) }
func (f *Flags) SetCarry(v bool)     { f.setBit(FlagCarry, v) }

// setNZ recomputes N and Z from a result byte, the rule every
// data-producing instruction follows (spec invariant 3).
func (f *Flags) setNZ(result uint8) {
	f.SetZero(result == 0)
	f.SetNegative(result&0x80 != 0)
}

// setCarryFromSum sets C from a 16 bit ALU result where bit 8 signals a
// carry out of the low byte.
func (f *Flags) setCarryFromSum(sum uint16) {
	f.SetCarry(sum > 0xFF)
}

// setOverflowFromAdd implements the standard two's-complement overflow
// test for ADC/SBC style operations: set V if the operands share a sign
// that differs from the result's sign.
func (f *Flags) setOverflowFromAdd(a, m, result uint8) {
	f.SetOverflow((a^result)&(m^result)&0x80 != 0)
}
