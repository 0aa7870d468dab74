// Package cpu implements the MOS 6502 register file, decoder, and
// instruction semantics, driven one instruction (or one fetch/decode/
// execute phase) at a time against an externally supplied memory.Port.
package cpu

import (
	"fmt"

	"github.com/sixtwofiveclc/mos6502/irq"
	"github.com/sixtwofiveclc/mos6502/memory"
)

// Variant selects which real-silicon family this Chip reproduces. It
// only affects how undocumented opcodes decode; decimal mode is always
// ignored regardless of Variant (the NES/Ricoh behavior), since BCD
// arithmetic is out of scope for every variant this module models.
type Variant int

const (
	NMOS      Variant = iota // Base NMOS 6502: full undocumented opcode set.
	RicohNMOS                // NES's Ricoh 2A03/2A07: identical to NMOS here (BCD is already always ignored).
	CMOS                     // 65C02: undocumented slots all decode as NOP.
)

const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)

	stackBase = uint16(0x0100)

	powerOnSP = uint8(0xFD)
)

// Phase names the fetch/decode/execute state machine Tick steps through.
type Phase int

const (
	Fetch Phase = iota
	Decode
	Execute
)

// Chip is the 6502 register file plus the decode/execute state needed
// to step it one phase or one instruction at a time. The register file,
// Cycles and InNMI are exported for test and embedder inspection, matching
// the data model's requirement that CPU state be directly observable; the
// decode/execute scratch state and configured collaborators are internal.
type Chip struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16
	P  Flags

	// Cycles is a signed running total the caller is free to reset
	// between measurements; execution, interrupt entry and Reset add
	// to it, never subtract.
	Cycles int

	// InNMI is true from NMI entry until the matching RTI.
	InNMI bool

	variant Variant

	irqSrc irq.Sender
	nmiSrc irq.Sender
	rdySrc irq.Sender

	state Phase

	opcode       Opcode
	addr         uint16
	addrPresent  bool
	pageCrossed  bool
	branchTarget uint16

	// branchBase is the address of the branch offset byte itself (before
	// the fetch-past-operand increment), the anchor the page-cross
	// penalty is measured from — not the already-incremented c.PC.
	branchBase uint16

	// skipInterrupt is set by a taken branch's handler: the instruction
	// immediately following one still runs before a pending irqSrc/nmiSrc
	// is serviced, matching real NMOS silicon's interrupt-polling timing.
	skipInterrupt bool

	halted     bool
	haltOpcode uint8
}

// Config supplies the optional collaborators a Chip is built with.
type Config struct {
	Variant Variant
	// Irq, Nmi, Rdy are optional line sources the embedder may poll at
	// instruction boundaries itself, or wire in for the Chip to consult.
	// Tick samples each line's level, not its edges: Nmi is serviced at
	// every instruction boundary where it reads raised, Irq likewise
	// while I is clear, and a raised Rdy stalls Tick. None are required:
	// a nil source simply never fires.
	Irq irq.Sender
	Nmi irq.Sender
	Rdy irq.Sender
}

// New returns a Chip in its documented power-on state. PC is left at 0
// until either an explicit PC is assigned or Reset loads it from the
// reset vector.
func New(cfg Config) *Chip {
	c := &Chip{
		variant: cfg.Variant,
		irqSrc:  cfg.Irq,
		nmiSrc:  cfg.Nmi,
		rdySrc:  cfg.Rdy,
	}
	c.PowerOn()
	return c
}

// PowerOn resets every register to its documented power-on value:
// SP=0xFD, P=0x24 (I and the reserved bit set), A=X=Y=0, PC=0. Cycles
// and interrupt-sampling state are cleared.
func (c *Chip) PowerOn() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = powerOnSP
	c.P = NewFlags()
	c.PC = 0
	c.Cycles = 0
	c.InNMI = false
	c.state = Fetch
	c.addrPresent = false
	c.skipInterrupt = false
	c.halted = false
	c.haltOpcode = 0
}

// Reset loads PC from the little-endian reset vector at 0xFFFC and
// adds the 6 cycles a real reset sequence takes.
func (c *Chip) Reset(mem memory.Port) {
	lo := mem.Read(ResetVector)
	hi := mem.Read(ResetVector + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.Cycles += 6
	c.state = Fetch
}

// Halted reports whether the Chip decoded a JAM opcode and has stopped
// making forward progress.
func (c *Chip) Halted() bool { return c.halted }

// HaltOpcode returns the opcode byte that halted the Chip; only
// meaningful when Halted() is true.
func (c *Chip) HaltOpcode() uint8 { return c.haltOpcode }

// Variant returns the CPU family this Chip was configured to emulate.
func (c *Chip) Variant() Variant { return c.variant }

func (c *Chip) push(mem memory.Port, val uint8) {
	mem.Write(stackBase+uint16(c.SP), val)
	c.SP--
}

func (c *Chip) pop(mem memory.Port) uint8 {
	c.SP++
	return mem.Read(stackBase + uint16(c.SP))
}

func (c *Chip) push16(mem memory.Port, val uint16) {
	c.push(mem, uint8(val>>8))
	c.push(mem, uint8(val))
}

func (c *Chip) pop16(mem memory.Port) uint16 {
	lo := c.pop(mem)
	hi := c.pop(mem)
	return uint16(hi)<<8 | uint16(lo)
}

// IRQ services a maskable interrupt if I is clear: pushes PCH, PCL,
// then P with B cleared, sets I, and loads PC from the IRQ vector. Per
// spec §9, the embedder must only call this while the Chip is at an
// instruction boundary (state==Fetch), never mid-instruction. Tick
// calls this automatically when Config.Irq is non-nil and raised; call
// it directly only when driving interrupts without a Sender.
func (c *Chip) IRQ(mem memory.Port) {
	if c.P.Interrupt() {
		return
	}
	c.runInterrupt(mem, IRQVector)
}

// NMI services a non-maskable interrupt unconditionally: pushes PCH,
// PCL, then P with B cleared, sets I, loads PC from the NMI vector, and
// sets InNMI until the matching RTI. Same instruction-boundary
// constraint as IRQ. Tick calls this automatically when Config.Nmi is
// non-nil and raised.
func (c *Chip) NMI(mem memory.Port) {
	c.runInterrupt(mem, NMIVector)
	c.InNMI = true
}

func (c *Chip) runInterrupt(mem memory.Port, vector uint16) {
	c.push16(mem, c.PC)
	c.push(mem, c.P.Get()&^uint8(FlagBreak))
	c.P.SetInterrupt(true)
	lo := mem.Read(vector)
	hi := mem.Read(vector + 1)
	c.PC = uint16(hi)<<8 | uint16(lo)
	c.Cycles += 7
	c.state = Fetch
}

// execute runs the handler for the currently decoded opcode, charging
// its base cycle cost plus a page-cross penalty where the dispatch
// table marks the opcode as sensitive to one. Branch and BRK/interrupt
// cycle bookkeeping beyond the base cost is each handler's own job.
func (c *Chip) execute(mem memory.Port) error {
	entry := c.dispatchTable()[c.opcode.Byte()]
	c.Cycles += int(entry.Cycles)
	if entry.PageCross && c.pageCrossed {
		c.Cycles++
	}
	return entry.Handler(c, mem)
}

// StepInstruction runs Tick to completion for one full instruction:
// fetch, decode, and execute in a single call.
func (c *Chip) StepInstruction(mem memory.Port) error {
	for {
		done, err := c.Tick(mem)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Tick advances the Chip by one phase of the Fetch/Decode/Execute state
// machine and reports whether that phase completed the instruction
// (true after Execute, or after a Fetch phase that serviced an interrupt
// instead of fetching). A halted Chip's Tick is a no-op that immediately
// returns the HaltOpcode error again.
func (c *Chip) Tick(mem memory.Port) (bool, error) {
	if c.halted {
		return true, HaltOpcode{Opcode: c.haltOpcode}
	}
	switch c.state {
	case Fetch:
		// RDY held high stalls the clock entirely: no phase advances
		// and no instruction boundary is crossed, matching the
		// teacher's Atari-2600-driven RDY semantics.
		if c.rdySrc != nil && c.rdySrc.Raised() {
			return false, nil
		}
		// A taken branch's handler set skipInterrupt so the
		// instruction right after it still runs uninterrupted; only
		// once that one instruction has been fetched does a pending
		// irqSrc/nmiSrc get serviced, matching real silicon's
		// interrupt-polling point relative to a taken branch.
		skip := c.skipInterrupt
		c.skipInterrupt = false
		if !skip {
			if c.nmiSrc != nil && c.nmiSrc.Raised() {
				c.NMI(mem)
				return true, nil
			}
			if c.irqSrc != nil && c.irqSrc.Raised() && !c.P.Interrupt() {
				c.IRQ(mem)
				return true, nil
			}
		}
		c.opcode = Opcode(mem.Read(c.PC))
		c.PC++
		c.addrPresent = false
		c.addr = 0
		c.pageCrossed = false
		c.state = Decode
		return false, nil
	case Decode:
		if err := c.resolveAddress(mem); err != nil {
			return false, err
		}
		c.state = Execute
		return false, nil
	case Execute:
		err := c.execute(mem)
		c.state = Fetch
		if err != nil {
			if _, ok := err.(HaltOpcode); ok {
				c.halted = true
				c.haltOpcode = c.opcode.Byte()
			}
			return true, err
		}
		return true, nil
	default:
		return false, InvalidState{Reason: fmt.Sprintf("unknown phase %d", c.state)}
	}
}
