package cpu

// Opcode is a view over a raw opcode byte exposing the bitfields the
// classic 6502 decode matrix is built from: http://www.llx.com/~nparker/a2/opcodes.html
//
//	aaa bbb cc
//	7 6 5 4 3 2 1 0
//
// cc selects one of the three regular opcode groups (group 3, cc==11, is
// the undocumented/illegal plane); aaa selects the operation within the
// group; bbb selects the addressing mode within the group. xx/y are the
// same bits reinterpreted for the branch singletons (group 0, bbb==100).
type Opcode uint8

// AAA returns the operation-within-group bits (bits 7-5).
func (o Opcode) AAA() uint8 { return (uint8(o) >> 5) & 0x7 }

// BBB returns the addressing-mode-selector bits (bits 4-2).
func (o Opcode) BBB() uint8 { return (uint8(o) >> 2) & 0x7 }

// CC returns the opcode group (bits 1-0): 0, 1, 2 are the documented
// groups, 3 is the undocumented/illegal plane.
func (o Opcode) CC() uint8 { return uint8(o) & 0x3 }

// XX returns the branch flag-select bits (bits 7-6), valid only when the
// opcode is a branch singleton (CC()==0 && BBB()==4).
func (o Opcode) XX() uint8 { return (uint8(o) >> 6) & 0x3 }

// Y returns the branch required-polarity bit (bit 5), valid only when the
// opcode is a branch singleton.
func (o Opcode) Y() uint8 { return (uint8(o) >> 5) & 0x1 }

// IsBranch reports whether this opcode is one of the eight conditional
// branch singletons (BPL/BMI/BVC/BVS/BCC/BCS/BNE/BEQ).
func (o Opcode) IsBranch() bool {
	return o.CC() == 0 && o.BBB() == 4
}

// Byte returns the raw opcode value.
func (o Opcode) Byte() uint8 { return uint8(o) }
