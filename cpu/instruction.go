package cpu

import (
	"fmt"
	"iter"
)

// Kind is the operation an instruction performs.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	INS_BRK = Kind(0)  // BRK
	INS_LDA = Kind(1)  // LDA
	INS_STA = Kind(2)  // STA
	INS_TAX = Kind(3)  // TAX
	INS_INX = Kind(4)  // INX
	INS_INY = Kind(5)  // INY
	INS_AND = Kind(6)  // AND
	INS_ADC = Kind(7)  // ADC
	INS_ASL = Kind(8)  // ASL
	INS_BIT = Kind(9)  // BIT
	INS_BCC = Kind(10) // BCC
	INS_BCS = Kind(11) // BCS
	INS_BEQ = Kind(12) // BEQ
	INS_BMI = Kind(13) // BMI
	INS_BNE = Kind(14) // BNE
	INS_BPL = Kind(15) // BPL
	INS_BVC = Kind(16) // BVC
	INS_BVS = Kind(17) // BVS
	INS_CLC = Kind(18) // CLC
	INS_CLD = Kind(19) // CLD
	INS_CLI = Kind(20) // CLI
	INS_CLV = Kind(21) // CLV
)

// Kinds returns all instruction kinds, in Kind order.
func Kinds() iter.Seq[Kind] {
	return func(yield func(Kind) bool) {
		for kind := INS_BRK; kind <= INS_CLV; kind++ {
			if !yield(kind) {
				return
			}
		}
	}
}

// Descriptor is the decode information for a single opcode.
type Descriptor struct {
	Opcode uint8 // Opcode byte.
	Kind   Kind  // Operation.
	Length int   // Instruction length in bytes, including the opcode.
	Cycles int   // Base cycle count.
	Mode   Mode  // Addressing mode.
}

// String returns the descriptor as a human readable string.
func (desc Descriptor) String() string {
	return fmt.Sprintf("%02X %v %v (%d bytes, %d cycles)", desc.Opcode, desc.Kind, desc.Mode, desc.Length, desc.Cycles)
}

// instructionList is the source of the opcode table.
var instructionList = []Descriptor{
	{0x00, INS_BRK, 1, 7, MODE_NONE},

	{0xA9, INS_LDA, 2, 2, MODE_IMMEDIATE},
	{0xA5, INS_LDA, 2, 3, MODE_ZEROPAGE},
	{0xB5, INS_LDA, 2, 4, MODE_ZEROPAGE_X},
	{0xAD, INS_LDA, 3, 4, MODE_ABSOLUTE},
	{0xBD, INS_LDA, 3, 4, MODE_ABSOLUTE_X},
	{0xB9, INS_LDA, 3, 4, MODE_ABSOLUTE_Y},
	{0xA1, INS_LDA, 2, 6, MODE_INDIRECT_X},
	{0xB1, INS_LDA, 2, 5, MODE_INDIRECT_Y},

	{0x85, INS_STA, 2, 3, MODE_ZEROPAGE},
	{0x95, INS_STA, 2, 4, MODE_ZEROPAGE_X},
	{0x8D, INS_STA, 3, 4, MODE_ABSOLUTE},
	{0x9D, INS_STA, 3, 5, MODE_ABSOLUTE_X},
	{0x99, INS_STA, 3, 5, MODE_ABSOLUTE_Y},
	{0x81, INS_STA, 2, 6, MODE_INDIRECT_X},
	{0x91, INS_STA, 2, 6, MODE_INDIRECT_Y},

	{0xAA, INS_TAX, 1, 2, MODE_NONE},
	{0xE8, INS_INX, 1, 2, MODE_NONE},
	{0xC8, INS_INY, 1, 2, MODE_NONE},

	{0x29, INS_AND, 2, 2, MODE_IMMEDIATE},
	{0x25, INS_AND, 2, 3, MODE_ZEROPAGE},
	{0x35, INS_AND, 2, 4, MODE_ZEROPAGE_X},
	{0x2D, INS_AND, 3, 4, MODE_ABSOLUTE},
	{0x3D, INS_AND, 3, 4, MODE_ABSOLUTE_X},
	{0x39, INS_AND, 3, 4, MODE_ABSOLUTE_Y},
	{0x21, INS_AND, 2, 6, MODE_INDIRECT_X},
	{0x31, INS_AND, 2, 5, MODE_INDIRECT_Y},

	{0x69, INS_ADC, 2, 2, MODE_IMMEDIATE},
	{0x65, INS_ADC, 2, 3, MODE_ZEROPAGE},
	{0x75, INS_ADC, 2, 4, MODE_ZEROPAGE_X},
	{0x6D, INS_ADC, 3, 4, MODE_ABSOLUTE},
	{0x7D, INS_ADC, 3, 4, MODE_ABSOLUTE_X},
	{0x79, INS_ADC, 3, 4, MODE_ABSOLUTE_Y},
	{0x61, INS_ADC, 2, 6, MODE_INDIRECT_X},
	{0x71, INS_ADC, 2, 5, MODE_INDIRECT_Y},

	{0x0A, INS_ASL, 1, 2, MODE_ACCUMULATOR},
	{0x06, INS_ASL, 2, 5, MODE_ZEROPAGE},
	{0x16, INS_ASL, 2, 6, MODE_ZEROPAGE_X},
	{0x0E, INS_ASL, 3, 6, MODE_ABSOLUTE},
	{0x1E, INS_ASL, 3, 7, MODE_ABSOLUTE_X},

	{0x24, INS_BIT, 2, 3, MODE_ZEROPAGE},
	{0x2C, INS_BIT, 3, 4, MODE_ABSOLUTE},

	{0x90, INS_BCC, 2, 2, MODE_RELATIVE},
	{0xB0, INS_BCS, 2, 2, MODE_RELATIVE},
	{0xF0, INS_BEQ, 2, 2, MODE_RELATIVE},
	{0x30, INS_BMI, 2, 2, MODE_RELATIVE},
	{0xD0, INS_BNE, 2, 2, MODE_RELATIVE},
	{0x10, INS_BPL, 2, 2, MODE_RELATIVE},
	{0x50, INS_BVC, 2, 2, MODE_RELATIVE},
	{0x70, INS_BVS, 2, 2, MODE_RELATIVE},

	{0x18, INS_CLC, 1, 2, MODE_NONE},
	{0xD8, INS_CLD, 1, 2, MODE_NONE},
	{0x58, INS_CLI, 1, 2, MODE_NONE},
	{0xB8, INS_CLV, 1, 2, MODE_NONE},
}

// encoding is a (kind, mode) pair, used for reverse lookup by the assembler.
type encoding struct {
	kind Kind
	mode Mode
}

var (
	instructionTable [256]*Descriptor
	encodingTable    = map[encoding]*Descriptor{}
)

func init() {
	for n := range instructionList {
		desc := &instructionList[n]
		if instructionTable[desc.Opcode] != nil {
			panic(fmt.Sprintf("opcode %02X defined twice", desc.Opcode))
		}
		if desc.Length != 1+desc.Mode.Operands() {
			panic(fmt.Sprintf("opcode %02X length does not match mode %v", desc.Opcode, desc.Mode))
		}
		instructionTable[desc.Opcode] = desc
		encodingTable[encoding{desc.Kind, desc.Mode}] = desc
	}
}

// Lookup returns the descriptor for an opcode fetched from pc.
func Lookup(opcode uint8, pc uint16) (desc Descriptor, err error) {
	entry := instructionTable[opcode]
	if entry == nil {
		err = ErrUnimplementedOpcode{Opcode: opcode, Pc: pc}
		return
	}

	desc = *entry
	return
}

// Encoding returns the descriptor that encodes kind in the given mode.
func Encoding(kind Kind, mode Mode) (desc Descriptor, ok bool) {
	entry, ok := encodingTable[encoding{kind, mode}]
	if ok {
		desc = *entry
	}
	return
}

// Opcodes returns all the descriptors of an instruction kind, in opcode order.
func Opcodes(kind Kind) iter.Seq[Descriptor] {
	return func(yield func(Descriptor) bool) {
		for _, entry := range instructionTable {
			if entry == nil || entry.Kind != kind {
				continue
			}
			if !yield(*entry) {
				return
			}
		}
	}
}

// IsBranch returns true if the instruction kind is a conditional branch.
func (kind Kind) IsBranch() bool {
	_, ok := Encoding(kind, MODE_RELATIVE)
	return ok
}
