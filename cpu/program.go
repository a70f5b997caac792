package cpu

import (
	"iter"
)

// LinkKind is how a label reference is patched into assembled bytes.
type LinkKind int

const (
	LINK_BYTE     = LinkKind(0) // Single byte operand.
	LINK_WORD     = LinkKind(1) // Little-endian word operand.
	LINK_RELATIVE = LinkKind(2) // Branch displacement.
)

// Link is a reference to a label that was not yet defined when the opcode was assembled.
type Link struct {
	Label string
	Kind  LinkKind
	Part  byte // '<' for the low byte, '>' for the high byte, 0 for the whole value.
}

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo int
	Addr   uint16
	Words  []string
	Bytes  []uint8
	Link   *Link
}

// Program is an assembled program image.
type Program struct {
	Origin  uint16
	Opcodes []Opcode
}

// NewProgram wraps a raw binary image as a program loaded at origin.
func NewProgram(origin uint16, image []uint8) (prog *Program) {
	prog = &Program{Origin: origin}
	if len(image) != 0 {
		prog.Opcodes = []Opcode{{Addr: origin, Bytes: image}}
	}

	return
}

type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode containing addr, and the offset of addr within it.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		start := int(op.Addr)
		if int(addr) >= start && int(addr) < start+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - start,
			}
			break
		}
	}

	return
}

// Binary returns the contiguous memory image starting at the program origin.
// Gaps between opcodes are zero filled.
func (prog *Program) Binary() (bins []uint8) {
	for addr, value := range prog.Bytes() {
		offset := int(addr) - int(prog.Origin)
		if offset < 0 {
			continue
		}
		if offset >= len(bins) {
			bins = append(bins, make([]uint8, offset+1-len(bins))...)
		}
		bins[offset] = value
	}

	return
}

// Bytes iterates over every assembled byte and its address.
func (prog *Program) Bytes() iter.Seq2[uint16, uint8] {
	return func(yield func(addr uint16, value uint8) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(op.Addr+uint16(n), value) {
					return
				}
			}
		}
	}
}
