package cpu

import (
	"fmt"
)

// Disassemble renders the instruction at addr in assembler syntax,
// and returns its length in bytes.
//
// Bytes that are not a known opcode render as a .byte directive.
func Disassemble(mem *Memory, addr uint16) (text string, length int) {
	opcode := mem.Read(addr)
	desc, err := Lookup(opcode, addr)
	if err != nil {
		text = fmt.Sprintf(".byte $%02X", opcode)
		length = 1
		return
	}

	length = desc.Length

	operand := addr + 1
	zp := mem.Read(operand)
	abs := mem.ReadWord(operand)

	var arg string
	switch desc.Mode {
	case MODE_NONE:
	case MODE_ACCUMULATOR:
		arg = "A"
	case MODE_IMMEDIATE:
		arg = fmt.Sprintf("#$%02X", zp)
	case MODE_ZEROPAGE:
		arg = fmt.Sprintf("$%02X", zp)
	case MODE_ZEROPAGE_X:
		arg = fmt.Sprintf("$%02X,X", zp)
	case MODE_ZEROPAGE_Y:
		arg = fmt.Sprintf("$%02X,Y", zp)
	case MODE_ABSOLUTE:
		arg = fmt.Sprintf("$%04X", abs)
	case MODE_ABSOLUTE_X:
		arg = fmt.Sprintf("$%04X,X", abs)
	case MODE_ABSOLUTE_Y:
		arg = fmt.Sprintf("$%04X,Y", abs)
	case MODE_INDIRECT_X:
		arg = fmt.Sprintf("($%02X,X)", zp)
	case MODE_INDIRECT_Y:
		arg = fmt.Sprintf("($%02X),Y", zp)
	case MODE_RELATIVE:
		target := operand + 1 + uint16(int8(zp))
		arg = fmt.Sprintf("$%04X", target)
	}

	text = desc.Kind.String()
	if len(arg) != 0 {
		text += " " + arg
	}

	return
}

// Listing disassembles count instructions starting at addr.
func Listing(mem *Memory, addr uint16, count int) (lines []string) {
	for range count {
		text, length := Disassemble(mem, addr)
		var raw string
		for n := range length {
			raw += fmt.Sprintf("%02X ", mem.Read(addr+uint16(n)))
		}
		lines = append(lines, fmt.Sprintf("%04X  %-9s %v", addr, raw, text))
		addr += uint16(length)
	}

	return
}
