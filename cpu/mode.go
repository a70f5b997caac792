package cpu

// Mode is an instruction addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_NONE        = Mode(0)  // none
	MODE_ACCUMULATOR = Mode(1)  // acc
	MODE_IMMEDIATE   = Mode(2)  // imm
	MODE_ZEROPAGE    = Mode(3)  // zp
	MODE_ZEROPAGE_X  = Mode(4)  // zp,x
	MODE_ZEROPAGE_Y  = Mode(5)  // zp,y
	MODE_ABSOLUTE    = Mode(6)  // abs
	MODE_ABSOLUTE_X  = Mode(7)  // abs,x
	MODE_ABSOLUTE_Y  = Mode(8)  // abs,y
	MODE_INDIRECT_X  = Mode(9)  // (zp,x)
	MODE_INDIRECT_Y  = Mode(10) // (zp),y
	MODE_RELATIVE    = Mode(11) // rel
)

// Operands returns the number of operand bytes following the opcode.
func (mode Mode) Operands() int {
	switch mode {
	case MODE_NONE, MODE_ACCUMULATOR:
		return 0
	case MODE_ABSOLUTE, MODE_ABSOLUTE_X, MODE_ABSOLUTE_Y:
		return 2
	default:
		return 1
	}
}

// NeedsAddress returns true if the execution engine must resolve an
// effective address before dispatch.
//
// Relative mode is resolved by the branch itself, and only when taken.
func (mode Mode) NeedsAddress() bool {
	switch mode {
	case MODE_NONE, MODE_ACCUMULATOR, MODE_RELATIVE:
		return false
	}
	return true
}

// Resolve computes the effective address of an operand.
// The Pc must point at the first operand byte; it is not modified.
//
// Resolving a mode that has no memory address is an internal error, and panics.
func (cpu *Cpu) Resolve(mode Mode) (addr uint16) {
	mem := &cpu.Memory
	pc := cpu.Pc

	switch mode {
	case MODE_IMMEDIATE:
		addr = pc
	case MODE_ZEROPAGE:
		addr = uint16(mem.Read(pc))
	case MODE_ZEROPAGE_X:
		addr = uint16(mem.Read(pc) + cpu.X)
	case MODE_ZEROPAGE_Y:
		addr = uint16(mem.Read(pc) + cpu.Y)
	case MODE_ABSOLUTE:
		addr = mem.ReadWord(pc)
	case MODE_ABSOLUTE_X:
		addr = mem.ReadWord(pc) + uint16(cpu.X)
	case MODE_ABSOLUTE_Y:
		addr = mem.ReadWord(pc) + uint16(cpu.Y)
	case MODE_INDIRECT_X:
		addr = mem.ReadZeroPageWord(mem.Read(pc) + cpu.X)
	case MODE_INDIRECT_Y:
		addr = mem.ReadZeroPageWord(mem.Read(pc)) + uint16(cpu.Y)
	case MODE_RELATIVE:
		// Displacement is relative to the Pc after the operand byte.
		addr = pc + 1 + uint16(int8(mem.Read(pc)))
	default:
		panic(ErrInvalidAddressingMode)
	}

	return
}
