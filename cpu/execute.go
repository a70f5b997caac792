package cpu

// execute applies the semantics of a decoded instruction.
// addr is the resolved effective address, if the mode has one.
// Returns true if the instruction set the Pc itself.
func (cpu *Cpu) execute(desc Descriptor, addr uint16) (jumped bool) {
	sr := &cpu.Status
	mem := &cpu.Memory

	switch desc.Kind {
	case INS_BRK:
		cpu.State = STATE_HALTED
	case INS_LDA:
		cpu.A = mem.Read(addr)
		sr.UpdateZeroAndNegative(cpu.A)
	case INS_STA:
		mem.Write(addr, cpu.A)
	case INS_TAX:
		cpu.X = cpu.A
		sr.UpdateZeroAndNegative(cpu.X)
	case INS_INX:
		cpu.X++
		sr.UpdateZeroAndNegative(cpu.X)
	case INS_INY:
		cpu.Y++
		sr.UpdateZeroAndNegative(cpu.Y)
	case INS_AND:
		cpu.A &= mem.Read(addr)
		sr.UpdateZeroAndNegative(cpu.A)
	case INS_ADC:
		cpu.A = cpu.adc(cpu.A, mem.Read(addr))
	case INS_ASL:
		if desc.Mode == MODE_ACCUMULATOR {
			cpu.A = cpu.asl(cpu.A)
		} else {
			mem.Write(addr, cpu.asl(mem.Read(addr)))
		}
	case INS_BIT:
		value := mem.Read(addr)
		sr.Put(FLAG_ZERO, cpu.A&value == 0)
		sr.Put(FLAG_NEGATIVE, value&0x80 != 0)
		sr.Put(FLAG_OVERFLOW, value&0x40 != 0)
	case INS_BCC:
		jumped = cpu.branch(!sr.Test(FLAG_CARRY))
	case INS_BCS:
		jumped = cpu.branch(sr.Test(FLAG_CARRY))
	case INS_BEQ:
		jumped = cpu.branch(sr.Test(FLAG_ZERO))
	case INS_BNE:
		jumped = cpu.branch(!sr.Test(FLAG_ZERO))
	case INS_BMI:
		jumped = cpu.branch(sr.Test(FLAG_NEGATIVE))
	case INS_BPL:
		jumped = cpu.branch(!sr.Test(FLAG_NEGATIVE))
	case INS_BVC:
		jumped = cpu.branch(!sr.Test(FLAG_OVERFLOW))
	case INS_BVS:
		jumped = cpu.branch(sr.Test(FLAG_OVERFLOW))
	case INS_CLC:
		sr.Clear(FLAG_CARRY)
	case INS_CLD:
		sr.Clear(FLAG_DECIMAL)
	case INS_CLI:
		sr.Clear(FLAG_INTERRUPT)
	case INS_CLV:
		sr.Clear(FLAG_OVERFLOW)
	default:
		panic(ErrInvalidInstruction)
	}

	return
}

// adc adds value and the carry to a in binary mode, updating C, V, Z and N.
// The decimal flag is ignored.
func (cpu *Cpu) adc(a uint8, value uint8) (result uint8) {
	sr := &cpu.Status

	sum := uint16(a) + uint16(value)
	if sr.Test(FLAG_CARRY) {
		sum++
	}
	result = uint8(sum)

	sr.Put(FLAG_CARRY, sum > 0xff)
	// Signed overflow: both inputs share a sign that the result does not.
	sr.Put(FLAG_OVERFLOW, (a^value)&0x80 == 0 && (a^result)&0x80 != 0)
	sr.UpdateZeroAndNegative(result)

	return
}

// asl shifts value left one bit; bit 7 moves into the carry.
func (cpu *Cpu) asl(value uint8) (result uint8) {
	sr := &cpu.Status

	sr.Put(FLAG_CARRY, value&0x80 != 0)
	result = value << 1
	sr.UpdateZeroAndNegative(result)

	return
}

// branch moves the Pc to the relative target when taken.
func (cpu *Cpu) branch(taken bool) (jumped bool) {
	if !taken {
		return
	}

	cpu.Pc = cpu.Resolve(MODE_RELATIVE)
	jumped = true

	return
}
