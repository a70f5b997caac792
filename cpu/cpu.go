// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

const (
	ORIGIN_DEFAULT = uint16(0x8000) // Default program load address.
	RESET_VECTOR   = uint16(0xFFFC) // Location of the little-endian reset vector.
)

var _cpu_defines = map[string]string{
	"ORIGIN_DEFAULT": fmt.Sprintf("0x%x", ORIGIN_DEFAULT),
	"RESET_VECTOR":   fmt.Sprintf("0x%x", RESET_VECTOR),
	"ZERO_PAGE":      fmt.Sprintf("0x%x", ZERO_PAGE),
}

// State is the execution engine state.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_HALTED  = State(0) // halted
	STATE_RUNNING = State(1) // running
	STATE_FAULTED = State(2) // faulted
)

// Cpu is the simulation context for a single 6502 style processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	A      uint8  // Accumulator.
	X      uint8  // X index register.
	Y      uint8  // Y index register.
	Status Status // Status register.
	Pc     uint16 // Program counter.

	Memory Memory // Flat address space.

	State State // Execution state.
	Fault error // Error that moved the CPU to STATE_FAULTED.

	Steps  int // Instructions executed since reset.
	Cycles int // Base cycles consumed since reset.
}

// NewCpu creates a new CPU with zeroed registers and memory.
// The CPU is halted until Reset is called.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Status: STATUS_IDLE,
		State:  STATE_HALTED,
	}

	return
}

// Defines returns the CPU constants, for use as assembler equates.
func Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "a", "x", "y", "sr", "state"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%04X", cpu.Pc)
		case "a":
			strval = fmt.Sprintf("%02X", cpu.A)
		case "x":
			strval = fmt.Sprintf("%02X", cpu.X)
		case "y":
			strval = fmt.Sprintf("%02X", cpu.Y)
		case "sr":
			strval = fmt.Sprintf("%02X %v", uint8(cpu.Status), cpu.Status)
		case "state":
			strval = cpu.State.String()
			if cpu.Fault != nil {
				strval += fmt.Sprintf(" (%v)", cpu.Fault)
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// ReadMemory returns the byte at addr.
func (cpu *Cpu) ReadMemory(addr uint16) uint8 {
	return cpu.Memory.Read(addr)
}

// WriteMemory stores a byte at addr.
func (cpu *Cpu) WriteMemory(addr uint16, value uint8) {
	cpu.Memory.Write(addr, value)
}

// ReadWord returns the little-endian word at addr.
func (cpu *Cpu) ReadWord(addr uint16) uint16 {
	return cpu.Memory.ReadWord(addr)
}

// WriteWord stores a little-endian word at addr.
func (cpu *Cpu) WriteWord(addr uint16, value uint16) {
	cpu.Memory.WriteWord(addr, value)
}

// Load copies a program image into memory at origin, and points the reset
// vector at it. On error the CPU state is left unmodified.
func (cpu *Cpu) Load(program []uint8, origin uint16) (err error) {
	if int(origin)+len(program) > 0xFFFF {
		err = ErrProgramTooLarge{Origin: origin, Length: len(program)}
		return
	}

	copy(cpu.Memory[origin:], program)
	cpu.WriteWord(RESET_VECTOR, origin)

	if cpu.Verbose {
		log.Printf("cpu: load $%X bytes at $%04X", len(program), origin)
	}

	return
}

// Reset the CPU state.
// - Clears A, X and Y.
// - Sets the status register to its idle value.
// - Loads the Pc from the reset vector.
// - Zeros statistics counters.
//
// Memory is not modified.
func (cpu *Cpu) Reset() {
	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.Status = STATUS_IDLE
	cpu.Pc = cpu.ReadWord(RESET_VECTOR)

	cpu.State = STATE_RUNNING
	cpu.Fault = nil
	cpu.Steps = 0
	cpu.Cycles = 0

	if cpu.Verbose {
		log.Printf("cpu: reset, pc $%04X", cpu.Pc)
	}
}

// Step executes a single instruction.
//
// A halted CPU returns ErrCpuHalted; a faulted CPU returns its fault.
// Fetching an unimplemented opcode faults the CPU, leaving the Pc at the
// offending opcode.
func (cpu *Cpu) Step() (err error) {
	switch cpu.State {
	case STATE_HALTED:
		err = ErrCpuHalted
		return
	case STATE_FAULTED:
		err = cpu.Fault
		return
	}

	pc := cpu.Pc
	opcode := cpu.Memory.Read(pc)

	desc, err := Lookup(opcode, pc)
	if err != nil {
		cpu.State = STATE_FAULTED
		cpu.Fault = err
		if cpu.Verbose {
			log.Printf("cpu: %04X: fault: %v", pc, err)
		}
		return
	}

	if cpu.Verbose {
		text, _ := Disassemble(&cpu.Memory, pc)
		log.Printf("cpu: %04X: %-12v a=%02X x=%02X y=%02X sr=%v", pc, text, cpu.A, cpu.X, cpu.Y, cpu.Status)
	}

	cpu.Pc++

	var addr uint16
	if desc.Mode.NeedsAddress() {
		addr = cpu.Resolve(desc.Mode)
	}

	jumped := cpu.execute(desc, addr)
	if !jumped {
		cpu.Pc += uint16(desc.Length - 1)
	}

	cpu.Steps++
	cpu.Cycles += desc.Cycles

	return
}

// Run executes instructions until the CPU halts or faults.
//
// Run returns nil on halt, and the fault on a fault. There is no limit on
// the number of instructions executed; see emulator.Emulator for a bounded
// run.
func (cpu *Cpu) Run() (err error) {
	switch cpu.State {
	case STATE_HALTED:
		err = ErrCpuHalted
		return
	case STATE_FAULTED:
		err = cpu.Fault
		return
	}

	for cpu.State == STATE_RUNNING {
		err = cpu.Step()
		if err != nil {
			return
		}
	}

	if cpu.Verbose {
		log.Printf("cpu: %v after %v steps", cpu.State, cpu.Steps)
	}

	return
}

// LoadAndRun loads a program at origin, resets the CPU and runs it.
func (cpu *Cpu) LoadAndRun(program []uint8, origin uint16) (err error) {
	err = cpu.Load(program, origin)
	if err != nil {
		return
	}

	cpu.Reset()

	err = cpu.Run()

	return
}
