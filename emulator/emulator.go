// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/mos6502/cpu"
	"github.com/ezrec/mos6502/internal"
)

const (
	MAX_STEPS_DEFAULT = 1000000 // Default step limit for Run.
)

// Emulator state. CPU, the installed program, and run limits.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently installed program listing.

	Origin   uint16 // Assembly origin for sources without a .org directive.
	MaxSteps int    // Step limit for Run, or 0 for no limit.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:      cpu.NewCpu(),
		Program:  cpu.NewProgram(cpu.ORIGIN_DEFAULT, nil),
		Origin:   cpu.ORIGIN_DEFAULT,
		MaxSteps: MAX_STEPS_DEFAULT,
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	emulator_defines := map[string]string{
		"ORIGIN":    fmt.Sprintf("0x%x", emu.Origin),
		"MAX_STEPS": fmt.Sprintf("%v", emu.MaxSteps),
	}

	return internal.IterSeq2Concat(maps.All(emulator_defines),
		cpu.Defines(),
	)
}

// Assemble parses assembly source into the emulator's program.
// The emulator defines are available to the source as equates.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range internal.IterSeq2Sorted(emu.Defines()) {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: assembled %v opcodes at $%04X", len(prog.Opcodes), prog.Origin)
	}

	emu.Program = prog

	return
}

// Reset installs the program into memory and resets the CPU.
func (emu *Emulator) Reset() (err error) {
	if emu.Program == nil {
		err = ErrNoProgram
		return
	}

	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.Load(emu.Program.Binary(), emu.Program.Origin)
	if err != nil {
		return
	}

	emu.Cpu.Reset()

	return
}

// Steps returns the total instructions executed since a reset.
func (emu *Emulator) Steps() int {
	return emu.Cpu.Steps
}

// Cycles returns the total base cycles consumed since a reset.
func (emu *Emulator) Cycles() int {
	return emu.Cpu.Cycles
}

// LineNo returns the source line number for the instruction at the Pc,
// or 0 if the Pc is outside of the program listing.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction step of the emulator.
// done is set once the CPU has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.State == cpu.STATE_HALTED {
		done = true
		return
	}

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Addr: pc, Err: err}
		}
	}()

	err = emu.Cpu.Step()
	if err != nil {
		return
	}

	done = emu.Cpu.State == cpu.STATE_HALTED

	return
}

// Run ticks the emulator until the CPU halts or faults, the context is
// done, or MaxSteps instructions have been executed.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for steps := 0; ; steps++ {
		if emu.MaxSteps > 0 && steps >= emu.MaxSteps {
			err = &ErrRuntime{LineNo: emu.LineNo(), Addr: emu.Cpu.Pc, Err: ErrStepLimit}
			return
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			break
		}
	}

	if emu.Verbose {
		log.Printf("emulator: %v after %v steps, %v cycles", emu.Cpu.State, emu.Cpu.Steps, emu.Cpu.Cycles)
	}

	return
}
