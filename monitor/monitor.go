// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package monitor is an interactive line monitor for the emulator.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/term"

	"github.com/ezrec/mos6502/cpu"
	"github.com/ezrec/mos6502/emulator"
)

const (
	PROMPT = "6502> " // Command prompt.

	DUMP_LENGTH_DEFAULT   = 0x40 // Default 'm' length in bytes.
	LISTING_COUNT_DEFAULT = 8    // Default 'd' length in instructions.
	STEP_COUNT_MAX        = 1 << 20
)

var helpText = []string{
	"s [N]            step N instructions (default 1)",
	"r                run until halt or fault",
	"g ADDR           set the PC and resume",
	"x                show registers",
	"m ADDR [LEN]     dump memory",
	"w ADDR BYTE...   write memory",
	"d [ADDR] [N]     disassemble N instructions (default at PC)",
	"reset            reinstall the program and reset the CPU",
	"q                quit",
}

// Monitor drives an emulator from text commands.
type Monitor struct {
	Verbose  bool               // If set, logs each command.
	Emulator *emulator.Emulator // Emulator under control.
}

// NewMonitor creates a monitor for an emulator.
func NewMonitor(emu *emulator.Emulator) (mon *Monitor) {
	mon = &Monitor{
		Emulator: emu,
	}

	return
}

// Serve runs an interactive session on rw until 'q' or end of input.
func (mon *Monitor) Serve(rw io.ReadWriter) (err error) {
	t := term.NewTerminal(rw, PROMPT)

	for {
		var line string
		line, err = t.ReadLine()
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		quit, cmd_err := mon.Command(t, line)
		if cmd_err != nil {
			fmt.Fprintf(t, "error: %v\n", cmd_err)
		}
		if quit {
			return
		}
	}
}

// parseValue parses a numeric argument, checking it is in [0, limit].
func parseValue(word string, limit int) (value int, err error) {
	value, err = cpu.ParseNumber(word)
	if err != nil {
		return
	}

	if value < 0 || value > limit {
		err = errors.Join(ErrArgumentRange, cpu.ErrParseNumber(word))
		return
	}

	return
}

// Command executes a single monitor command line, writing its output to w.
func (mon *Monitor) Command(w io.Writer, line string) (quit bool, err error) {
	emu := mon.Emulator

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	if mon.Verbose {
		log.Printf("monitor: %v", words)
	}

	args := words[1:]
	argc := func(least, most int) error {
		if len(args) < least {
			return ErrArgumentMissing
		}
		if len(args) > most {
			return ErrArgumentExtra
		}
		return nil
	}

	switch strings.ToLower(words[0]) {
	case "h", "help", "?":
		for _, text := range helpText {
			fmt.Fprintln(w, text)
		}
	case "q", "quit":
		quit = true
	case "x":
		if err = argc(0, 0); err != nil {
			return
		}
		fmt.Fprint(w, emu.Cpu.String())
	case "s":
		if err = argc(0, 1); err != nil {
			return
		}
		count := 1
		if len(args) == 1 {
			count, err = parseValue(args[0], STEP_COUNT_MAX)
			if err != nil {
				return
			}
		}
		for range count {
			fmt.Fprintln(w, cpu.Listing(&emu.Cpu.Memory, emu.Cpu.Pc, 1)[0])
			var done bool
			done, err = emu.Tick()
			if err != nil {
				return
			}
			if done {
				fmt.Fprintln(w, emu.Cpu.State)
				break
			}
		}
	case "r":
		if err = argc(0, 0); err != nil {
			return
		}
		err = emu.Run(context.Background())
		fmt.Fprint(w, emu.Cpu.String())
	case "g":
		if err = argc(1, 1); err != nil {
			return
		}
		var addr int
		addr, err = parseValue(args[0], 0xFFFF)
		if err != nil {
			return
		}
		emu.Cpu.Pc = uint16(addr)
		emu.Cpu.State = cpu.STATE_RUNNING
		emu.Cpu.Fault = nil
	case "m":
		if err = argc(1, 2); err != nil {
			return
		}
		var addr int
		addr, err = parseValue(args[0], 0xFFFF)
		if err != nil {
			return
		}
		length := DUMP_LENGTH_DEFAULT
		if len(args) == 2 {
			length, err = parseValue(args[1], cpu.MEMORY_SIZE)
			if err != nil {
				return
			}
		}
		dump(w, &emu.Cpu.Memory, uint16(addr), length)
	case "w":
		if err = argc(2, 0x100); err != nil {
			return
		}
		var addr int
		addr, err = parseValue(args[0], 0xFFFF)
		if err != nil {
			return
		}
		values := make([]uint8, len(args)-1)
		for n, word := range args[1:] {
			var value int
			value, err = parseValue(word, 0xFF)
			if err != nil {
				return
			}
			values[n] = uint8(value)
		}
		for n, value := range values {
			emu.WriteMemory(uint16(addr+n), value)
		}
	case "d":
		if err = argc(0, 2); err != nil {
			return
		}
		addr := int(emu.Cpu.Pc)
		if len(args) > 0 {
			addr, err = parseValue(args[0], 0xFFFF)
			if err != nil {
				return
			}
		}
		count := LISTING_COUNT_DEFAULT
		if len(args) > 1 {
			count, err = parseValue(args[1], cpu.MEMORY_SIZE)
			if err != nil {
				return
			}
		}
		for _, text := range cpu.Listing(&emu.Cpu.Memory, uint16(addr), count) {
			fmt.Fprintln(w, text)
		}
	case "reset":
		if err = argc(0, 0); err != nil {
			return
		}
		err = emu.Reset()
		if err != nil {
			return
		}
		fmt.Fprintf(w, "pc: %04X\n", emu.Cpu.Pc)
	default:
		err = ErrCommandInvalid(words[0])
	}

	return
}

// dump writes a hex dump of length bytes from addr, 16 bytes per row.
func dump(w io.Writer, mem *cpu.Memory, addr uint16, length int) {
	for row := 0; row < length; row += 16 {
		var line strings.Builder
		fmt.Fprintf(&line, "%04X:", addr+uint16(row))
		for n := row; n < min(row+16, length); n++ {
			fmt.Fprintf(&line, " %02X", mem.Read(addr+uint16(n)))
		}
		fmt.Fprintln(w, line.String())
	}
}
