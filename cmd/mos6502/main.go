// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/ezrec/mos6502/cpu"
	"github.com/ezrec/mos6502/emulator"
	"github.com/ezrec/mos6502/monitor"
)

// console joins stdin and stdout for the monitor.
type console struct {
	io.Reader
	io.Writer
}

func main() {
	var compile string
	var binary string
	var origin string
	var maxSteps int
	var interactive bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&binary, "b", "", "Binary image to load")
	flag.StringVar(&origin, "o", fmt.Sprintf("$%04X", cpu.ORIGIN_DEFAULT), "Load origin")
	flag.IntVar(&maxSteps, "n", emulator.MAX_STEPS_DEFAULT, "Maximum instructions to run, 0 for no limit")
	flag.BoolVar(&interactive, "m", false, "Enter the monitor instead of running")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(binary) != 0 {
		log.Fatalf("%v: -c and -b are exclusive", os.Args[0])
	}

	load, err := cpu.ParseNumber(origin)
	if err != nil || load < 0 || load > 0xFFFF {
		log.Fatalf("%v: -o %v: origin out of range", os.Args[0], origin)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Origin = uint16(load)
	emu.MaxSteps = maxSteps

	// Assemble a new program.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	// Load a raw binary image.
	if len(binary) != 0 {
		image, err := os.ReadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
		emu.Program = cpu.NewProgram(emu.Origin, image)
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if interactive {
		mon := monitor.NewMonitor(emu)
		mon.Verbose = verbose

		fd := int(os.Stdin.Fd())
		if term.IsTerminal(fd) {
			state, err := term.MakeRaw(fd)
			if err != nil {
				log.Fatalf("%v: %v", os.Args[0], err)
			}
			defer term.Restore(fd, state)
		}

		err = mon.Serve(console{Reader: os.Stdin, Writer: os.Stdout})
		if err != nil {
			log.Printf("%v: %v", os.Args[0], err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = emu.Run(ctx)
	fmt.Print(emu.Cpu.String())
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}
