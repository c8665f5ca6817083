// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"go.starlark.net/starlark"
	"golang.org/x/term"

	"github.com/ezrec/x87/emulator"
	"github.com/ezrec/x87/translate"
)

// repl reads lines from the terminal until EOF, echoing each expression's value.
func repl(emu *emulator.Emulator) (err error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, oldState)

	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	tty := term.NewTerminal(screen, "x87> ")
	emu.Output = tty

	for {
		var line string
		line, err = tty.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		value, err := emu.Eval(line)
		switch {
		case err != nil:
			translate.Fprintf(tty, "%v\n", err)
		case value != starlark.None:
			translate.Fprintf(tty, "%v\n", value)
		}
	}
}

func main() {
	var rounding string
	var precision string
	var unmask string
	var expr string
	var verbose bool

	flag.StringVar(&rounding, "r", "nearest", "Rounding mode (nearest, down, up, zero)")
	flag.StringVar(&precision, "p", "extended", "Precision (single, double, extended)")
	flag.StringVar(&unmask, "x", "", "Comma separated exceptions to unmask")
	flag.StringVar(&expr, "e", "", "Script to run before any file")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Reset()

	if err := emu.SetRounding(rounding); err != nil {
		log.Fatalf("-r: %v", err)
	}
	if err := emu.SetPrecision(precision); err != nil {
		log.Fatalf("-p: %v", err)
	}
	if len(unmask) != 0 {
		for name := range strings.SplitSeq(unmask, ",") {
			if err := emu.SetMask(strings.TrimSpace(name), false); err != nil {
				log.Fatalf("-x: %v", err)
			}
		}
	}

	if len(expr) != 0 {
		if err := emu.Run("-e", expr); err != nil {
			log.Fatalf("-e: %v", err)
		}
	}

	switch {
	case flag.NArg() == 1:
		script := flag.Arg(0)
		inf, err := os.Open(script)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
		defer inf.Close()

		err = emu.Run(script, inf)
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
	case len(expr) != 0:
	case term.IsTerminal(int(os.Stdin.Fd())):
		if err := repl(emu); err != nil {
			log.Fatal(err)
		}
	default:
		err := emu.Run("<stdin>", os.Stdin)
		if err != nil {
			log.Fatalf("<stdin>: %v", err)
		}
	}
}
