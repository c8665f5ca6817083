// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/x87/fpu"
	"github.com/ezrec/x87/internal"
)

var _emulator_defines = map[string]int{
	"CW_DEFAULT": int(fpu.DefaultControlWord),

	"RC_NEAREST": 0b00 << 10,
	"RC_DOWN":    0b01 << 10,
	"RC_UP":      0b10 << 10,
	"RC_ZERO":    0b11 << 10,

	"PC_24": 0b00 << 8,
	"PC_53": 0b10 << 8,
	"PC_64": 0b11 << 8,

	"IE": int(fpu.InvalidOperation),
	"DE": int(fpu.DenormalOperand),
	"ZE": int(fpu.ZeroDivide),
	"OE": int(fpu.Overflow),
	"UE": int(fpu.Underflow),
	"PE": int(fpu.Inexact),
	"SF": 1 << 6,
	"ES": 1 << 7,

	"C0": 1 << 8,
	"C1": 1 << 9,
	"C2": 1 << 10,
	"C3": 1 << 14,
}

// Emulator drives one floating point context from Starlark scripts. Each
// builtin performs one register-form operation.
type Emulator struct {
	Verbose  bool      // If set, enables verbose logging.
	*fpu.Fpu           // Reference to the FPU context.
	Output   io.Writer // Destination of print() and dump().

	globals starlark.StringDict // Globals kept between runs.
}

// NewEmulator creates a new emulator, with a reset FPU.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Fpu:     fpu.NewFpu(),
		Output:  os.Stdout,
		globals: starlark.StringDict{},
	}

	return
}

// Defines returns an iterator over the predeclared integer constants.
func (emu *Emulator) Defines() iter.Seq2[string, int] {
	return maps.All(_emulator_defines)
}

// Reset the FPU and forget script globals.
func (emu *Emulator) Reset() {
	emu.Fpu.Verbose = emu.Verbose
	emu.Fpu.Reset()
	emu.globals = starlark.StringDict{}
}

func (emu *Emulator) thread(name string) *starlark.Thread {
	return &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(emu.Output, msg)
		},
	}
}

// predeclared gathers the names visible to a script. Script globals shadow
// builtins, which shadow defines.
func (emu *Emulator) predeclared() starlark.StringDict {
	var defines iter.Seq2[string, starlark.Value] = func(yield func(string, starlark.Value) bool) {
		for name, value := range emu.Defines() {
			if !yield(name, starlark.MakeInt(value)) {
				return
			}
		}
	}

	return maps.Collect(internal.Chain2(defines, maps.All(emu.builtins()), maps.All(emu.globals)))
}

// Run executes the script src, named filename. Globals it defines stay
// visible to later runs until Reset.
func (emu *Emulator) Run(filename string, src any) (err error) {
	emu.Fpu.Verbose = emu.Verbose
	if emu.Verbose {
		log.Printf("emulator: run %v", filename)
	}

	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, emu.thread(filename), filename, src, emu.predeclared())
	maps.Copy(emu.globals, globals)
	if err != nil {
		return runtimeError(err)
	}

	return
}

// Eval evaluates one line: an expression yields its value, anything else is
// run as a statement and yields None.
func (emu *Emulator) Eval(line string) (value starlark.Value, err error) {
	emu.Fpu.Verbose = emu.Verbose

	value, err = starlark.EvalOptions(&syntax.FileOptions{}, emu.thread("<stdin>"), "<stdin>", line, emu.predeclared())
	var serr syntax.Error
	if errors.As(err, &serr) {
		return starlark.None, emu.Run("<stdin>", line)
	}
	if err != nil {
		return nil, runtimeError(err)
	}

	return
}

// SetRounding selects the rounding mode by name: nearest, down, up or zero.
func (emu *Emulator) SetRounding(name string) (err error) {
	for rc := range fpu.RoundingMode(4) {
		if rc.String() == name {
			emu.Control.Rounding = rc
			return
		}
	}
	return ErrName(name)
}

// SetPrecision selects the precision by name: single, double or extended.
func (emu *Emulator) SetPrecision(name string) (err error) {
	for pc := range fpu.Precision(3) {
		if pc.String() == name {
			emu.Control.Precision = pc
			return
		}
	}
	return ErrName(name)
}

// SetMask masks or unmasks the named exception. The name "all" selects
// every exception.
func (emu *Emulator) SetMask(name string, masked bool) (err error) {
	ex, ok := fpu.ExceptionByName(name)
	if name == "all" {
		ex, ok = fpu.AllExceptions, true
	}
	if !ok {
		return ErrName(name)
	}

	if masked {
		emu.Control.Masks |= ex
	} else {
		emu.Control.Masks &^= ex
	}
	return
}

// runtimeError attaches a line number to a script failure.
func runtimeError(err error) error {
	var rerr *ErrRuntime
	if errors.As(err, &rerr) {
		return rerr
	}

	var serr syntax.Error
	if errors.As(err, &serr) {
		return &ErrRuntime{LineNo: int(serr.Pos.Line), Err: err}
	}

	var eerr *starlark.EvalError
	if errors.As(err, &eerr) {
		for n := len(eerr.CallStack) - 1; n >= 0; n-- {
			if line := eerr.CallStack[n].Pos.Line; line > 0 {
				return &ErrRuntime{LineNo: int(line), Err: err}
			}
		}
	}

	return &ErrRuntime{Err: err}
}
