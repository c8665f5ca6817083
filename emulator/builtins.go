package emulator

import (
	"fmt"
	"log"
	"math"

	"go.starlark.net/starlark"

	"github.com/ezrec/x87/fpu"
)

type builtinFunc func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

type arithFunc func(f *fpu.Fpu, a, b fpu.Value, dest int) (fpu.Completion, error)

func reversed(op arithFunc) arithFunc {
	return func(f *fpu.Fpu, a, b fpu.Value, dest int) (fpu.Completion, error) {
		return op(f, b, a, dest)
	}
}

var _arith_ops = map[string]arithFunc{
	"fadd":  (*fpu.Fpu).Add,
	"fsub":  (*fpu.Fpu).Sub,
	"fsubr": reversed((*fpu.Fpu).Sub),
	"fmul":  (*fpu.Fpu).Mul,
	"fdiv":  (*fpu.Fpu).Div,
	"fdivr": reversed((*fpu.Fpu).Div),
}

// register validates a logical register index.
func register(i int) (err error) {
	if i < 0 || i >= fpu.STACK_DEPTH {
		err = fmt.Errorf("%w: st(%d)", ErrRegister, i)
	}
	return
}

// operand decodes an instruction operand: an int names a register, a float
// is an immediate memory operand.
func operand(x starlark.Value) (reg int, imm fpu.Value, isReg bool, err error) {
	switch x := x.(type) {
	case starlark.Int:
		n, ok := x.Int64()
		if !ok || n < 0 || n >= fpu.STACK_DEPTH {
			err = fmt.Errorf("%w: st(%v)", ErrRegister, x)
			return
		}
		reg, isReg = int(n), true
	case starlark.Float:
		imm = fpu.FromFloat64(float64(x))
	default:
		err = fmt.Errorf("%w: got %v", ErrOperand, x.Type())
	}
	return
}

// builtin wraps fn so its failures carry the calling line.
func (emu *Emulator) builtin(name string, fn builtinFunc) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
		value, err = fn(thread, args, kwargs)
		if err != nil {
			err = &ErrRuntime{LineNo: int(thread.CallFrame(1).Pos.Line), Err: err}
			if emu.Verbose {
				log.Printf("emulator: %v: %v", name, err)
			}
		}
		return
	})
}

// noArgs builds a builtin for an operation without operands.
func (emu *Emulator) noArgs(name string, fn func() error) *starlark.Builtin {
	return emu.builtin(name, func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackArgs(name, args, kwargs); err != nil {
			return nil, err
		}
		return starlark.None, fn()
	})
}

// regArg builds a builtin taking one register index, defaulting to def.
func (emu *Emulator) regArg(name string, def int, fn func(i int) error) *starlark.Builtin {
	return emu.builtin(name, func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		i := def
		if err := starlark.UnpackArgs(name, args, kwargs, "i?", &i); err != nil {
			return nil, err
		}
		if err := register(i); err != nil {
			return nil, err
		}
		return starlark.None, fn(i)
	})
}

// arith builds the two-operand form: ST(0) op ST(i) or ST(0) op imm into
// ST(0), or ST(i) op ST(0) into ST(i) when to is set.
func (emu *Emulator) arith(name string, op arithFunc) *starlark.Builtin {
	return emu.builtin(name, func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var x starlark.Value = starlark.MakeInt(1)
		var to bool
		if err := starlark.UnpackArgs(name, args, kwargs, "x?", &x, "to?", &to); err != nil {
			return nil, err
		}
		reg, imm, isReg, err := operand(x)
		if err != nil {
			return nil, err
		}

		switch {
		case !isReg && to:
			return nil, fmt.Errorf("%w: cannot store to an immediate", ErrOperand)
		case !isReg:
			_, err = op(emu.Fpu, emu.ST(0), imm, 0)
		case to:
			_, err = op(emu.Fpu, emu.ST(reg), emu.ST(0), reg)
		default:
			_, err = op(emu.Fpu, emu.ST(0), emu.ST(reg), 0)
		}
		return starlark.None, err
	})
}

// arithPop builds the pop form: ST(i) op ST(0) into ST(i), then pop.
func (emu *Emulator) arithPop(name string, op arithFunc) *starlark.Builtin {
	return emu.builtin(name, func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var x starlark.Value = starlark.MakeInt(1)
		if err := starlark.UnpackArgs(name, args, kwargs, "i?", &x); err != nil {
			return nil, err
		}
		reg, _, isReg, err := operand(x)
		if err != nil {
			return nil, err
		}
		if !isReg {
			return nil, ErrPopForm
		}

		c, err := op(emu.Fpu, emu.ST(reg), emu.ST(0), reg)
		if c.Pop() {
			emu.Fpu.Pop()
		}
		return starlark.None, err
	})
}

// compare builds fcom and fucom, popping count times on completion.
func (emu *Emulator) compare(name string, quiet bool, count int) *starlark.Builtin {
	return emu.builtin(name, func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var x starlark.Value = starlark.MakeInt(1)
		if count == 2 {
			if err := starlark.UnpackArgs(name, args, kwargs); err != nil {
				return nil, err
			}
		} else if err := starlark.UnpackArgs(name, args, kwargs, "x?", &x); err != nil {
			return nil, err
		}
		reg, imm, isReg, err := operand(x)
		if err != nil {
			return nil, err
		}
		if isReg {
			imm = emu.ST(reg)
		}

		if err = emu.Compare(emu.ST(0), imm, quiet); err != nil {
			return nil, err
		}
		for range count {
			emu.Fpu.Pop()
		}
		return starlark.None, nil
	})
}

func (emu *Emulator) builtins() (pred starlark.StringDict) {
	pred = starlark.StringDict{
		"finit": emu.noArgs("finit", func() error { emu.Fpu.Reset(); return nil }),
		"fclex": emu.noArgs("fclex", func() error { emu.ClearExceptions(); return nil }),

		"fld":      emu.builtin("fld", emu.fld),
		"fld_bits": emu.builtin("fld_bits", emu.fldBits),
		"fldconst": emu.builtin("fldconst", emu.fldConst),

		"fxch":    emu.regArg("fxch", 1, emu.Exchange),
		"ffree":   emu.regArg("ffree", 0, func(i int) error { emu.Free(i); return nil }),
		"ffreep":  emu.regArg("ffreep", 0, func(i int) error { emu.FreeAndPop(i); return nil }),
		"fst":     emu.regArg("fst", 0, emu.Store),
		"fstp":    emu.regArg("fstp", 0, emu.StoreAndPop),
		"fincstp": emu.noArgs("fincstp", func() error { emu.IncrementTop(); return nil }),
		"fdecstp": emu.noArgs("fdecstp", func() error { emu.DecrementTop(); return nil }),
		"fchs":    emu.noArgs("fchs", emu.ChangeSign),
		"fabs":    emu.noArgs("fabs", emu.Abs),

		"fcom":    emu.compare("fcom", false, 0),
		"fcomp":   emu.compare("fcomp", false, 1),
		"fcompp":  emu.compare("fcompp", false, 2),
		"fucom":   emu.compare("fucom", true, 0),
		"fucomp":  emu.compare("fucomp", true, 1),
		"fucompp": emu.compare("fucompp", true, 2),
		"fxam":    emu.noArgs("fxam", func() error { emu.Examine(); return nil }),

		"fyl2x":   emu.noArgs("fyl2x", func() (err error) { _, err = emu.Yl2x(); return }),
		"fyl2xp1": emu.noArgs("fyl2xp1", func() (err error) { _, err = emu.Yl2xp1(); return }),

		"st":            emu.builtin("st", emu.st),
		"st_bits":       emu.builtin("st_bits", emu.stBits),
		"tag":           emu.builtin("tag", emu.tag),
		"top":           emu.builtin("top", emu.top),
		"status":        emu.builtin("status", emu.status),
		"control":       emu.builtin("control", emu.control),
		"flags":         emu.builtin("flags", emu.flags),
		"cond":          emu.builtin("cond", emu.cond),
		"set_control":   emu.builtin("set_control", emu.setControl),
		"set_rounding":  emu.builtin("set_rounding", emu.setRounding),
		"set_precision": emu.builtin("set_precision", emu.setPrecision),
		"set_zero_sign": emu.builtin("set_zero_sign", emu.setZeroSign),
		"mask":          emu.builtin("mask", emu.masking("mask", true)),
		"unmask":        emu.builtin("unmask", emu.masking("unmask", false)),
		"dump":          emu.builtin("dump", emu.dump),
	}

	for name, op := range _arith_ops {
		pred[name] = emu.arith(name, op)
		pred[name+"p"] = emu.arithPop(name+"p", op)
	}

	return
}

// fld pushes ST(i) for an int operand, or an immediate for a float.
func (emu *Emulator) fld(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x starlark.Value
	if err := starlark.UnpackArgs("fld", args, kwargs, "x", &x); err != nil {
		return nil, err
	}
	reg, imm, isReg, err := operand(x)
	if err != nil {
		return nil, err
	}
	if isReg {
		return starlark.None, emu.Load(reg)
	}
	return starlark.None, emu.Push(imm)
}

// fldBits pushes the value encoded by a sign/exponent word and significand.
func (emu *Emulator) fldBits(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var se int
	var mant starlark.Int
	if err := starlark.UnpackArgs("fld_bits", args, kwargs, "se", &se, "mant", &mant); err != nil {
		return nil, err
	}
	m, ok := mant.Uint64()
	if !ok || se < 0 || se > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %#x:%v", ErrOperand, se, mant)
	}
	return starlark.None, emu.Push(fpu.FromBits(uint16(se), m))
}

func (emu *Emulator) fldConst(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs("fldconst", args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	c, ok := fpu.ConstantByName(name)
	if !ok {
		return nil, ErrName(name)
	}
	return starlark.None, emu.LoadConst(c)
}

// slotArg unpacks an optional register index, defaulting to ST(0).
func slotArg(name string, args starlark.Tuple, kwargs []starlark.Tuple) (i int, err error) {
	if err = starlark.UnpackArgs(name, args, kwargs, "i?", &i); err != nil {
		return
	}
	err = register(i)
	return
}

// st returns ST(i) as a float, or None when Empty.
func (emu *Emulator) st(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	i, err := slotArg("st", args, kwargs)
	if err != nil {
		return nil, err
	}
	v := emu.ST(i)
	if v.Tag == fpu.TagEmpty {
		return starlark.None, nil
	}
	return starlark.Float(v.Float64()), nil
}

// stBits returns ST(i) as a (se, mant) tuple.
func (emu *Emulator) stBits(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	i, err := slotArg("st_bits", args, kwargs)
	if err != nil {
		return nil, err
	}
	se, mant := emu.ST(i).Bits()
	return starlark.Tuple{starlark.MakeInt(int(se)), starlark.MakeUint64(mant)}, nil
}

func (emu *Emulator) tag(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	i, err := slotArg("tag", args, kwargs)
	if err != nil {
		return nil, err
	}
	return starlark.String(emu.ST(i).Tag.String()), nil
}

func (emu *Emulator) top(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("top", args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(emu.Top()), nil
}

func (emu *Emulator) status(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("status", args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(emu.ExportStatus())), nil
}

func (emu *Emulator) control(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("control", args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(emu.Control.Word())), nil
}

func (emu *Emulator) flags(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("flags", args, kwargs); err != nil {
		return nil, err
	}
	return starlark.String(emu.Status.Flags.String()), nil
}

func (emu *Emulator) cond(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("cond", args, kwargs); err != nil {
		return nil, err
	}
	return starlark.String(emu.Status.Cond.String()), nil
}

func (emu *Emulator) setControl(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var w int
	if err := starlark.UnpackArgs("set_control", args, kwargs, "w", &w); err != nil {
		return nil, err
	}
	if w < 0 || w > math.MaxUint16 {
		return nil, fmt.Errorf("%w: control word %#x", ErrOperand, w)
	}
	emu.Control.SetWord(uint16(w))
	return starlark.None, nil
}

func (emu *Emulator) setRounding(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs("set_rounding", args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	return starlark.None, emu.SetRounding(name)
}

func (emu *Emulator) setPrecision(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs("set_precision", args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	return starlark.None, emu.SetPrecision(name)
}

func (emu *Emulator) setZeroSign(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs("set_zero_sign", args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	switch name {
	case "xor":
		emu.Control.ZeroProductSign = fpu.ZeroSignXor
	case "positive":
		emu.Control.ZeroProductSign = fpu.ZeroSignPositive
	default:
		return nil, ErrName(name)
	}
	return starlark.None, nil
}

// masking sets or clears exception masks by name; "all" names every kind.
func (emu *Emulator) masking(name string, set bool) builtinFunc {
	return func(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) != 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", name)
		}
		for _, arg := range args {
			s, ok := starlark.AsString(arg)
			if !ok {
				return nil, fmt.Errorf("%w: got %v", ErrOperand, arg.Type())
			}
			if err := emu.SetMask(s, set); err != nil {
				return nil, err
			}
		}
		return starlark.None, nil
	}
}

func (emu *Emulator) dump(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("dump", args, kwargs); err != nil {
		return nil, err
	}
	_, err := fmt.Fprint(emu.Output, emu.Fpu.String())
	return starlark.None, err
}
