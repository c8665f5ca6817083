package fpu

import (
	"log"
)

// Exchange swaps ST(0) and ST(i) (fxch). Each Empty slot underflows; when
// both are Empty and the fault is masked, both receive the indefinite NaN.
func (fpu *Fpu) Exchange(i int) (err error) {
	fpu.Status.Cond &^= C1

	st0, sti := fpu.Slot(0), fpu.Slot(i)
	switch {
	case st0.Tag == TagEmpty && sti.Tag == TagEmpty:
		if err = fpu.stackFault(StackUnderflow); err != nil {
			return
		}
		if err = fpu.stackFault(StackUnderflow); err != nil {
			return
		}
		*st0 = Indefinite()
		*sti = Indefinite()
	case st0.Tag == TagEmpty || sti.Tag == TagEmpty:
		// The live value moves, leaving its old slot Empty.
		if err = fpu.stackFault(StackUnderflow); err != nil {
			return
		}
		*st0, *sti = *sti, *st0
	default:
		*st0, *sti = *sti, *st0
	}

	if fpu.Verbose {
		log.Printf("fpu: fxch st(%d)", i)
	}
	return
}

// Free tags ST(i) Empty (ffree).
func (fpu *Fpu) Free(i int) {
	fpu.Slot(i).Tag = TagEmpty
}

// FreeAndPop tags ST(i) Empty, then pops.
func (fpu *Fpu) FreeAndPop(i int) {
	fpu.Free(i)
	fpu.Pop()
}

// Store copies ST(0) to ST(i) (fst). An Empty ST(0) underflows; if masked,
// the indefinite NaN is stored.
func (fpu *Fpu) Store(i int) (err error) {
	fpu.Status.Cond &^= C1

	v, err := fpu.Read(0)
	if err != nil {
		return
	}

	fpu.store("fst", i, v)
	return
}

// StoreAndPop copies ST(0) to ST(i), then pops (fstp).
func (fpu *Fpu) StoreAndPop(i int) (err error) {
	if err = fpu.Store(i); err != nil {
		return
	}
	fpu.Pop()
	return
}

// Load pushes a copy of ST(i) (fld st(i)).
func (fpu *Fpu) Load(i int) (err error) {
	fpu.Status.Cond &^= C1

	v, err := fpu.Read(i)
	if err != nil {
		return
	}
	return fpu.Push(v)
}

// LoadConst pushes the constant c, as rounded under the current rounding
// mode (fld1, fldpi, ...).
func (fpu *Fpu) LoadConst(c Constant) (err error) {
	fpu.Status.Cond &^= C1
	return fpu.Push(c.Value(fpu.Control.Rounding))
}

// IncrementTop moves top up one slot without changing any tag (fincstp).
func (fpu *Fpu) IncrementTop() {
	fpu.Status.Cond &^= C1
	fpu.Stack.top = fpu.Physical(1)
}

// DecrementTop moves top down one slot without changing any tag (fdecstp).
func (fpu *Fpu) DecrementTop() {
	fpu.Status.Cond &^= C1
	fpu.Stack.top = fpu.Physical(-1)
}

// ChangeSign flips the sign of ST(0) (fchs).
func (fpu *Fpu) ChangeSign() (err error) {
	return fpu.unary("fchs", func(v Value) Value { return v.Neg() })
}

// Abs clears the sign of ST(0) (fabs).
func (fpu *Fpu) Abs() (err error) {
	return fpu.unary("fabs", func(v Value) Value {
		v.Sign = Positive
		return v
	})
}

func (fpu *Fpu) unary(op string, fn func(v Value) Value) (err error) {
	fpu.Status.Cond &^= C1

	v := fpu.ST(0)
	if v.Tag == TagEmpty {
		if err = fpu.stackFault(StackUnderflow); err != nil {
			return
		}
		v = Indefinite()
	} else {
		v = fn(v)
	}

	fpu.store(op, 0, v)
	return
}
