// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package fpu

import (
	"fmt"
	"log"
	"strings"
)

// Completion is returned by the arithmetic primitives. A non-negative value
// is the tag of the stored result and tells a pop-form caller to pop; Abort
// means an unmasked exception left the destination untouched.
type Completion int

const (
	Abort = Completion(-1)
)

// Pop reports whether the operation completed.
func (c Completion) Pop() bool {
	return c >= 0
}

// Tag returns the tag of the stored result.
func (c Completion) Tag() Tag {
	if c < 0 {
		panic("fpu: aborted operation has no result")
	}
	return Tag(c)
}

// Fpu is one floating point execution context.
type Fpu struct {
	Verbose bool // Set to enable verbose logging.

	Control Control // Control word state.
	Status  Status  // Status word state.
	Stack   Stack   // Register stack.
}

// NewFpu returns a context in its reset state.
func NewFpu() (fpu *Fpu) {
	fpu = &Fpu{}
	fpu.Reset()
	return
}

// Reset reinitializes the context (finit): default control word, clear
// status, top zero, every slot Empty.
func (fpu *Fpu) Reset() {
	if fpu.Verbose {
		log.Printf("fpu: reset")
	}

	zeroSign := fpu.Control.ZeroProductSign
	fpu.Control = DefaultControl()
	fpu.Control.ZeroProductSign = zeroSign
	fpu.Status = Status{}
	fpu.Stack.Reset()
}

// ClearExceptions clears the sticky exception flags and the summary bit
// (fclex). Condition codes are kept.
func (fpu *Fpu) ClearExceptions() {
	fpu.Status.Flags = 0
	fpu.Status.Summary = false
}

// Top returns the physical index of ST(0).
func (fpu *Fpu) Top() int {
	return fpu.Stack.Top()
}

// Physical maps logical ST(i) to its physical slot.
func (fpu *Fpu) Physical(i int) int {
	return fpu.Stack.Physical(i)
}

// Slot returns logical slot ST(i).
func (fpu *Fpu) Slot(i int) *Value {
	return fpu.Stack.ST(i)
}

// ST returns a copy of logical slot ST(i), unchecked.
func (fpu *Fpu) ST(i int) Value {
	return *fpu.Stack.ST(i)
}

// ExportStatus packs the status word, including the stack top.
func (fpu *Fpu) ExportStatus() uint16 {
	return fpu.Status.word(fpu.Stack.Top())
}

// raise records ex in the sticky flags. It returns nil when every kind in ex
// is masked, and an ErrException otherwise.
func (fpu *Fpu) raise(ex Exception) (err error) {
	if fpu.Verbose {
		log.Printf("fpu: raise %v", ex)
	}

	fpu.Status.Flags |= ex
	if fpu.Control.Masked(ex) {
		return nil
	}

	fpu.Status.Summary = true
	return ErrException(ex)
}

func (fpu *Fpu) stackFault(kind Exception) (err error) {
	fpu.Status.Cond |= C1
	return fpu.raise(kind | InvalidOperation)
}

// invalid raises InvalidOperation and returns the masked default result.
func (fpu *Fpu) invalid() (v Value, err error) {
	if err = fpu.raise(InvalidOperation); err != nil {
		return
	}
	return Indefinite(), nil
}

// denormal raises DenormalOperand when any operand is a denormal.
func (fpu *Fpu) denormal(vs ...Value) (err error) {
	for _, v := range vs {
		if v.Tag == TagDenormal {
			return fpu.raise(DenormalOperand)
		}
	}
	return
}

// Push stores v in a new ST(0). When the slot below the top is in use the
// push overflows; if masked, the indefinite NaN is pushed instead.
func (fpu *Fpu) Push(v Value) (err error) {
	if fpu.Stack.Full() {
		if err = fpu.stackFault(StackOverflow); err != nil {
			return
		}
		v = Indefinite()
	}

	fpu.Stack.push(v)
	return
}

// Pop tags ST(0) Empty and moves top up one slot. It does no checks.
func (fpu *Fpu) Pop() {
	fpu.Stack.Pop()
}

// Read returns ST(i). An Empty slot underflows; if masked, the indefinite
// NaN is returned.
func (fpu *Fpu) Read(i int) (v Value, err error) {
	v = fpu.ST(i)
	if v.Tag != TagEmpty {
		return
	}

	if err = fpu.stackFault(StackUnderflow); err != nil {
		return Value{}, err
	}

	return Indefinite(), nil
}

// store writes v to ST(dest) and reports the completion.
func (fpu *Fpu) store(op string, dest int, v Value) Completion {
	if fpu.Verbose {
		log.Printf("fpu: %v st(%d) = %v", op, dest, v)
	}
	*fpu.Slot(dest) = v
	return Completion(v.Tag)
}

// String dumps the context state.
func (fpu *Fpu) String() string {
	var buff strings.Builder

	fmt.Fprintf(&buff, "cw=%04x rc=%v pc=%v masks=%v\n",
		fpu.Control.Word(), fpu.Control.Rounding, fpu.Control.Precision, fpu.Control.Masks)
	fmt.Fprintf(&buff, "sw=%04x top=%d cond=%v flags=%v\n",
		fpu.ExportStatus(), fpu.Top(), fpu.Status.Cond, fpu.Status.Flags)
	for n := range STACK_DEPTH {
		fmt.Fprintf(&buff, "st(%d) [%d] %v\n", n, fpu.Physical(n), fpu.ST(n))
	}

	return buff.String()
}
