package fpu

import (
	"strings"
)

// Exception is a set of floating point exception kinds.
type Exception uint16

const (
	InvalidOperation = Exception(1 << 0) // IE
	DenormalOperand  = Exception(1 << 1) // DE
	ZeroDivide       = Exception(1 << 2) // ZE
	Overflow         = Exception(1 << 3) // OE
	Underflow        = Exception(1 << 4) // UE
	Inexact          = Exception(1 << 5) // PE
	StackOverflow    = Exception(1 << 6) // Stack fault on push.
	StackUnderflow   = Exception(1 << 7) // Stack fault on read of an Empty slot.

	// Exceptions reported in the low bits of the control and status words.
	ArithmeticExceptions = InvalidOperation | DenormalOperand | ZeroDivide | Overflow | Underflow | Inexact
	StackFault           = StackOverflow | StackUnderflow
	AllExceptions        = ArithmeticExceptions | StackFault
)

var exceptionNames = [...]string{
	"invalid",
	"denormal",
	"zero-divide",
	"overflow",
	"underflow",
	"inexact",
	"stack-overflow",
	"stack-underflow",
}

// ExceptionByName returns the exception kind called name.
func ExceptionByName(name string) (ex Exception, ok bool) {
	for n, s := range exceptionNames {
		if s == name {
			return Exception(1 << n), true
		}
	}
	return
}

// String lists the exceptions in the set, separated by '|'.
func (ex Exception) String() string {
	if ex == 0 {
		return "none"
	}

	var names []string
	for n, s := range exceptionNames {
		if ex&(1<<n) != 0 {
			names = append(names, s)
		}
	}
	return strings.Join(names, "|")
}
