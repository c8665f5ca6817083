package fpu

import (
	"errors"

	"github.com/ezrec/x87/translate"
)

var f = translate.From

var (
	ErrInvalidOperation = errors.New(f("invalid operation"))
	ErrDenormalOperand  = errors.New(f("denormal operand"))
	ErrZeroDivide       = errors.New(f("zero divide"))
	ErrOverflow         = errors.New(f("overflow"))
	ErrUnderflow        = errors.New(f("underflow"))
	ErrInexact          = errors.New(f("inexact"))
	ErrStackOverflow    = errors.New(f("stack overflow"))
	ErrStackUnderflow   = errors.New(f("stack underflow"))
)

var exceptionErrors = [...]error{
	ErrInvalidOperation,
	ErrDenormalOperand,
	ErrZeroDivide,
	ErrOverflow,
	ErrUnderflow,
	ErrInexact,
	ErrStackOverflow,
	ErrStackUnderflow,
}

// ErrException is returned when an operation raises an unmasked exception.
// It holds every exception the operation raised.
type ErrException Exception

func (ee ErrException) Error() string {
	return f("unmasked exception %v", Exception(ee).String())
}

// Unwrap returns the sentinel error of every raised exception kind.
func (ee ErrException) Unwrap() (errs []error) {
	for n, err := range exceptionErrors {
		if Exception(ee)&(1<<n) != 0 {
			errs = append(errs, err)
		}
	}
	return
}

// Is matches a target ErrException whose kinds were all raised. The empty
// set matches any unmasked exception.
func (ee ErrException) Is(err error) bool {
	target, ok := err.(ErrException)
	return ok && Exception(ee)&Exception(target) == Exception(target)
}
