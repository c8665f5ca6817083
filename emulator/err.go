package emulator

import (
	"errors"

	"github.com/ezrec/x87/translate"
)

var f = translate.From

var (
	ErrOperand  = errors.New(f("operand must be a register index or a number"))
	ErrPopForm  = errors.New(f("pop forms take a register operand"))
	ErrRegister = errors.New(f("register index out of range"))
)

// ErrName is an unknown constant, rounding mode, precision or exception name.
type ErrName string

func (err ErrName) Error() string {
	return f("'%v' is not a known name", string(err))
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
