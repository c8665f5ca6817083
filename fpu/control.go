package fpu

// RoundingMode selects how inexact results are rounded.
type RoundingMode int

//go:generate go tool stringer -linecomment -type=RoundingMode
const (
	RoundNearest = RoundingMode(0) // nearest
	RoundDown    = RoundingMode(1) // down
	RoundUp      = RoundingMode(2) // up
	RoundZero    = RoundingMode(3) // zero
)

// Precision selects the significand width of rounded results.
type Precision int

//go:generate go tool stringer -linecomment -type=Precision
const (
	Precision24 = Precision(0) // single
	Precision53 = Precision(1) // double
	Precision64 = Precision(2) // extended
)

// Bits returns the significand width, in bits.
func (p Precision) Bits() uint {
	switch p {
	case Precision24:
		return 24
	case Precision53:
		return 53
	case Precision64:
		return 64
	}
	panic("fpu: unknown precision " + p.String())
}

// ZeroSign selects the sign of a zero product.
type ZeroSign int

const (
	ZeroSignXor      = ZeroSign(0) // Exclusive-or of the operand signs.
	ZeroSignPositive = ZeroSign(1) // Always positive.
)

// Control is the unpacked control word.
type Control struct {
	Rounding        RoundingMode
	Precision       Precision
	Masks           Exception // Masked exceptions deliver a default result.
	ZeroProductSign ZeroSign
}

// Control word fields.
const (
	cwStackMask = uint16(1 << 6)
	cwPcShift   = 8
	cwRcShift   = 10

	DefaultControlWord = uint16(0x037f)
)

// DefaultControl returns the control state after a reset: round to nearest,
// 64-bit precision, every exception masked.
func DefaultControl() (c Control) {
	c.SetWord(DefaultControlWord)
	return
}

// Masked reports whether every exception in ex is masked.
func (c Control) Masked(ex Exception) bool {
	return c.Masks&ex == ex
}

// Word packs the control state.
func (c Control) Word() (w uint16) {
	w = uint16(c.Masks & ArithmeticExceptions)
	if c.Masks&StackFault == StackFault {
		w |= cwStackMask
	}

	switch c.Precision {
	case Precision24:
	case Precision53:
		w |= 0b10 << cwPcShift
	case Precision64:
		w |= 0b11 << cwPcShift
	default:
		panic("fpu: unknown precision " + c.Precision.String())
	}

	w |= uint16(c.Rounding&3) << cwRcShift

	return
}

// SetWord unpacks w into the control state. The reserved precision encoding
// 01 selects 53 bits. ZeroProductSign has no bit in the word and is kept.
func (c *Control) SetWord(w uint16) {
	c.Masks = Exception(w) & ArithmeticExceptions
	if w&cwStackMask != 0 {
		c.Masks |= StackFault
	}

	switch (w >> cwPcShift) & 3 {
	case 0b00:
		c.Precision = Precision24
	case 0b01, 0b10:
		c.Precision = Precision53
	case 0b11:
		c.Precision = Precision64
	}

	c.Rounding = RoundingMode((w >> cwRcShift) & 3)
}
