package fpu

// Sign of an extended precision value.
type Sign uint8

const (
	Positive = Sign(0)
	Negative = Sign(1)
)

func signOf(neg bool) Sign {
	if neg {
		return Negative
	}
	return Positive
}

func (s Sign) String() string {
	if s == Negative {
		return "-"
	}
	return "+"
}

// Tag is the cached classification of a register slot.
type Tag int

//go:generate go tool stringer -linecomment -type=Tag
const (
	TagValid    = Tag(0) // valid
	TagZero     = Tag(1) // zero
	TagDenormal = Tag(2) // denormal
	TagInfinity = Tag(3) // infinity
	TagNaN      = Tag(4) // nan
	TagEmpty    = Tag(5) // empty
)

// class is the coarse operand class used by the arithmetic dispatch, once
// Empty and NaN operands have been dealt with.
type class int

const (
	classZero class = iota
	classFinite
	classInf
)

func classify(v Value) class {
	switch v.Tag {
	case TagZero:
		return classZero
	case TagValid, TagDenormal:
		return classFinite
	case TagInfinity:
		return classInf
	case TagNaN, TagEmpty:
		panic("fpu: " + v.Tag.String() + " operand reached arithmetic dispatch")
	}
	panic("fpu: unknown tag " + v.Tag.String())
}
