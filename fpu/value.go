package fpu

import (
	"fmt"
	"math"
	"math/bits"
)

// Exponent limits of the extended format, unbiased.
const (
	ExpBias = 16383
	MinExp  = -16382 // Smallest normal exponent, and the exponent of every denormal.
	MaxExp  = 16383

	intBit   = uint64(1) << 63 // Explicit integer bit.
	quietBit = uint64(1) << 62 // Quiet bit of a NaN.
)

// Value is the unpacked form of an 80-bit extended precision number.
//
// A Valid value is Sig/2^63 * 2^Exp with bit 63 of Sig set. A Denormal has
// Exp == MinExp and bit 63 clear. Infinity has Sig == 1<<63. A NaN has bit 63
// set and bit 62 is its quiet bit. Zero and Empty carry no significand.
type Value struct {
	Sign Sign
	Tag  Tag
	Exp  int32
	Sig  uint64
}

// Negative reports the sign bit.
func (v Value) Negative() bool {
	return v.Sign == Negative
}

// IsSignaling reports a NaN with its quiet bit clear.
func (v Value) IsSignaling() bool {
	return v.Tag == TagNaN && v.Sig&quietBit == 0
}

// Neg returns v with the sign flipped.
func (v Value) Neg() Value {
	v.Sign ^= Negative
	return v
}

// FromBits decodes the packed 80-bit layout: se holds the sign in bit 15 and
// the biased exponent below it, mant the 64-bit significand.
//
// Encodings the unit does not support (unnormals, pseudo-NaNs and
// pseudo-infinities) load as signaling NaNs.
func FromBits(se uint16, mant uint64) (v Value) {
	if se&0x8000 != 0 {
		v.Sign = Negative
	}
	exp := int32(se & 0x7fff)

	switch {
	case exp == 0 && mant == 0:
		v.Tag = TagZero
	case exp == 0:
		// Pseudo-denormals (bit 63 set) have the same value as the
		// normal with exponent MinExp.
		v.Exp = MinExp
		v.Sig = mant
		if mant&intBit != 0 {
			v.Tag = TagValid
		} else {
			v.Tag = TagDenormal
		}
	case mant&intBit == 0:
		v.Tag = TagNaN
		v.Sig = intBit | mant&^quietBit | 1
	case exp == 0x7fff && mant == intBit:
		v.Tag = TagInfinity
		v.Sig = intBit
	case exp == 0x7fff:
		v.Tag = TagNaN
		v.Sig = mant
	default:
		v.Tag = TagValid
		v.Exp = exp - ExpBias
		v.Sig = mant
	}

	return
}

// Bits encodes v into the packed 80-bit layout.
// An Empty slot encodes as zero.
func (v Value) Bits() (se uint16, mant uint64) {
	if v.Sign == Negative {
		se = 0x8000
	}

	switch v.Tag {
	case TagValid:
		se |= uint16(v.Exp + ExpBias)
		mant = v.Sig
	case TagDenormal:
		mant = v.Sig
	case TagZero, TagEmpty:
	case TagInfinity:
		se |= 0x7fff
		mant = intBit
	case TagNaN:
		se |= 0x7fff
		mant = v.Sig
	default:
		panic("fpu: unknown tag " + v.Tag.String())
	}

	return
}

// Float64 narrows v to the nearest float64, for display.
func (v Value) Float64() (f float64) {
	switch v.Tag {
	case TagZero, TagEmpty:
		f = 0
	case TagInfinity:
		f = math.Inf(1)
	case TagNaN:
		return math.NaN()
	case TagValid, TagDenormal:
		f = math.Ldexp(float64(v.Sig), int(v.Exp)-63)
	default:
		panic("fpu: unknown tag " + v.Tag.String())
	}

	if v.Sign == Negative {
		f = math.Copysign(f, -1)
	}

	return
}

// FromFloat64 widens x to extended precision. The conversion is exact.
func FromFloat64(x float64) (v Value) {
	b := math.Float64bits(x)
	if b>>63 != 0 {
		v.Sign = Negative
	}
	exp := int32(b >> 52 & 0x7ff)
	frac := b & (1<<52 - 1)

	switch {
	case exp == 0 && frac == 0:
		v.Tag = TagZero
	case exp == 0:
		shift := bits.LeadingZeros64(frac)
		v.Tag = TagValid
		v.Sig = frac << shift
		v.Exp = int32(-1074 + 63 - shift)
	case exp == 0x7ff && frac == 0:
		v.Tag = TagInfinity
		v.Sig = intBit
	case exp == 0x7ff:
		v.Tag = TagNaN
		v.Sig = intBit | frac<<11
	default:
		v.Tag = TagValid
		v.Sig = intBit | frac<<11
		v.Exp = exp - 1023
	}

	return
}

// String formats v as its packed bits and approximate value.
func (v Value) String() string {
	if v.Tag == TagEmpty {
		return "empty"
	}
	se, mant := v.Bits()
	return fmt.Sprintf("%04x:%016x %-8v %v", se, mant, v.Tag, v.Float64())
}
