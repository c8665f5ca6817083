package fpu

import (
	"math/bits"
)

// round narrows u to prec bits under the current rounding mode and
// classifies the result. Overflow, Underflow and Inexact are raised here,
// and C1 reports whether the magnitude was rounded up.
func (fpu *Fpu) round(u unpacked, prec Precision) (v Value, err error) {
	m := u.m
	exp := u.exp

	// Tininess is detected before rounding.
	tiny := exp < MinExp
	if tiny {
		m = m.shrJam(shiftCount(int64(MinExp) - int64(exp)))
		exp = MinExp
	}

	drop := 64 - prec.Bits()
	mask := uint64(1)<<drop - 1
	sig := m.hi &^ mask

	var half, rest bool
	if drop == 0 {
		half = m.lo&intBit != 0
		rest = m.lo&^intBit != 0
	} else {
		half = m.hi&(uint64(1)<<(drop-1)) != 0
		rest = m.hi&(mask>>1) != 0 || m.lo != 0
	}
	inexact := half || rest

	var up bool
	switch fpu.Control.Rounding {
	case RoundNearest:
		up = half && (rest || sig&(uint64(1)<<drop) != 0)
	case RoundDown:
		up = inexact && u.neg
	case RoundUp:
		up = inexact && !u.neg
	case RoundZero:
	default:
		panic("fpu: unknown rounding mode " + fpu.Control.Rounding.String())
	}

	if up {
		var carry uint64
		sig, carry = bits.Add64(sig, uint64(1)<<drop, 0)
		if carry != 0 {
			sig = intBit
			exp++
		}
	}

	if exp > MaxExp {
		return fpu.overflow(u.neg, prec)
	}

	if tiny && (inexact || !fpu.Control.Masked(Underflow)) {
		if err = fpu.raise(Underflow); err != nil {
			return
		}
	}

	if inexact {
		if err = fpu.raise(Inexact); err != nil {
			return
		}
	}

	fpu.Status.Cond &^= C1
	if up {
		fpu.Status.Cond |= C1
	}

	v.Sign = signOf(u.neg)
	switch {
	case sig == 0:
		v.Tag = TagZero
	case sig&intBit == 0:
		v.Tag = TagDenormal
		v.Exp = MinExp
		v.Sig = sig
	default:
		v.Tag = TagValid
		v.Exp = exp
		v.Sig = sig
	}

	return
}

// overflow delivers the masked result of an overflowing operation: infinity
// or the largest finite value at prec, as the rounding mode directs.
func (fpu *Fpu) overflow(neg bool, prec Precision) (v Value, err error) {
	if err = fpu.raise(Overflow); err != nil {
		return
	}

	var toInf bool
	switch fpu.Control.Rounding {
	case RoundNearest:
		toInf = true
	case RoundDown:
		toInf = neg
	case RoundUp:
		toInf = !neg
	case RoundZero:
	default:
		panic("fpu: unknown rounding mode " + fpu.Control.Rounding.String())
	}

	fpu.Status.Cond &^= C1
	if toInf {
		v = infinity(neg)
		fpu.Status.Cond |= C1
	} else {
		v = Value{Sign: signOf(neg), Tag: TagValid, Exp: MaxExp, Sig: ^uint64(0) << (64 - prec.Bits())}
	}

	err = fpu.raise(Inexact)
	return
}

// exactZero is the result of an exact cancellation: positive, except under
// RoundDown.
func (fpu *Fpu) exactZero() Value {
	return zero(fpu.Control.Rounding == RoundDown)
}
