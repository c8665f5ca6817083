package fpu

import (
	"log"
)

const (
	sqrt2Sig        = uint64(0xb504f333f9de6484) // sqrt(2) * 2^63
	log2p1Threshold = uint64(0x2bec333018866df0) // (3 - 2*sqrt(2)) * 2^64
)

// series returns log2((1+x)/(1-x)) for the fraction x = q/2^127 * 2^exp,
// 0 < x < 3-2*sqrt(2).
func series(q u128, exp int32) (r unpacked) {
	x := q.shr(shiftCount(63 - int64(exp))).lo // x * 2^64
	t := mul64(x, x).hi                        // x^2 * 2^64

	acc := polyTerms[len(polyTerms)-1]
	for n := len(polyTerms) - 2; n >= 0; n-- {
		acc = polyTerms[n] + mul64(acc, t).hi
	}
	s, _ := polyHead.add(mul64(acc, t).shr(1)) // (P(t) - 2) * 2^127

	// x*P = 2^(exp+1) * (q + q*s/2^128) / 2^127
	m, carry := q.add(mulWide(q, s))
	r = unpacked{exp: exp + 1, m: m}
	if carry != 0 {
		r.m = r.m.shrJam(1)
		r.m.hi |= intBit
		r.exp++
	}
	return
}

// withExponent returns e + frac, with |frac| < 1 and e nonzero, in 100-bit
// fixed point.
func withExponent(e int64, frac unpacked) unpacked {
	const point = 100

	mag := uint64(e)
	if e < 0 {
		mag = uint64(-e)
	}
	acc := u128{mag << (point - 64), 0}

	f := frac.m.shrJam(shiftCount(127 - point - int64(frac.exp)))
	if frac.neg == (e < 0) {
		acc, _ = acc.add(f)
	} else {
		acc = acc.sub(f)
	}

	r := unpacked{neg: e < 0, exp: 127 - point, m: acc}
	return r.normalize()
}

// log2Kernel returns log2 of a positive finite u. zero is set when the
// result is exactly zero.
func log2Kernel(u unpacked) (r unpacked, zero bool) {
	m := u.m.shr(1) // mantissa * 2^126
	e := int64(u.exp)

	sqrt2 := u128{sqrt2Sig >> 1, (sqrt2Sig & 1) << 63}
	one := u128{1 << 62, 0}
	two := u128{1 << 63, 0}

	var num, den u128
	neg := false
	if sqrt2.less(m) {
		// Reduce against m/2, which lies in (sqrt(2)/2, 1).
		num = two.sub(m)
		den, _ = two.add(m)
		neg = true
		e++
	} else {
		num = m.sub(one)
		den, _ = m.add(one)
	}

	if num.isZero() {
		if e == 0 {
			return unpacked{}, true
		}
		return fromInt(e), false
	}

	q, exp := quo(num, den)
	r = series(q, exp)
	r.neg = neg
	if e != 0 {
		r = withExponent(e, r)
	}
	return
}

// log2p1Kernel returns log2(1+u) for finite nonzero u > -1.
func log2p1Kernel(u unpacked) (r unpacked, zero bool) {
	small := u.exp < -3 || (u.exp == -3 && u.m.hi>>2 < log2p1Threshold)
	if !small {
		one := unpacked{m: u128{intBit, 0}}
		arg, _ := sum(one, u)
		return log2Kernel(arg)
	}

	// Xx = x/(2+x), directly.
	two := unpacked{exp: 1, m: u128{intBit, 0}}
	den, _ := sum(two, u)
	q := quotient(unpacked{exp: u.exp, m: u.m}, den)
	r = series(q.m, q.exp)
	r.neg = u.neg
	return
}

func positiveFinite(op string, v Value) {
	switch v.Tag {
	case TagValid, TagDenormal:
	case TagZero, TagInfinity, TagNaN, TagEmpty:
		panic("fpu: " + op + " of " + v.Tag.String())
	default:
		panic("fpu: unknown tag " + v.Tag.String())
	}
}

// Log2 returns log2(v), rounded to 64 bits, for a positive finite nonzero v.
// Checking the argument is the caller's job.
func (fpu *Fpu) Log2(v Value) (Value, error) {
	positiveFinite("log2", v)
	if v.Sign == Negative {
		panic("fpu: log2 of a negative value")
	}

	r, isZero := log2Kernel(unpack(v))
	if isZero {
		fpu.Status.Cond &^= C1
		return zero(false), nil
	}
	return fpu.round(r, Precision64)
}

// Log2p1 returns log2(1+x), rounded to 64 bits, for a finite nonzero
// x > -1.
func (fpu *Fpu) Log2p1(x Value) (Value, error) {
	positiveFinite("log2p1", x)
	u := unpack(x)
	if u.neg && u.exp >= 0 {
		panic("fpu: log2p1 of a value not above -1")
	}

	r, isZero := log2p1Kernel(u)
	if isZero {
		fpu.Status.Cond &^= C1
		return zero(false), nil
	}
	return fpu.round(r, Precision64)
}

// Yl2x replaces ST(1) with ST(1)*log2(ST(0)) and pops (fyl2x).
func (fpu *Fpu) Yl2x() (Completion, error) {
	return fpu.logOp("fyl2x", fpu.yl2x)
}

// Yl2xp1 replaces ST(1) with ST(1)*log2(ST(0)+1) and pops (fyl2xp1).
func (fpu *Fpu) Yl2xp1() (Completion, error) {
	return fpu.logOp("fyl2xp1", fpu.yl2xp1)
}

func (fpu *Fpu) logOp(op string, fn func(x, y Value) (Value, error)) (c Completion, err error) {
	fpu.Status.Cond &^= C1

	x, y := fpu.ST(0), fpu.ST(1)
	v, done, err := fpu.operands(x, y)
	if !done && err == nil {
		v, err = fn(x, y)
	}
	if err != nil {
		if fpu.Verbose {
			log.Printf("fpu: %v: %v", op, err)
		}
		return Abort, err
	}

	c = fpu.store(op, 1, v)
	fpu.Pop()
	return
}

// scale returns y*l rounded, where l is a finite logarithm, or exactly zero
// when zero is set.
func (fpu *Fpu) scale(y Value, l unpacked, isZero bool) (v Value, err error) {
	switch classify(y) {
	case classInf:
		if isZero {
			return fpu.invalid()
		}
		return infinity(y.Sign == Negative != l.neg), nil
	case classZero:
		return zero(y.Sign == Negative != (l.neg && !isZero)), nil
	case classFinite:
		if isZero {
			return zero(y.Sign == Negative), nil
		}
	}

	return fpu.round(product(unpack(y), l), fpu.Control.Precision)
}

func (fpu *Fpu) yl2x(x, y Value) (v Value, err error) {
	kx, ky := classify(x), classify(y)

	if x.Sign == Negative && kx != classZero {
		return fpu.invalid()
	}

	switch kx {
	case classZero:
		switch ky {
		case classZero:
			return fpu.invalid()
		case classFinite:
			if err = fpu.denormal(y); err != nil {
				return
			}
			if err = fpu.raise(ZeroDivide); err != nil {
				return
			}
		}
		return infinity(y.Sign == Positive), nil
	case classInf:
		if ky == classZero {
			return fpu.invalid()
		}
		return infinity(y.Sign == Negative), fpu.denormal(y)
	}

	if err = fpu.denormal(x, y); err != nil {
		return
	}

	l, isZero := log2Kernel(unpack(x))
	return fpu.scale(y, l, isZero)
}

func (fpu *Fpu) yl2xp1(x, y Value) (v Value, err error) {
	kx, ky := classify(x), classify(y)

	switch kx {
	case classZero:
		if ky == classInf {
			return fpu.invalid()
		}
		return zero(x.Sign != y.Sign), fpu.denormal(y)
	case classInf:
		if x.Sign == Negative || ky == classZero {
			return fpu.invalid()
		}
		return infinity(y.Sign == Negative), fpu.denormal(y)
	}

	u := unpack(x)
	if u.neg && u.exp >= 0 {
		return fpu.invalid()
	}

	if err = fpu.denormal(x, y); err != nil {
		return
	}

	l, isZero := log2p1Kernel(u)
	return fpu.scale(y, l, isZero)
}
