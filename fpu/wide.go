package fpu

import (
	"math/bits"
)

// u128 is an unsigned 128-bit integer.
type u128 struct {
	hi, lo uint64
}

func mul64(a, b uint64) u128 {
	hi, lo := bits.Mul64(a, b)
	return u128{hi, lo}
}

func (a u128) isZero() bool {
	return a.hi|a.lo == 0
}

func (a u128) less(b u128) bool {
	return a.hi < b.hi || (a.hi == b.hi && a.lo < b.lo)
}

func (a u128) bitLen() int {
	if a.hi != 0 {
		return 64 + bits.Len64(a.hi)
	}
	return bits.Len64(a.lo)
}

func (a u128) add(b u128) (sum u128, carry uint64) {
	sum.lo, carry = bits.Add64(a.lo, b.lo, 0)
	sum.hi, carry = bits.Add64(a.hi, b.hi, carry)
	return
}

// sub returns a-b modulo 2^128.
func (a u128) sub(b u128) (diff u128) {
	var borrow uint64
	diff.lo, borrow = bits.Sub64(a.lo, b.lo, 0)
	diff.hi, _ = bits.Sub64(a.hi, b.hi, borrow)
	return
}

func (a u128) shl(n uint) u128 {
	switch {
	case n >= 128:
		return u128{}
	case n >= 64:
		return u128{a.lo << (n - 64), 0}
	}
	return u128{a.hi<<n | a.lo>>(64-n), a.lo << n}
}

func (a u128) shr(n uint) u128 {
	switch {
	case n >= 128:
		return u128{}
	case n >= 64:
		return u128{0, a.hi >> (n - 64)}
	}
	return u128{a.hi >> n, a.lo>>n | a.hi<<(64-n)}
}

// shrJam shifts right, or-ing every bit shifted out into bit 0.
func (a u128) shrJam(n uint) (r u128) {
	r = a.shr(n)
	if r.shl(n) != a {
		r.lo |= 1
	}
	return
}

// shiftCount clamps a non-negative shift distance for shr and shrJam.
func shiftCount(d int64) uint {
	if d > 128 {
		return 128
	}
	if d < 0 {
		panic("fpu: negative shift")
	}
	return uint(d)
}

// mulWide returns the top 128 bits of a*b, with the rest jammed into bit 0.
func mulWide(a, b u128) (top u128) {
	hh := mul64(a.hi, b.hi)
	hl := mul64(a.hi, b.lo)
	lh := mul64(a.lo, b.hi)
	ll := mul64(a.lo, b.lo)

	mid, c1 := hl.add(lh)
	mid, c2 := mid.add(u128{0, ll.hi})
	top, _ = hh.add(u128{c1 + c2, mid.hi})
	if mid.lo|ll.lo != 0 {
		top.lo |= 1
	}
	return
}

// quo divides n by d, both nonzero, returning a quotient with bit 127 set
// and an exponent such that n/d = q/2^127 * 2^exp. The remainder is jammed
// into bit 0.
func quo(n, d u128) (q u128, exp int32) {
	ln, ld := n.bitLen(), d.bitLen()
	n = n.shl(uint(128 - ln))
	d = d.shl(uint(128 - ld))
	exp = int32(ln - ld)

	// carry is bit 128 of the partial remainder.
	var carry uint64
	if n.less(d) {
		exp--
		carry = n.hi >> 63
		n = n.shl(1)
	}

	for range 128 {
		q = q.shl(1)
		if carry != 0 || !n.less(d) {
			n = n.sub(d)
			q.lo |= 1
		}
		carry = n.hi >> 63
		n = n.shl(1)
	}

	if carry != 0 || !n.isZero() {
		q.lo |= 1
	}
	return
}

// unpacked is a finite nonzero intermediate: m/2^127 * 2^exp with bit 127 of
// m set. Bits below the top 64 of m are guard bits.
type unpacked struct {
	neg bool
	exp int32
	m   u128
}

// unpack widens a Valid or Denormal value, normalizing denormals.
func unpack(v Value) (u unpacked) {
	u.neg = v.Sign == Negative
	u.exp = v.Exp
	sig := v.Sig
	if v.Tag == TagDenormal {
		shift := bits.LeadingZeros64(sig)
		sig <<= shift
		u.exp -= int32(shift)
	}
	u.m = u128{sig, 0}
	return
}

func (u unpacked) normalize() unpacked {
	shift := 128 - u.m.bitLen()
	u.m = u.m.shl(uint(shift))
	u.exp -= int32(shift)
	return u
}

// fromInt returns the nonzero integer n.
func fromInt(n int64) unpacked {
	mag := uint64(n)
	if n < 0 {
		mag = uint64(-n)
	}
	u := unpacked{neg: n < 0, exp: 127, m: u128{0, mag}}
	return u.normalize()
}

// sum adds a and b exactly, up to the sticky bit. zero is set when the
// operands cancel.
func sum(a, b unpacked) (r unpacked, zero bool) {
	if a.exp < b.exp || (a.exp == b.exp && a.m.less(b.m)) {
		a, b = b, a
	}

	bm := b.m.shrJam(shiftCount(int64(a.exp) - int64(b.exp)))
	r = unpacked{neg: a.neg, exp: a.exp}
	if a.neg == b.neg {
		var carry uint64
		r.m, carry = a.m.add(bm)
		if carry != 0 {
			r.m = r.m.shrJam(1)
			r.m.hi |= intBit
			r.exp++
		}
		return
	}

	r.m = a.m.sub(bm)
	if r.m.isZero() {
		return r, true
	}
	return r.normalize(), false
}

// product multiplies a and b, up to the sticky bit.
func product(a, b unpacked) (r unpacked) {
	r = unpacked{neg: a.neg != b.neg, exp: a.exp + b.exp + 1, m: mulWide(a.m, b.m)}
	if r.m.hi&intBit == 0 {
		r.m = r.m.shl(1)
		r.exp--
	}
	return
}

// quotient divides a by b, up to the sticky bit.
func quotient(a, b unpacked) (r unpacked) {
	q, exp := quo(a.m, b.m)
	return unpacked{neg: a.neg != b.neg, exp: a.exp - b.exp + exp, m: q}
}
