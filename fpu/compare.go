package fpu

import (
	"cmp"
)

// Compare sets C3 C2 C0 from a compared with b (fcom, or fucom when quiet):
// 000 greater, 001 less, 100 equal, 111 unordered. An unordered compare
// raises InvalidOperation, except for quiet NaNs under fucom.
func (fpu *Fpu) Compare(a, b Value, quiet bool) (err error) {
	fpu.Status.Cond &^= allConditions

	const unordered = C3 | C2 | C0
	switch {
	case a.Tag == TagEmpty || b.Tag == TagEmpty:
		if err = fpu.stackFault(StackUnderflow); err != nil {
			return
		}
		fpu.Status.Cond |= unordered
		return
	case a.Tag == TagNaN || b.Tag == TagNaN:
		if !quiet || a.IsSignaling() || b.IsSignaling() {
			if err = fpu.raise(InvalidOperation); err != nil {
				return
			}
		}
		fpu.Status.Cond |= unordered
		return
	}

	if err = fpu.denormal(a, b); err != nil {
		return
	}

	switch compareValues(a, b) {
	case -1:
		fpu.Status.Cond |= C0
	case 0:
		fpu.Status.Cond |= C3
	}
	return
}

// Examine classifies ST(0) into C3 C2 C0, with its sign in C1 (fxam).
func (fpu *Fpu) Examine() {
	fpu.Status.Cond &^= allConditions

	v := fpu.ST(0)
	if v.Sign == Negative {
		fpu.Status.Cond |= C1
	}

	switch v.Tag {
	case TagEmpty:
		fpu.Status.Cond |= C3 | C0
	case TagNaN:
		fpu.Status.Cond |= C0
	case TagInfinity:
		fpu.Status.Cond |= C2 | C0
	case TagZero:
		fpu.Status.Cond |= C3
	case TagDenormal:
		fpu.Status.Cond |= C3 | C2
	case TagValid:
		fpu.Status.Cond |= C2
	default:
		panic("fpu: unknown tag " + v.Tag.String())
	}
}

func signum(v Value) int {
	switch {
	case classify(v) == classZero:
		return 0
	case v.Sign == Negative:
		return -1
	}
	return 1
}

// compareValues orders two non-NaN operands; zeros of either sign are equal.
func compareValues(a, b Value) int {
	sa, sb := signum(a), signum(b)
	if sa != sb || sa == 0 {
		return cmp.Compare(sa, sb)
	}

	mag := compareMagnitude(a, b)
	if sa < 0 {
		return -mag
	}
	return mag
}

func compareMagnitude(a, b Value) int {
	ka, kb := classify(a), classify(b)
	if ka != kb || ka != classFinite {
		return cmp.Compare(ka, kb)
	}

	ua, ub := unpack(a), unpack(b)
	if ua.exp != ub.exp {
		return cmp.Compare(ua.exp, ub.exp)
	}
	return cmp.Compare(ua.m.hi, ub.m.hi)
}
