package fpu

import (
	"log"
)

// Add stores a+b in ST(dest).
func (fpu *Fpu) Add(a, b Value, dest int) (Completion, error) {
	return fpu.arith("add", fpu.add, a, b, dest)
}

// Sub stores a-b in ST(dest).
func (fpu *Fpu) Sub(a, b Value, dest int) (Completion, error) {
	return fpu.arith("sub", fpu.sub, a, b, dest)
}

// Mul stores a*b in ST(dest).
func (fpu *Fpu) Mul(a, b Value, dest int) (Completion, error) {
	return fpu.arith("mul", fpu.mul, a, b, dest)
}

// Div stores a/b in ST(dest).
func (fpu *Fpu) Div(a, b Value, dest int) (Completion, error) {
	return fpu.arith("div", fpu.div, a, b, dest)
}

func (fpu *Fpu) arith(op string, fn func(a, b Value) (Value, error), a, b Value, dest int) (c Completion, err error) {
	fpu.Status.Cond &^= C1

	v, done, err := fpu.operands(a, b)
	if !done && err == nil {
		v, err = fn(a, b)
	}
	if err != nil {
		if fpu.Verbose {
			log.Printf("fpu: %v st(%d): %v", op, dest, err)
		}
		return Abort, err
	}

	return fpu.store(op, dest, v), nil
}

func (fpu *Fpu) sub(a, b Value) (Value, error) {
	return fpu.add(a, b.Neg())
}

func (fpu *Fpu) add(a, b Value) (v Value, err error) {
	ka, kb := classify(a), classify(b)

	switch ka {
	case classInf:
		switch kb {
		case classInf:
			if a.Sign != b.Sign {
				return fpu.invalid()
			}
			return a, nil
		case classZero, classFinite:
			return a, fpu.denormal(b)
		}
	case classZero, classFinite:
		if kb == classInf {
			return b, fpu.denormal(a)
		}
	}

	if err = fpu.denormal(a, b); err != nil {
		return
	}

	switch {
	case ka == classZero && kb == classZero:
		if a.Sign == b.Sign {
			return a, nil
		}
		return fpu.exactZero(), nil
	case ka == classZero:
		return fpu.round(unpack(b), fpu.Control.Precision)
	case kb == classZero:
		return fpu.round(unpack(a), fpu.Control.Precision)
	}

	r, cancel := sum(unpack(a), unpack(b))
	if cancel {
		return fpu.exactZero(), nil
	}
	return fpu.round(r, fpu.Control.Precision)
}

func (fpu *Fpu) mul(a, b Value) (v Value, err error) {
	ka, kb := classify(a), classify(b)
	neg := a.Sign != b.Sign

	switch {
	case ka == classInf && kb == classZero, ka == classZero && kb == classInf:
		return fpu.invalid()
	case ka == classInf || kb == classInf:
		return infinity(neg), fpu.denormal(a, b)
	}

	if err = fpu.denormal(a, b); err != nil {
		return
	}

	if ka == classZero || kb == classZero {
		if fpu.Control.ZeroProductSign == ZeroSignPositive {
			neg = false
		}
		return zero(neg), nil
	}

	return fpu.round(product(unpack(a), unpack(b)), fpu.Control.Precision)
}

func (fpu *Fpu) div(a, b Value) (v Value, err error) {
	ka, kb := classify(a), classify(b)
	neg := a.Sign != b.Sign

	switch {
	case ka == classInf && kb == classInf, ka == classZero && kb == classZero:
		return fpu.invalid()
	case ka == classInf:
		return infinity(neg), fpu.denormal(b)
	case kb == classInf:
		return zero(neg), fpu.denormal(a)
	}

	if err = fpu.denormal(a, b); err != nil {
		return
	}

	switch {
	case kb == classZero:
		if err = fpu.raise(ZeroDivide); err != nil {
			return
		}
		return infinity(neg), nil
	case ka == classZero:
		return zero(neg), nil
	}

	return fpu.round(quotient(unpack(a), unpack(b)), fpu.Control.Precision)
}
