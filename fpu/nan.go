package fpu

// propagateNaN picks the result of an operation with at least one NaN
// operand. A single NaN wins; of two NaNs the one with the larger significand
// wins, the first on a tie. A signaling operand raises InvalidOperation. The
// result is always quiet.
func (fpu *Fpu) propagateNaN(a, b Value) (v Value, err error) {
	switch {
	case a.Tag == TagNaN && b.Tag == TagNaN:
		v = a
		if b.Sig|quietBit > a.Sig|quietBit {
			v = b
		}
	case a.Tag == TagNaN:
		v = a
	case b.Tag == TagNaN:
		v = b
	default:
		panic("fpu: no NaN operand")
	}

	if a.IsSignaling() || b.IsSignaling() {
		if err = fpu.raise(InvalidOperation); err != nil {
			return
		}
	}

	v.Sig |= quietBit
	return
}

// operands resolves the Empty and NaN cases shared by every two-operand
// operation. When done is set, v (or err) is the operation's result.
func (fpu *Fpu) operands(a, b Value) (v Value, done bool, err error) {
	if a.Tag == TagEmpty || b.Tag == TagEmpty {
		if err = fpu.stackFault(StackUnderflow); err != nil {
			return
		}
		return Indefinite(), true, nil
	}

	if a.Tag == TagNaN || b.Tag == TagNaN {
		v, err = fpu.propagateNaN(a, b)
		return v, true, err
	}

	return
}
