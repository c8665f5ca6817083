package fpu

// Constant names an entry of the constant table.
type Constant int

//go:generate go tool stringer -linecomment -type=Constant
const (
	ConstOne        = Constant(0)  // 1
	ConstL2T        = Constant(1)  // l2t
	ConstL2E        = Constant(2)  // l2e
	ConstPi         = Constant(3)  // pi
	ConstPi2        = Constant(4)  // pi/2
	ConstPi4        = Constant(5)  // pi/4
	ConstLG2        = Constant(6)  // lg2
	ConstLN2        = Constant(7)  // ln2
	ConstZero       = Constant(8)  // z
	ConstNegZero    = Constant(9)  // -z
	ConstInf        = Constant(10) // inf
	ConstNegInf     = Constant(11) // -inf
	ConstIndefinite = Constant(12) // indefinite
)

// Significands of the irrational constants, rounded to nearest.
const (
	sigL2T = uint64(0xd49a784bcd1b8afe) // log2(10), rounded down
	sigL2E = uint64(0xb8aa3b295c17f0bc) // log2(e), rounded up
	sigPi  = uint64(0xc90fdaa22168c235) // pi, rounded up
	sigLG2 = uint64(0x9a209a84fbcff799) // log10(2), rounded up
	sigLN2 = uint64(0xb17217f7d1cf79ac) // ln(2), rounded up
)

type constEntry struct {
	value Value
	// Ulp correction under directed rounding. -1: the nearest pattern
	// was rounded up, so RoundDown and RoundZero take one off. +1: it was
	// rounded down, so RoundUp adds one.
	adjust int
}

var constTable = [...]constEntry{
	ConstOne:        {value: Value{Tag: TagValid, Exp: 0, Sig: intBit}},
	ConstL2T:        {value: Value{Tag: TagValid, Exp: 1, Sig: sigL2T}, adjust: 1},
	ConstL2E:        {value: Value{Tag: TagValid, Exp: 0, Sig: sigL2E}, adjust: -1},
	ConstPi:         {value: Value{Tag: TagValid, Exp: 1, Sig: sigPi}, adjust: -1},
	ConstPi2:        {value: Value{Tag: TagValid, Exp: 0, Sig: sigPi}, adjust: -1},
	ConstPi4:        {value: Value{Tag: TagValid, Exp: -1, Sig: sigPi}, adjust: -1},
	ConstLG2:        {value: Value{Tag: TagValid, Exp: -2, Sig: sigLG2}, adjust: -1},
	ConstLN2:        {value: Value{Tag: TagValid, Exp: -1, Sig: sigLN2}, adjust: -1},
	ConstZero:       {value: Value{Tag: TagZero}},
	ConstNegZero:    {value: Value{Sign: Negative, Tag: TagZero}},
	ConstInf:        {value: Value{Tag: TagInfinity, Sig: intBit}},
	ConstNegInf:     {value: Value{Sign: Negative, Tag: TagInfinity, Sig: intBit}},
	ConstIndefinite: {value: Value{Sign: Negative, Tag: TagNaN, Sig: intBit | quietBit}},
}

// ConstantByName returns the constant called name.
func ConstantByName(name string) (c Constant, ok bool) {
	for c = range Constant(len(constTable)) {
		if c.String() == name {
			return c, true
		}
	}
	return
}

// Value returns the constant as rounded under rc.
func (c Constant) Value(rc RoundingMode) (v Value) {
	if c < 0 || int(c) >= len(constTable) {
		panic("fpu: unknown constant " + c.String())
	}

	entry := constTable[c]
	v = entry.value
	switch {
	case entry.adjust < 0 && (rc == RoundDown || rc == RoundZero):
		v.Sig--
	case entry.adjust > 0 && rc == RoundUp:
		v.Sig++
	}
	return
}

// Indefinite returns the default NaN delivered by masked invalid operations.
func Indefinite() Value {
	return constTable[ConstIndefinite].value
}

func infinity(neg bool) Value {
	return Value{Sign: signOf(neg), Tag: TagInfinity, Sig: intBit}
}

func zero(neg bool) Value {
	return Value{Sign: signOf(neg), Tag: TagZero}
}
