package fpu

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	maxFinite  = Value{Tag: TagValid, Exp: MaxExp, Sig: ^uint64(0)}
	minNormal  = Value{Tag: TagValid, Exp: MinExp, Sig: intBit}
	posInf     = ConstInf.Value(RoundNearest)
	negInf     = ConstNegInf.Value(RoundNearest)
	posZero    = ConstZero.Value(RoundNearest)
	negZero    = ConstNegZero.Value(RoundNearest)
	quietNaN   = Value{Tag: TagNaN, Sig: 0xc000000000001234}
	signalNaN  = Value{Tag: TagNaN, Sig: 0x8000000000005678}
	emptyValue = Value{Tag: TagEmpty}
)

type arithFn func(fpu *Fpu, a, b Value, dest int) (Completion, error)

var arithOps = map[string]arithFn{
	"add": (*Fpu).Add,
	"sub": (*Fpu).Sub,
	"mul": (*Fpu).Mul,
	"div": (*Fpu).Div,
}

// compute runs one operation on a fresh context, into ST(0) of a one deep
// stack.
func compute(op string, a, b Value, setup ...func(fpu *Fpu)) (fpu *Fpu, v Value, c Completion, err error) {
	fpu = NewFpu()
	for _, fn := range setup {
		fn(fpu)
	}
	_ = fpu.Push(FromFloat64(12345))
	fpu.ClearExceptions()
	c, err = arithOps[op](fpu, a, b, 0)
	v = fpu.ST(0)
	return
}

func rounding(rc RoundingMode) func(fpu *Fpu) {
	return func(fpu *Fpu) { fpu.Control.Rounding = rc }
}

func precision(pc Precision) func(fpu *Fpu) {
	return func(fpu *Fpu) { fpu.Control.Precision = pc }
}

func unmask(ex Exception) func(fpu *Fpu) {
	return func(fpu *Fpu) { fpu.Control.Masks &^= ex }
}

func TestArith_MulZeroSign(t *testing.T) {
	assert := assert.New(t)

	for _, a := range []float64{0, math.Copysign(0, -1)} {
		for _, b := range []float64{3, -3, 0, math.Copysign(0, -1), 5e-324, -1e300} {
			want := math.Signbit(a) != math.Signbit(b)

			for _, pair := range [][2]Value{{FromFloat64(a), FromFloat64(b)}, {FromFloat64(b), FromFloat64(a)}} {
				fpu, v, c, err := compute("mul", pair[0], pair[1])
				assert.NoError(err)
				assert.True(c.Pop())
				assert.Equal(TagZero, v.Tag, "%v * %v", a, b)
				assert.Equal(want, v.Negative(), "%v * %v", a, b)
				assert.Equal(Exception(0), fpu.Status.Flags&^DenormalOperand)
			}
		}
	}

	_, v, _, err := compute("mul", negZero, FromFloat64(3), func(fpu *Fpu) { fpu.Control.ZeroProductSign = ZeroSignPositive })
	assert.NoError(err)
	assert.Equal(posZero, v)
}

func TestArith_MulSign(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(3))
	for range 200 {
		a := (rng.Float64() - 0.5) * math.Ldexp(1, rng.Intn(40)-20)
		b := (rng.Float64() - 0.5) * math.Ldexp(1, rng.Intn(40)-20)
		_, v, _, err := compute("mul", FromFloat64(a), FromFloat64(b))
		assert.NoError(err)
		assert.Equal(math.Signbit(a) != math.Signbit(b), v.Negative(), "%v * %v", a, b)
	}
}

func TestArith_InvalidCombinations(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op   string
		a, b Value
	}){
		{"mul", posInf, posZero},
		{"mul", negZero, posInf},
		{"mul", negInf, negZero},
		{"add", posInf, negInf},
		{"sub", posInf, posInf},
		{"sub", negInf, negInf},
		{"div", posZero, negZero},
		{"div", posInf, negInf},
	}

	for _, entry := range table {
		fpu, v, c, err := compute(entry.op, entry.a, entry.b)
		assert.NoError(err)
		assert.True(c.Pop())
		assert.Equal(Indefinite(), v, "%v %v %v", entry.op, entry.a, entry.b)
		assert.Equal(InvalidOperation, fpu.Status.Flags)

		fpu, v, c, err = compute(entry.op, entry.a, entry.b, unmask(InvalidOperation))
		assert.True(errors.Is(err, ErrInvalidOperation))
		assert.Equal(Abort, c)
		assert.False(c.Pop())
		assert.Equal(FromFloat64(12345), v)
		assert.True(fpu.Status.Summary)
	}
}

func TestArith_Infinity(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op   string
		a, b Value
		v    Value
	}){
		{"add", posInf, posInf, posInf},
		{"sub", posInf, negInf, posInf},
		{"add", FromFloat64(-3), negInf, negInf},
		{"sub", FromFloat64(-3), negInf, posInf},
		{"mul", negInf, FromFloat64(2), negInf},
		{"mul", FromFloat64(-2), negInf, posInf},
		{"div", negInf, FromFloat64(2), negInf},
		{"div", FromFloat64(2), negInf, negZero},
	}

	for _, entry := range table {
		fpu, v, _, err := compute(entry.op, entry.a, entry.b)
		assert.NoError(err)
		assert.Equal(entry.v, v, "%v %v %v", entry.op, entry.a, entry.b)
		assert.Equal(Exception(0), fpu.Status.Flags)
	}
}

func TestArith_Cancellation(t *testing.T) {
	assert := assert.New(t)

	for _, x := range []float64{1, -3.5, 1e-300, 5e-324} {
		a := FromFloat64(x)

		_, v, _, err := compute("add", a, a.Neg())
		assert.NoError(err)
		assert.Equal(posZero, v, "%v", x)

		_, v, _, err = compute("sub", a, a)
		assert.NoError(err)
		assert.Equal(posZero, v, "%v", x)

		for _, rc := range []RoundingMode{RoundNearest, RoundUp, RoundZero} {
			_, v, _, _ = compute("add", a, a.Neg(), rounding(rc))
			assert.Equal(posZero, v, "%v %v", x, rc)
		}

		_, v, _, err = compute("add", a, a.Neg(), rounding(RoundDown))
		assert.NoError(err)
		assert.Equal(negZero, v, "%v", x)
	}

	// Zeros of opposite sign cancel the same way.
	_, v, _, _ := compute("add", posZero, negZero)
	assert.Equal(posZero, v)
	_, v, _, _ = compute("add", posZero, negZero, rounding(RoundDown))
	assert.Equal(negZero, v)
	_, v, _, _ = compute("add", negZero, negZero)
	assert.Equal(negZero, v)
}

func TestArith_Exact(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op   string
		a, b float64
		v    Value
	}){
		{"add", 1, 2, FromFloat64(3)},
		{"sub", 1, 2, FromFloat64(-1)},
		{"mul", 1.5, -4, FromFloat64(-6)},
		{"div", 1, 8, FromFloat64(0.125)},
		{"div", -9, 3, FromFloat64(-3)},
		{"add", 0, 7, FromFloat64(7)},
		{"sub", 0, 7, FromFloat64(-7)},
		// Wider than a float64 significand, exact in 64 bits.
		{"add", 0x1p40, 0x1p-20, Value{Tag: TagValid, Exp: 40, Sig: intBit | 8}},
		{"sub", 0x1p40, 0x1p-20, Value{Tag: TagValid, Exp: 39, Sig: 0xfffffffffffffff0}},
	}

	for _, entry := range table {
		fpu, v, _, err := compute(entry.op, FromFloat64(entry.a), FromFloat64(entry.b))
		assert.NoError(err)
		assert.Equal(entry.v, v, "%v %v %v", entry.op, entry.a, entry.b)
		assert.Equal(Exception(0), fpu.Status.Flags)
		assert.Equal(Condition(0), fpu.Status.Cond&C1)
	}
}

func TestArith_Divide(t *testing.T) {
	assert := assert.New(t)

	one, three := FromFloat64(1), FromFloat64(3)

	fpu, v, _, err := compute("div", one, three)
	assert.NoError(err)
	assert.Equal(Value{Tag: TagValid, Exp: -2, Sig: 0xaaaaaaaaaaaaaaab}, v)
	assert.Equal(Inexact, fpu.Status.Flags)
	assert.Equal(C1, fpu.Status.Cond&C1)

	fpu, v, _, err = compute("div", one, three, rounding(RoundZero))
	assert.NoError(err)
	assert.Equal(Value{Tag: TagValid, Exp: -2, Sig: 0xaaaaaaaaaaaaaaaa}, v)
	assert.Equal(Inexact, fpu.Status.Flags)
	assert.Equal(Condition(0), fpu.Status.Cond&C1)

	_, v, _, _ = compute("div", one.Neg(), three, rounding(RoundDown))
	assert.Equal(Value{Sign: Negative, Tag: TagValid, Exp: -2, Sig: 0xaaaaaaaaaaaaaaab}, v)

	_, v, _, _ = compute("div", one, three, precision(Precision24))
	assert.Equal(Value{Tag: TagValid, Exp: -2, Sig: 0xaaaaab0000000000}, v)

	_, v, _, _ = compute("div", one, three, precision(Precision53))
	assert.Equal(FromFloat64(1.0/3), v)
}

func TestArith_ZeroDivide(t *testing.T) {
	assert := assert.New(t)

	fpu, v, _, err := compute("div", FromFloat64(-2), posZero)
	assert.NoError(err)
	assert.Equal(negInf, v)
	assert.Equal(ZeroDivide, fpu.Status.Flags)

	_, v, _, _ = compute("div", FromFloat64(-2), negZero)
	assert.Equal(posInf, v)

	_, v, _, _ = compute("div", negZero, FromFloat64(3))
	assert.Equal(negZero, v)

	fpu, v, c, err := compute("div", FromFloat64(1), posZero, unmask(ZeroDivide))
	assert.True(errors.Is(err, ErrZeroDivide))
	assert.Equal(Abort, c)
	assert.Equal(FromFloat64(12345), v)
	assert.Equal(ZeroDivide, fpu.Status.Flags)
}

func TestArith_Overflow(t *testing.T) {
	assert := assert.New(t)

	two := FromFloat64(2)
	table := [](struct {
		rc  RoundingMode
		neg bool
		v   Value
	}){
		{RoundNearest, false, posInf},
		{RoundNearest, true, negInf},
		{RoundZero, false, maxFinite},
		{RoundZero, true, maxFinite.Neg()},
		{RoundUp, false, posInf},
		{RoundUp, true, maxFinite.Neg()},
		{RoundDown, false, maxFinite},
		{RoundDown, true, negInf},
	}

	for _, entry := range table {
		a := maxFinite
		if entry.neg {
			a = a.Neg()
		}
		fpu, v, _, err := compute("mul", a, two, rounding(entry.rc))
		assert.NoError(err)
		assert.Equal(entry.v, v, "%v %v", entry.rc, entry.neg)
		assert.Equal(Overflow|Inexact, fpu.Status.Flags)
	}

	_, v, _, _ := compute("mul", maxFinite, two, rounding(RoundZero), precision(Precision24))
	assert.Equal(Value{Tag: TagValid, Exp: MaxExp, Sig: 0xffffff0000000000}, v)

	// Rounding up into the next binade overflows too.
	_, v, _, _ = compute("add", maxFinite, Value{Tag: TagValid, Exp: MaxExp - 64, Sig: intBit})
	assert.Equal(posInf, v)

	fpu, _, c, err := compute("mul", maxFinite, two, unmask(Overflow))
	assert.True(errors.Is(err, ErrOverflow))
	assert.Equal(Abort, c)
	assert.Equal(Overflow, fpu.Status.Flags)
}

func TestArith_Underflow(t *testing.T) {
	assert := assert.New(t)

	two := FromFloat64(2)

	// Exact denormal results do not raise masked underflow.
	fpu, v, _, err := compute("div", minNormal, two)
	assert.NoError(err)
	assert.Equal(Value{Tag: TagDenormal, Exp: MinExp, Sig: 1 << 62}, v)
	assert.Equal(Exception(0), fpu.Status.Flags)

	// ... but do when unmasked.
	_, _, c, err := compute("div", minNormal, two, unmask(Underflow))
	assert.True(errors.Is(err, ErrUnderflow))
	assert.Equal(Abort, c)

	fpu, v, _, err = compute("mul", minNormal, minNormal)
	assert.NoError(err)
	assert.Equal(posZero, v)
	assert.Equal(Underflow|Inexact, fpu.Status.Flags)

	_, v, _, _ = compute("mul", minNormal, minNormal.Neg(), rounding(RoundDown))
	assert.Equal(Value{Sign: Negative, Tag: TagDenormal, Exp: MinExp, Sig: 1}, v)

	// Rounding a denormal back up to the smallest normal.
	almost := Value{Tag: TagValid, Exp: MinExp - 1, Sig: ^uint64(0)}
	_, v, _, err = compute("add", almost, posZero)
	assert.NoError(err)
	assert.Equal(minNormal, v)
}

func TestArith_Denormal(t *testing.T) {
	assert := assert.New(t)

	den := FromBits(0, 3)
	fpu, v, _, err := compute("add", den, posZero)
	assert.NoError(err)
	assert.Equal(den, v)
	assert.Equal(DenormalOperand, fpu.Status.Flags)

	fpu, v, _, err = compute("add", den, den)
	assert.NoError(err)
	assert.Equal(FromBits(0, 6), v)
	assert.Equal(DenormalOperand, fpu.Status.Flags)

	fpu, v, _, err = compute("mul", den, Value{Tag: TagValid, Exp: 16382, Sig: intBit})
	assert.NoError(err)
	assert.Equal(Value{Tag: TagValid, Exp: -62, Sig: 0xc000000000000000}, v)
	assert.Equal(DenormalOperand, fpu.Status.Flags)

	_, _, c, err := compute("add", den, posZero, unmask(DenormalOperand))
	assert.True(errors.Is(err, ErrDenormalOperand))
	assert.Equal(Abort, c)
}

func TestArith_NaN(t *testing.T) {
	assert := assert.New(t)

	one := FromFloat64(1)
	bigger := Value{Sign: Negative, Tag: TagNaN, Sig: 0xc000000000009999}

	table := [](struct {
		a, b  Value
		v     Value
		flags Exception
	}){
		{quietNaN, one, quietNaN, 0},
		{one, quietNaN, quietNaN, 0},
		{signalNaN, one, Value{Tag: TagNaN, Sig: 0xc000000000005678}, InvalidOperation},
		{quietNaN, bigger, bigger, 0},
		{bigger, quietNaN, bigger, 0},
		{quietNaN, quietNaN.Neg(), quietNaN, 0},
		{signalNaN, quietNaN, Value{Tag: TagNaN, Sig: 0xc000000000005678}, InvalidOperation},
		{posInf, quietNaN, quietNaN, 0},
	}

	for op := range arithOps {
		for n, entry := range table {
			fpu, v, _, err := compute(op, entry.a, entry.b)
			assert.NoError(err)
			assert.Equal(entry.v, v, "%v %d", op, n)
			assert.Equal(entry.flags, fpu.Status.Flags, "%v %d", op, n)
		}
	}

	_, _, c, err := compute("add", signalNaN, one, unmask(InvalidOperation))
	assert.True(errors.Is(err, ErrInvalidOperation))
	assert.Equal(Abort, c)
}

func TestArith_Empty(t *testing.T) {
	assert := assert.New(t)

	for op := range arithOps {
		fpu, v, c, err := compute(op, emptyValue, quietNaN)
		assert.NoError(err)
		assert.True(c.Pop())
		assert.Equal(Indefinite(), v)
		assert.Equal(StackUnderflow|InvalidOperation, fpu.Status.Flags)
		assert.Equal(C1, fpu.Status.Cond&C1)
	}
}

// The 53 and 24 bit precision modes must agree with the host's float64 and
// float32 arithmetic, wherever the host result is a normal number.
func TestArith_Precision(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(1))
	random := func() float64 {
		return (rng.Float64()*2 - 1) * math.Ldexp(1, rng.Intn(120)-60)
	}

	host64 := map[string]func(a, b float64) float64{
		"add": func(a, b float64) float64 { return a + b },
		"sub": func(a, b float64) float64 { return a - b },
		"mul": func(a, b float64) float64 { return a * b },
		"div": func(a, b float64) float64 { return a / b },
	}
	host32 := map[string]func(a, b float32) float32{
		"add": func(a, b float32) float32 { return a + b },
		"sub": func(a, b float32) float32 { return a - b },
		"mul": func(a, b float32) float32 { return a * b },
		"div": func(a, b float32) float32 { return a / b },
	}

	for range 500 {
		a, b := random(), random()
		for op, fn := range host64 {
			want := fn(a, b)
			if want == 0 || math.Abs(want) < 0x1p-1022 || math.IsInf(want, 0) || math.IsNaN(want) {
				continue
			}
			_, v, _, err := compute(op, FromFloat64(a), FromFloat64(b), precision(Precision53))
			assert.NoError(err)
			assert.Equal(FromFloat64(want), v, "%v %v %v", op, a, b)
		}

		fa, fb := float32(a), float32(b)
		for op, fn := range host32 {
			want := fn(fa, fb)
			if want == 0 || math.Abs(float64(want)) < 0x1p-126 || math.IsInf(float64(want), 0) || math.IsNaN(float64(want)) {
				continue
			}
			_, v, _, err := compute(op, FromFloat64(float64(fa)), FromFloat64(float64(fb)), precision(Precision24))
			assert.NoError(err)
			assert.Equal(FromFloat64(float64(want)), v, "%v %v %v", op, fa, fb)
		}
	}
}

func TestArith_RoundingModes(t *testing.T) {
	assert := assert.New(t)

	// 1 + 2^-64 sits halfway between 1 and 1 + 2^-63.
	one := FromFloat64(1)
	half := FromFloat64(0x1p-64)
	next := Value{Tag: TagValid, Exp: 0, Sig: intBit | 1}

	table := [](struct {
		rc  RoundingMode
		neg bool
		v   Value
		c1  bool
	}){
		{RoundNearest, false, one, false},
		{RoundUp, false, next, true},
		{RoundDown, false, one, false},
		{RoundZero, false, one, false},
		{RoundNearest, true, one.Neg(), false},
		{RoundUp, true, one.Neg(), false},
		{RoundDown, true, next.Neg(), true},
		{RoundZero, true, one.Neg(), false},
	}

	for _, entry := range table {
		a, b := one, half
		if entry.neg {
			a, b = a.Neg(), b.Neg()
		}
		fpu, v, _, err := compute("add", a, b, rounding(entry.rc))
		assert.NoError(err)
		assert.Equal(entry.v, v, "%v %v", entry.rc, entry.neg)
		assert.Equal(Inexact, fpu.Status.Flags)
		assert.Equal(entry.c1, fpu.Status.Cond&C1 != 0, "%v %v", entry.rc, entry.neg)
	}

	// Ties go to even.
	_, v, _, _ := compute("add", next, half)
	assert.Equal(Value{Tag: TagValid, Exp: 0, Sig: intBit | 2}, v)

	fpu, _, _, err := compute("add", one, half, unmask(Inexact))
	assert.True(errors.Is(err, ErrInexact))
	assert.Equal(Inexact, fpu.Status.Flags)
}
