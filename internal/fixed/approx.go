package fixed

import "math/bits"

// InvSqrt returns m, e such that 1/sqrt(x) ≈ m * 2^e with m in Q30.
// x must be positive. Four Newton-Raphson steps are run on the mantissa
// after normalizing x to [0.25, 1) with an even shift.
func InvSqrt(x uint64) (m int32, e int) {
	if x == 0 {
		return 0x7fffffff, 0
	}
	// x = f * 2^(2k) with f in [0.25, 1)
	shift := bits.LeadingZeros64(x) - 1
	if shift&1 == 0 {
		shift--
	}
	var n uint64
	if shift >= 0 {
		n = x << uint(shift)
	} else {
		n = x >> uint(-shift)
	}
	f := int64(n >> 32) // Q31
	k := (63 - shift) / 2

	// y0 = 2.5 - 1.5f is within 25% of 1/sqrt(f) on [0.25, 1)
	y := int64(5<<29) - (3*f)>>2
	for i := 0; i < 4; i++ {
		y2 := (y * y) >> 30 // Q30
		t := (f * y2) >> 31 // Q30
		y = (y * (3<<30 - t)) >> 31
	}
	if y > 0x7fffffff {
		y = 0x7fffffff
	}
	return int32(y), -k
}

// Sqrt64 returns floor(sqrt(x)).
func Sqrt64(x uint64) uint64 {
	if x < 2 {
		return x
	}
	// start from a power of two above the root
	r := uint64(1) << uint((bits.Len64(x)+1)/2)
	for {
		n := (r + x/r) >> 1
		if n >= r {
			return r
		}
		r = n
	}
}

// Float is a software pseudo-float: the value is M * 2^E with |M| kept in
// [2^29, 2^30) unless the value is zero. It carries the wide dynamic range
// energy and gain computations without losing precision to fixed scaling.
type Float struct {
	M int32
	E int
}

const floatNormLo = 1 << 29

func normFloat(m int64, e int) Float {
	if m == 0 {
		return Float{}
	}
	neg := m < 0
	if neg {
		m = -m
	}
	lz := bits.LeadingZeros64(uint64(m))
	// target: bit 29 is the MSB, i.e. 34 leading zeros
	s := lz - 34
	if s > 0 {
		m <<= uint(s)
	} else if s < 0 {
		m >>= uint(-s)
	}
	e -= s
	if neg {
		m = -m
	}
	return Float{M: int32(m), E: e}
}

// NewFloat returns v * 2^e.
func NewFloat(v int64, e int) Float {
	return normFloat(v, e)
}

// IsZero reports whether f is zero.
func (f Float) IsZero() bool {
	return f.M == 0
}

// Mul returns f*g.
func (f Float) Mul(g Float) Float {
	if f.M == 0 || g.M == 0 {
		return Float{}
	}
	return normFloat((int64(f.M)*int64(g.M))>>29, f.E+g.E+29)
}

// Div returns f/g. Division by zero saturates to a large positive value.
func (f Float) Div(g Float) Float {
	if f.M == 0 {
		return Float{}
	}
	if g.M == 0 {
		return Float{M: floatNormLo, E: 64}
	}
	return normFloat((int64(f.M)<<30)/int64(g.M), f.E-g.E-30)
}

// Add returns f+g.
func (f Float) Add(g Float) Float {
	if f.M == 0 {
		return g
	}
	if g.M == 0 {
		return f
	}
	if f.E < g.E {
		f, g = g, f
	}
	d := f.E - g.E
	if d > 40 {
		return f
	}
	// keep 16 extra bits of precision for the smaller operand
	a := int64(f.M) << 16
	b := (int64(g.M) << 16) >> uint(d)
	return normFloat(a+b, f.E-16)
}

// Sub returns f-g.
func (f Float) Sub(g Float) Float {
	return f.Add(Float{M: -g.M, E: g.E})
}

// Less reports whether f < g.
func (f Float) Less(g Float) bool {
	return f.Sub(g).M < 0
}

// Min returns the smaller of f and g.
func (f Float) Min(g Float) Float {
	if g.Less(f) {
		return g
	}
	return f
}

// Sqrt returns the square root of a non-negative f.
func (f Float) Sqrt() Float {
	if f.M <= 0 {
		return Float{}
	}
	m := uint64(f.M)
	e := f.E
	if e&1 != 0 {
		m <<= 1
		e--
	}
	// sqrt(m * 2^32) = sqrt(m) * 2^16
	r := Sqrt64(m << 32)
	return normFloat(int64(r), e/2-16)
}

// Int returns f scaled by 2^shift as a saturated int32.
func (f Float) Int(shift int) int32 {
	if f.M == 0 {
		return 0
	}
	e := f.E + shift
	switch {
	case e >= 2:
		return ShiftLeftSat(f.M, uint(e))
	case e >= 0:
		return Sat64(int64(f.M) << uint(e))
	case e > -31:
		return RoundShift(f.M, uint(-e))
	}
	return 0
}

// Pow2Half returns 2^(k/2) as a Float.
func Pow2Half(k int) Float {
	const sqrt2Q29 = 759250125 // round(sqrt(2) * 2^29)
	e := k >> 1
	if k&1 != 0 {
		return Float{M: sqrt2Q29, E: e - 29}
	}
	return Float{M: floatNormLo, E: e - 29}
}
