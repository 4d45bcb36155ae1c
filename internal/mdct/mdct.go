// Package mdct implements the fixed-point DCT-IV and the inverse MDCT
// built on it.
package mdct

import (
	"math"

	"github.com/llehouerou/go-heaac/internal/fft"
	"github.com/llehouerou/go-heaac/internal/fixed"
)

// GuardBitsIn is the headroom the DCT-IV input needs. Inputs with less are
// scaled down first and the output scaled back up with saturation.
const GuardBitsIn = fft.GuardBitsIn

// DCT4 computes a DCT-IV of size M with an M/2-point complex FFT between a
// pre- and post-rotation. The result is scaled by 1/(2M).
type DCT4 struct {
	m    int
	fft  *fft.FFT
	pre  []int32 // cos, sin of pi*(4k+1)/(4M) in Q31
	post []int32 // cos, sin of pi*n/M in Q31
	buf  []int32
}

// NewDCT4 returns a DCT-IV of size m, a power of two of at least 8.
func NewDCT4(m int) *DCT4 {
	l := m / 2
	d := &DCT4{
		m:    m,
		fft:  fft.New(l),
		pre:  make([]int32, 2*l),
		post: make([]int32, 2*l),
		buf:  make([]int32, 2*l),
	}
	for k := 0; k < l; k++ {
		a := math.Pi * float64(4*k+1) / float64(4*m)
		d.pre[2*k], d.pre[2*k+1] = q31(math.Cos(a)), q31(math.Sin(a))
		b := math.Pi * float64(k) / float64(m)
		d.post[2*k], d.post[2*k+1] = q31(math.Cos(b)), q31(math.Sin(b))
	}
	return d
}

// Size returns M.
func (d *DCT4) Size() int {
	return d.m
}

// Transform replaces x[0:M] with its DCT-IV divided by 2M. x needs
// GuardBitsIn guard bits.
func (d *DCT4) Transform(x []int32) {
	m, l := d.m, d.m/2
	z := d.buf
	_ = x[m-1]

	// z[k] = (x[2k] + i*x[M-1-2k]) * exp(-i*pi*(4k+1)/(4M))
	for k := 0; k < l; k++ {
		ar, ai := x[2*k], x[m-1-2*k]
		c, s := d.pre[2*k], d.pre[2*k+1]
		z[2*k] = fixed.MulShift32(ar, c) + fixed.MulShift32(ai, s)
		z[2*k+1] = fixed.MulShift32(ai, c) - fixed.MulShift32(ar, s)
	}

	d.fft.Forward(z)

	// u[n] = Z[n] * exp(-i*pi*n/M); y[2n] = Re u, y[M-1-2n] = -Im u
	for n := 0; n < l; n++ {
		zr, zi := z[2*n], z[2*n+1]
		c, s := d.post[2*n], d.post[2*n+1]
		x[2*n] = fixed.MulShift32(zr, c) + fixed.MulShift32(zi, s)
		x[m-1-2*n] = fixed.MulShift32(zr, s) - fixed.MulShift32(zi, c)
	}
}

// IMDCT maps M coefficients to 2M aliased time samples.
//
// With coefficients carrying F fractional bits the output equals the
// ISO/IEC 14496-3 IMDCT (scale 2/N) times 2^(F-1).
type IMDCT struct {
	dct *DCT4
}

// NewIMDCT returns an inverse MDCT taking m coefficients.
func NewIMDCT(m int) *IMDCT {
	return &IMDCT{dct: NewDCT4(m)}
}

// Size returns the number of input coefficients.
func (t *IMDCT) Size() int {
	return t.dct.m
}

// Transform computes the IMDCT of coef into out[0:2M]. coef is used as
// scratch and left holding the DCT-IV output. gb is the guard-bit count
// of coef; any deficit against GuardBitsIn is scaled out and back in.
func (t *IMDCT) Transform(coef, out []int32, gb int) {
	m := t.dct.m
	coef = coef[:m]
	_ = out[2*m-1]

	es := 0
	if gb < GuardBitsIn {
		es = GuardBitsIn - gb
		for i, v := range coef {
			coef[i] = v >> uint(es)
		}
	}

	t.dct.Transform(coef)

	// 0 <= n < M/2:      out[n] = y[M/2+n]
	// M/2 <= n < 3M/2:   out[n] = -y[3M/2-1-n]
	// 3M/2 <= n < 2M:    out[n] = -y[n-3M/2]
	h := m / 2
	for n := 0; n < h; n++ {
		out[n] = fixed.ShiftLeftSat(coef[h+n], uint(es))
		out[h+n] = fixed.ShiftLeftSat(negSat(coef[m-1-n]), uint(es))
		out[m+n] = fixed.ShiftLeftSat(negSat(coef[h-1-n]), uint(es))
		out[3*h+n] = fixed.ShiftLeftSat(negSat(coef[n]), uint(es))
	}
}

func negSat(v int32) int32 {
	if v == math.MinInt32 {
		return math.MaxInt32
	}
	return -v
}

func q31(v float64) int32 {
	r := math.Round(v * (1 << 31))
	return int32(max(min(r, math.MaxInt32), math.MinInt32))
}
