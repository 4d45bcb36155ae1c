// Package fft implements the fixed-point complex FFT behind the IMDCT.
//
// Data is interleaved: x[2k] is the real part of element k and x[2k+1] the
// imaginary part. Every butterfly stage scales by 1/2 or 1/4 so the output
// is the DFT divided by the transform size.
package fft

import (
	"math"
	"math/bits"

	"github.com/llehouerou/go-heaac/internal/fixed"
)

// GuardBitsIn is the headroom the input needs so that no stage overflows.
const GuardBitsIn = 4

// sqrtHalf is sqrt(1/2) in Q31.
const sqrtHalf = 0x5a82799a

// FFT is a forward complex FFT of a fixed power-of-two size.
//
// Sizes with an even log2 run radix-4 stages only. Odd sizes start with a
// radix-8 pass and continue with radix-4.
type FFT struct {
	n       int
	log2n   int
	swaps   [][2]int
	twiddle []int32 // cos, sin pairs in Q31, stage after stage
}

// New returns an FFT of size n. n must be a power of two of at least 4.
func New(n int) *FFT {
	if n < 4 || n&(n-1) != 0 {
		panic("fft: size must be a power of two >= 4")
	}
	f := &FFT{n: n, log2n: bits.TrailingZeros(uint(n))}

	for i := 0; i < n; i++ {
		j := int(bits.Reverse(uint(i)) >> (bits.UintSize - f.log2n))
		if i < j {
			f.swaps = append(f.swaps, [2]int{i, j})
		}
	}

	span := 4
	if f.log2n&1 == 1 {
		span = 8
	}
	for ; span < n; span *= 4 {
		n4 := 4 * span
		for k := 0; k < span; k++ {
			for _, m := range [3]int{2 * k, k, 3 * k} {
				a := -2 * math.Pi * float64(m) / float64(n4)
				f.twiddle = append(f.twiddle, q31(math.Cos(a)), q31(math.Sin(a)))
			}
		}
	}
	return f
}

// Size returns the number of complex points.
func (f *FFT) Size() int {
	return f.n
}

// Forward transforms x in place. len(x) must be 2*Size. The input must
// have at least GuardBitsIn guard bits.
//
// Ported from: cfftf() in ~/dev/faad2/libfaad/cfft.c:896-899
func (f *FFT) Forward(x []int32) {
	_ = x[2*f.n-1]
	for _, s := range f.swaps {
		i, j := 2*s[0], 2*s[1]
		x[i], x[j] = x[j], x[i]
		x[i+1], x[j+1] = x[j+1], x[i+1]
	}

	span := 4
	if f.log2n&1 == 1 {
		radix8First(x, f.n)
		span = 8
	} else {
		radix4First(x, f.n)
	}

	tw := f.twiddle
	for ; span < f.n; span *= 4 {
		radix4Pass(x, f.n, span, tw)
		tw = tw[6*span:]
	}
}

// radix4First runs the first radix-4 stage on bit-reversed input, scaling
// by 1/4. Within a group the inputs are ordered x0, x2, x1, x3.
func radix4First(x []int32, n int) {
	for b := 0; b < 2*n; b += 8 {
		t0r, t0i := x[b]+x[b+2], x[b+1]+x[b+3]
		t1r, t1i := x[b]-x[b+2], x[b+1]-x[b+3]
		t2r, t2i := x[b+4]+x[b+6], x[b+5]+x[b+7]
		t3r, t3i := x[b+4]-x[b+6], x[b+5]-x[b+7]

		x[b], x[b+1] = (t0r+t2r)>>2, (t0i+t2i)>>2
		x[b+4], x[b+5] = (t0r-t2r)>>2, (t0i-t2i)>>2
		x[b+2], x[b+3] = (t1r+t3i)>>2, (t1i-t3r)>>2
		x[b+6], x[b+7] = (t1r-t3i)>>2, (t1i+t3r)>>2
	}
}

// radix8First runs three radix-2 levels over groups of eight, each
// scaling by 1/2.
func radix8First(x []int32, n int) {
	for b := 0; b < 2*n; b += 16 {
		// span 1
		for p := b; p < b+16; p += 4 {
			ar, ai, br, bi := x[p], x[p+1], x[p+2], x[p+3]
			x[p], x[p+1] = (ar+br)>>1, (ai+bi)>>1
			x[p+2], x[p+3] = (ar-br)>>1, (ai-bi)>>1
		}
		// span 2, twiddles 1 and -i
		for q := b; q < b+16; q += 8 {
			for k := 0; k < 2; k++ {
				i, j := q+2*k, q+2*k+4
				ar, ai, br, bi := x[i], x[i+1], x[j], x[j+1]
				if k == 1 {
					br, bi = bi, -br
				}
				x[i], x[i+1] = (ar+br)>>1, (ai+bi)>>1
				x[j], x[j+1] = (ar-br)>>1, (ai-bi)>>1
			}
		}
		// span 4, twiddles exp(-i*pi*k/4)
		for k := 0; k < 4; k++ {
			i, j := b+2*k, b+2*k+8
			ar, ai, br, bi := x[i], x[i+1], x[j], x[j+1]
			switch k {
			case 1:
				br, bi = fixed.MulShift32(br+bi, sqrtHalf)<<1, fixed.MulShift32(bi-br, sqrtHalf)<<1
			case 2:
				br, bi = bi, -br
			case 3:
				br, bi = fixed.MulShift32(bi-br, sqrtHalf)<<1, fixed.MulShift32(-br-bi, sqrtHalf)<<1
			}
			x[i], x[i+1] = (ar+br)>>1, (ai+bi)>>1
			x[j], x[j+1] = (ar-br)>>1, (ai-bi)>>1
		}
	}
}

// radix4Pass combines groups of four sub-transforms of size span into
// transforms of size 4*span, scaling by 1/4. The sub-transforms sit in
// bit-reversed order: even-even, even-odd, odd-even, odd-odd.
func radix4Pass(x []int32, n, span int, tw []int32) {
	for b := 0; b < n; b += 4 * span {
		for k := 0; k < span; k++ {
			i0 := 2 * (b + k)
			i1 := i0 + 2*span
			i2 := i1 + 2*span
			i3 := i2 + 2*span
			w := tw[6*k : 6*k+6]

			ar, ai := x[i0]>>1, x[i0+1]>>1
			br, bi := cmul(x[i1], x[i1+1], w[0], w[1])
			cr, ci := cmul(x[i2], x[i2+1], w[2], w[3])
			dr, di := cmul(x[i3], x[i3+1], w[4], w[5])

			t0r, t0i := ar+br, ai+bi
			t1r, t1i := ar-br, ai-bi
			t2r, t2i := cr+dr, ci+di
			t3r, t3i := cr-dr, ci-di

			x[i0], x[i0+1] = (t0r+t2r)>>1, (t0i+t2i)>>1
			x[i2], x[i2+1] = (t0r-t2r)>>1, (t0i-t2i)>>1
			x[i1], x[i1+1] = (t1r+t3i)>>1, (t1i-t3r)>>1
			x[i3], x[i3+1] = (t1r-t3i)>>1, (t1i+t3r)>>1
		}
	}
}

// cmul returns (re + i*im) * (c + i*s) / 2 with c, s in Q31.
func cmul(re, im, c, s int32) (int32, int32) {
	return fixed.MulShift32(re, c) - fixed.MulShift32(im, s),
		fixed.MulShift32(re, s) + fixed.MulShift32(im, c)
}

func q31(v float64) int32 {
	r := math.Round(v * (1 << 31))
	if r > math.MaxInt32 {
		return math.MaxInt32
	}
	if r < math.MinInt32 {
		return math.MinInt32
	}
	return int32(r)
}
