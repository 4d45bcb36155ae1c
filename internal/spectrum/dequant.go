package spectrum

import (
	"math/bits"

	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/syntax"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// CoefFracBits is the number of fractional bits of dequantized
// coefficients.
const CoefFracBits = 5

// scaleFactorOffset is the scalefactor giving unit gain.
const scaleFactorOffset = 100

// dequantBand dequantizes quant into coef with scalefactor sf and returns
// the OR of the output magnitudes.
func dequantBand(quant []int16, coef []int32, sf int) uint32 {
	// sf - 100 = 4*qsf + r with r in [0, 3]
	e := sf - scaleFactorOffset
	qsf, r := e>>2, e&3
	p14 := tables.Pow14[r]

	var mask uint32
	for i, q := range quant {
		x := int32(q)
		if x == 0 {
			coef[i] = 0
			continue
		}
		neg := x < 0
		if neg {
			x = -x
		}

		var y int32
		if x < tables.Pow43SmallSize {
			m := fixed.MulShift32(tables.Pow43Small[x], p14) // Q21
			y = fixed.Shift(m, qsf+CoefFracBits-21)
		} else {
			y = pow43Large(x, qsf, p14)
		}

		mask |= uint32(y)
		if neg {
			y = -y
		}
		coef[i] = y
	}
	return mask
}

// pow43Large computes x^(4/3) * 2^qsf * p14 for x >= Pow43SmallSize. x is
// normalized to t = x/2^L in [0.5, 1) so that x^(4/3) = t^(4/3) * 2^(4L/3).
func pow43Large(x int32, qsf int, p14 int32) int32 {
	l := bits.Len32(uint32(x))
	t := x << uint(31-l) // Q31

	poly := &tables.Pow43Poly[0]
	if t >= 3<<29 {
		poly = &tables.Pow43Poly[1]
	}
	m := poly[0]
	for _, c := range poly[1:] {
		m = fixed.MulShift32(m, t)<<1 + c
	}

	// 4L/3 = q + f/3
	q, f := 4*l/3, 4*l%3
	m = int32((int64(m) * int64(tables.Pow2Frac[f])) >> 30)
	m = int32((int64(m) * int64(p14)) >> 30) // Q28
	return fixed.Shift(m, q+qsf+CoefFracBits-28)
}

// Dequantize reconstructs the coefficients of one channel from its
// quantized spectrum, both in bitstream order. Bands outside max_sfb and
// bands without Huffman data are zeroed. The OR of the output magnitudes
// is returned.
func Dequantize(ics *syntax.ICStream, quant []int16, coef []int32) uint32 {
	clear(coef[:syntax.FrameLength])

	var mask uint32
	base := 0
	for g := uint8(0); g < ics.NumWindowGroups; g++ {
		offsets := &ics.SectSFBOffset[g]
		for sfb := uint8(0); sfb < ics.MaxSFB; sfb++ {
			if !bandCodebook(ics, g, sfb).IsSpectral() {
				continue
			}
			start := base + int(offsets[sfb])
			end := base + int(offsets[sfb+1])
			mask |= dequantBand(quant[start:end], coef[start:end], int(ics.ScaleFactors[g][sfb]))
		}
		base += int(offsets[ics.NumSWB])
	}
	return mask
}

// DeinterleaveShort reorders the coefficients of an eight-short-sequence
// from bitstream order (group, band, window) to window order using tmp as
// scratch. Long windows are left untouched.
func DeinterleaveShort(ics *syntax.ICStream, coef, tmp []int32) {
	if !ics.IsShort() {
		return
	}
	copy(tmp[:syntax.FrameLength], coef[:syntax.FrameLength])

	src := 0
	win := 0
	for g := uint8(0); g < ics.NumWindowGroups; g++ {
		n := int(ics.WindowGroupLength[g])
		for sfb := uint8(0); sfb < ics.NumSWB; sfb++ {
			width := int(ics.SWBOffset[sfb+1] - ics.SWBOffset[sfb])
			for w := 0; w < n; w++ {
				dst := (win+w)*tables.ShortFrameLength + int(ics.SWBOffset[sfb])
				copy(coef[dst:dst+width], tmp[src:src+width])
				src += width
			}
		}
		win += n
	}
}
