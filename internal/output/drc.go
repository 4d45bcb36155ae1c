package output

import (
	"math"

	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/syntax"
)

// DRCRefLevel is the reference level of the program, -20 dB in quarter
// dB steps.
const DRCRefLevel = 80

// DRCOne is the control value for full compression or boost.
const DRCOne = 128

// gainFracBits is the precision of the band gains.
const gainFracBits = 28

// drcPow2 holds 2^(i/24) for the fractional part of a gain exponent,
// with gainFracBits fractional bits.
var drcPow2 [24]int32

func init() {
	for i := range drcPow2 {
		drcPow2[i] = int32(math.Round(math.Exp2(float64(i)/24) * (1 << gainFracBits)))
	}
}

// DRC applies the dynamic range control gains of dynamic_range_info() to
// the spectrum of a channel.
//
// Cut and Boost scale the transmitted compression and boost, from 0 (off)
// to DRCOne (as transmitted).
//
// Ported from: drc_info in ~/dev/faad2/libfaad/structs.h:85-101
type DRC struct {
	Cut   uint8
	Boost uint8
}

// NewDRC returns a DRC with the given cut and boost factors, clamped to
// DRCOne.
//
// Ported from: drc_init() in ~/dev/faad2/libfaad/drc.c:38-52
func NewDRC(cut, boost uint8) *DRC {
	return &DRC{Cut: min(cut, DRCOne), Boost: min(boost, DRCOne)}
}

// Enabled reports whether Apply can change a spectrum.
func (d *DRC) Enabled() bool {
	return d != nil && (d.Cut > 0 || d.Boost > 0)
}

// bandGain returns the gain of one band as an exponent of 2 in 1/24
// steps, so that a control value of 24 steps is 6 dB.
func (d *DRC) bandGain(info *syntax.DRCInfo, bd int) int {
	delta := int(info.DynRngCtl[bd]) - (DRCRefLevel - int(info.ProgRefLevel))
	if info.DynRngSgn[bd] != 0 {
		return -(int(d.Cut) * delta) / DRCOne
	}
	return (int(d.Boost) * delta) / DRCOne
}

// Apply scales coef band by band and returns the magnitude mask of the
// result. Band tops are in units of four spectral lines and the last band
// extends to the end of the frame. Callers skip Apply when the frame
// carries no DRC data or d is not Enabled.
func (d *DRC) Apply(info *syntax.DRCInfo, coef []int32) uint32 {
	var mask uint32
	bottom := 0
	for bd := 0; bd < int(info.NumBands); bd++ {
		top := 4 * (int(info.BandTop[bd]) + 1)
		if bd == int(info.NumBands)-1 || top > len(coef) {
			top = len(coef)
		}
		steps := d.bandGain(info, bd)
		whole, frac := steps/24, steps%24
		if frac < 0 {
			whole, frac = whole-1, frac+24
		}
		// 7-bit control fields keep whole within [-8, 8]
		g, shift := int64(drcPow2[frac]), uint(gainFracBits-whole)
		for i := bottom; i < top; i++ {
			coef[i] = fixed.Sat64((int64(coef[i])*g + 1<<(shift-1)) >> shift)
			mask |= uint32(fixed.Abs(coef[i]))
		}
		bottom = top
	}
	for i := bottom; i < len(coef); i++ {
		mask |= uint32(fixed.Abs(coef[i]))
	}
	return mask
}
