package spectrum

import (
	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/syntax"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// lpcFracBits is the precision of direct-form TNS coefficients.
const lpcFracBits = 20

// tnsDecodeCoef converts transmitted coefficient indices to direct-form LPC
// coefficients lpc[1..order] in Q20 with the Levinson step-up recursion.
// lpc[0] is 1.
//
// Ported from: tns_decode_coef() in ~/dev/faad2/libfaad/tns.c:193-242
func tnsDecodeCoef(order uint8, coefRes, compress uint8, coef []uint8, lpc []int32) {
	table := tables.TNSCoefficients(compress != 0, coefRes+3)

	var b [syntax.MaxTNSOrder + 1]int32
	lpc[0] = 1 << lpcFracBits
	for m := 1; m <= int(order); m++ {
		k := table[coef[m-1]] >> (31 - lpcFracBits)
		lpc[m] = k
		for i := 1; i < m; i++ {
			b[i] = lpc[i] + int32((int64(k)*int64(lpc[m-i])+1<<(lpcFracBits-1))>>lpcFracBits)
		}
		copy(lpc[1:m], b[1:m])
	}
}

// arFilter runs the all-pole synthesis filter
// y[n] = x[n] - sum(lpc[j] * y[n-j]) over size values of spec starting at
// index 0 and stepping by inc. It returns the OR of the output magnitudes.
func arFilter(spec []int32, start, size, inc int, lpc []int32, order int) uint32 {
	var state [syntax.MaxTNSOrder]int32
	var mask uint32

	for n, k := 0, start; n < size; n, k = n+1, k+inc {
		acc := int64(spec[k]) << lpcFracBits
		for j := 0; j < order; j++ {
			acc -= int64(lpc[j+1]) * int64(state[j])
		}
		y := fixed.Sat64((acc + 1<<(lpcFracBits-1)) >> lpcFracBits)

		copy(state[1:order], state[:order-1])
		state[0] = y
		spec[k] = y
		mask |= uint32(fixed.Abs(y))
	}
	return mask
}

// maFilter is the inverse of arFilter: the all-zero analysis filter
// e[n] = x[n] + sum(lpc[j] * x[n-j]).
func maFilter(spec []int32, start, size, inc int, lpc []int32, order int) {
	var state [syntax.MaxTNSOrder]int32

	for n, k := 0, start; n < size; n, k = n+1, k+inc {
		x := spec[k]
		var acc int64
		for j := 0; j < order; j++ {
			acc += int64(lpc[j+1]) * int64(state[j])
		}
		// rounded as arFilter rounds so the pair cancels exactly
		spec[k] = fixed.Sat64(int64(x) - (-acc+1<<(lpcFracBits-1))>>lpcFracBits)

		copy(state[1:order], state[:order-1])
		state[0] = x
	}
}

// tnsRegion is one filter's span within a window.
type tnsRegion struct {
	start, size, inc int
	order            int
	lpc              [syntax.MaxTNSOrder + 1]int32
}

// tnsRegions decodes the filters of window w and passes each non-empty
// region to fn. Regions are given in window-order line indices.
func tnsRegions(ics *syntax.ICStream, srIndex uint8, w uint8, fn func(r *tnsRegion)) {
	tns := &ics.TNS
	maxBands := tables.TNSMaxBands(srIndex, ics.IsShort())
	base := int(w) * syntax.FrameLength / int(ics.NumWindows)
	limit := min(maxBands, ics.MaxSFB)

	bottom := int(ics.NumSWB)
	for f := uint8(0); f < tns.NFilt[w]; f++ {
		top := bottom
		bottom = max(top-int(tns.Length[w][f]), 0)
		order := tns.Order[w][f]
		if order == 0 {
			continue
		}

		var r tnsRegion
		r.order = int(order)
		tnsDecodeCoef(order, tns.CoefRes[w], tns.CoefCompress[w][f], tns.Coef[w][f][:], r.lpc[:])

		start := int(ics.SWBOffset[min(bottom, int(limit))])
		end := int(ics.SWBOffset[min(top, int(limit))])
		r.size = end - start
		if r.size <= 0 {
			continue
		}
		r.inc = 1
		r.start = base + start
		if tns.Direction[w][f] != 0 {
			r.inc = -1
			r.start = base + end - 1
		}
		fn(&r)
	}
}

// TNSDecode applies the TNS synthesis filters of every window to coef,
// which must be in window order. It returns the OR of the filtered output.
func TNSDecode(ics *syntax.ICStream, srIndex uint8, coef []int32) uint32 {
	if !ics.TNSDataPresent {
		return 0
	}
	var mask uint32
	for w := uint8(0); w < ics.NumWindows; w++ {
		tnsRegions(ics, srIndex, w, func(r *tnsRegion) {
			mask |= arFilter(coef, r.start, r.size, r.inc, r.lpc[:], r.order)
		})
	}
	return mask
}

// TNSEncode applies the analysis filters matching TNSDecode. Running
// TNSEncode then TNSDecode with the same side information restores the
// input unless the analysis output saturated.
func TNSEncode(ics *syntax.ICStream, srIndex uint8, coef []int32) {
	if !ics.TNSDataPresent {
		return
	}
	for w := uint8(0); w < ics.NumWindows; w++ {
		tnsRegions(ics, srIndex, w, func(r *tnsRegion) {
			maFilter(coef, r.start, r.size, r.inc, r.lpc[:], r.order)
		})
	}
}
