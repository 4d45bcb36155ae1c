package spectrum

import (
	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/syntax"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// noiseBand fills dst with generator output normalized so the band's energy
// is 2^(nrg/2), scaled to CoefFracBits. It returns the OR of the output
// magnitudes.
func noiseBand(dst []int32, nrg int, rng *NoiseRNG) uint32 {
	var energy uint64
	for i := range dst {
		v := int32(rng.Next()) >> 16
		dst[i] = v
		energy += uint64(int64(v) * int64(v))
	}
	if energy == 0 {
		return 0
	}

	// 1/sqrt(energy) = m * 2^e, m in Q30
	m, e := fixed.InvSqrt(energy)
	// 2^(nrg/4) = 2^q * Pow14[f] / 2^30
	q, f := nrg>>2, nrg&3
	gain := int64(fixed.MulShift32(m, tables.Pow14[f])) // Q28
	shift := e + q + CoefFracBits - 28

	var mask uint32
	for i, v := range dst {
		p := int64(v) * gain
		var y int32
		switch {
		case shift >= 0:
			// |p| >= 2^28 for v != 0, so 16 bits already saturate
			y = fixed.Sat64(p << uint(min(shift, 16)))
		case shift > -63:
			y = fixed.Sat64((p + int64(1)<<uint(-shift-1)) >> uint(-shift))
		}
		dst[i] = y
		mask |= uint32(fixed.Abs(y))
	}
	return mask
}

// PNSDecode substitutes noise for the noise bands of a single channel.
func PNSDecode(ics *syntax.ICStream, coef []int32, rng *NoiseRNG) uint32 {
	var mask uint32
	forEachWindowBand(ics, func(g, sfb uint8, _, start, end int) {
		if IsNoise(bandCodebook(ics, g, sfb)) {
			mask |= noiseBand(coef[start:end], int(ics.ScaleFactors[g][sfb]), rng)
		}
	})
	return mask
}

// PNSDecodePair substitutes noise in both channels of a pair, left before
// right. When both channels carry noise in a band and the M/S mask marks
// it, the right channel reuses the left channel's noise vector at its own
// energy.
func PNSDecodePair(icsL, icsR *syntax.ICStream, l, r []int32, commonWindow bool, rng *NoiseRNG) (maskL, maskR uint32) {
	if !commonWindow {
		return PNSDecode(icsL, l, rng), PNSDecode(icsR, r, rng)
	}

	var seeds [8][syntax.MaxSFB]uint32
	forEachWindowBand(icsL, func(g, sfb uint8, win, start, end int) {
		if IsNoise(bandCodebook(icsL, g, sfb)) {
			seeds[win][sfb] = rng.State()
			maskL |= noiseBand(l[start:end], int(icsL.ScaleFactors[g][sfb]), rng)
		}
	})
	forEachWindowBand(icsR, func(g, sfb uint8, win, start, end int) {
		if !IsNoise(bandCodebook(icsR, g, sfb)) {
			return
		}
		nrg := int(icsR.ScaleFactors[g][sfb])
		if IsNoise(bandCodebook(icsL, g, sfb)) && msUsed(icsL, g, sfb) {
			shared := NewNoiseRNG(seeds[win][sfb])
			maskR |= noiseBand(r[start:end], nrg, shared)
			return
		}
		maskR |= noiseBand(r[start:end], nrg, rng)
	})
	return maskL, maskR
}
