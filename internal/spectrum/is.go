package spectrum

import (
	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/syntax"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// ISDecode rebuilds the intensity bands of the right channel from the left:
// R = ±L * 2^(-pos/4) where pos is the right channel's intensity position.
// The polarity is that of the codebook, inverted when the M/S mask bit of
// the band is set. The left channel is not modified.
//
// Ported from: is_decode() in ~/dev/faad2/libfaad/is.c:46-106
func ISDecode(icsL, icsR *syntax.ICStream, l, r []int32) uint32 {
	var mask uint32
	forEachWindowBand(icsR, func(g, sfb uint8, _, start, end int) {
		dir := IsIntensity(bandCodebook(icsR, g, sfb))
		if dir == 0 {
			return
		}
		// -pos = 4*q + f with f in [0, 3]
		e := -int(icsR.ScaleFactors[g][sfb])
		q, f := e>>2, e&3
		scale := int64(tables.Pow14[f])
		neg := dir != invertIntensity(icsL, g, sfb)

		for i := start; i < end; i++ {
			v := intensityScale(l[i], scale, q)
			if neg {
				v = -v
			}
			r[i] = v
			mask |= uint32(fixed.Abs(v))
		}
	})
	return mask
}

// intensityScale returns x * scale * 2^q rounded, scale being Q30.
func intensityScale(x int32, scale int64, q int) int32 {
	s := 30 - q
	switch {
	case s <= 0:
		return fixed.Shift(fixed.Sat64((int64(x)*scale)>>30), q)
	case s >= 62:
		return 0
	}
	return fixed.Sat64((int64(x)*scale + int64(1)<<(s-1)) >> s)
}
