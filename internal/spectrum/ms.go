package spectrum

import (
	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/syntax"
)

// MSDecode converts mid/side bands of a common-window pair back to
// left/right in place: L = M + S, R = M - S. Bands coded as intensity in
// the right channel or as noise in the left are skipped. gb is the
// smaller guard-bit count of the two channels; without a spare bit the
// inputs are clipped to 2^30 so the sums cannot wrap. The returned masks
// cover the rewritten bands of each channel.
//
// Ported from: ms_decode() in ~/dev/faad2/libfaad/ms.c:39-77
func MSDecode(icsL, icsR *syntax.ICStream, l, r []int32, gb int) (maskL, maskR uint32) {
	if icsL.MSMaskPresent == 0 {
		return 0, 0
	}
	clip := gb < 1

	forEachWindowBand(icsL, func(g, sfb uint8, _, start, end int) {
		if !msUsed(icsL, g, sfb) {
			return
		}
		if IsIntensity(bandCodebook(icsR, g, sfb)) != 0 || IsNoise(bandCodebook(icsL, g, sfb)) {
			return
		}
		for i := start; i < end; i++ {
			a, b := l[i], r[i]
			if clip {
				a, b = fixed.Clip2N(a, 30), fixed.Clip2N(b, 30)
			}
			l[i], r[i] = a+b, a-b
			maskL |= uint32(fixed.Abs(l[i]))
			maskR |= uint32(fixed.Abs(r[i]))
		}
	})
	return maskL, maskR
}
