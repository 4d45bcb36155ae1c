package spectrum

import (
	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/huffman"
	"github.com/llehouerou/go-heaac/internal/syntax"
)

// IsIntensity returns the intensity stereo direction for a codebook:
// 1 for in-phase (INTENSITY_HCB), -1 for out-of-phase (INTENSITY_HCB2),
// 0 otherwise.
//
// Ported from: is_intensity() in ~/dev/faad2/libfaad/is.h:43-54
func IsIntensity(cb huffman.Codebook) int8 {
	switch cb {
	case huffman.IntensityHCB:
		return 1
	case huffman.IntensityHCB2:
		return -1
	default:
		return 0
	}
}

// IsNoise reports whether the codebook marks a PNS band.
//
// Ported from: is_noise() in ~/dev/faad2/libfaad/pns.h:47-52
func IsNoise(cb huffman.Codebook) bool {
	return cb == huffman.NoiseHCB
}

func bandCodebook(ics *syntax.ICStream, g, sfb uint8) huffman.Codebook {
	return huffman.Codebook(ics.SFBCB[g][sfb])
}

// msUsed reports whether mid/side applies to band sfb of group g.
func msUsed(ics *syntax.ICStream, g, sfb uint8) bool {
	return ics.MSMaskPresent == 2 || (ics.MSMaskPresent == 1 && ics.MSUsed[g][sfb])
}

// invertIntensity returns -1 when the M/S mask flips the polarity of an
// intensity band.
func invertIntensity(ics *syntax.ICStream, g, sfb uint8) int8 {
	if ics.MSMaskPresent == 1 && ics.MSUsed[g][sfb] {
		return -1
	}
	return 1
}

// forEachWindowBand calls fn for every transmitted band of every window
// with the band's line range in window order.
func forEachWindowBand(ics *syntax.ICStream, fn func(g, sfb uint8, win, start, end int)) {
	win := 0
	for g := uint8(0); g < ics.NumWindowGroups; g++ {
		for w := uint8(0); w < ics.WindowGroupLength[g]; w++ {
			base := win * syntax.FrameLength / int(ics.NumWindows)
			for sfb := uint8(0); sfb < ics.MaxSFB; sfb++ {
				fn(g, sfb, win, base+int(ics.SWBOffset[sfb]), base+int(ics.SWBOffset[sfb+1]))
			}
			win++
		}
	}
}

func magnitudeMask(buf []int32) uint32 {
	var mask uint32
	for _, v := range buf {
		mask |= uint32(fixed.Abs(v))
	}
	return mask
}
