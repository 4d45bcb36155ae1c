package syntax

import (
	"github.com/llehouerou/go-heaac/internal/bits"
	"github.com/llehouerou/go-heaac/internal/huffman"
)

// DecodeScaleFactors decodes scale_factor_data(). Three running values are
// kept: the scalefactor starting at global_gain, the intensity position
// starting at 0, and the noise energy starting at global_gain - 90 whose
// first value is sent as a 9-bit PCM offset.
//
// Ported from: decode_scale_factors() in ~/dev/faad2/libfaad/syntax.c:1894-1985
func DecodeScaleFactors(r *bits.Reader, ics *ICStream) error {
	scaleFactor := int16(ics.GlobalGain)
	isPosition := int16(0)
	noiseEnergy := int16(ics.GlobalGain) - 90
	noisePCM := true

	for g := uint8(0); g < ics.NumWindowGroups; g++ {
		for sfb := uint8(0); sfb < ics.MaxSFB; sfb++ {
			switch cb := huffman.Codebook(ics.SFBCB[g][sfb]); {
			case cb == huffman.ZeroHCB:
				ics.ScaleFactors[g][sfb] = 0

			case cb.IsIntensity():
				isPosition += int16(huffman.ScaleFactor(r))
				ics.ScaleFactors[g][sfb] = isPosition

			case cb == huffman.NoiseHCB:
				if noisePCM {
					noisePCM = false
					noiseEnergy += int16(r.GetBits(9)) - 256
				} else {
					noiseEnergy += int16(huffman.ScaleFactor(r))
				}
				ics.ScaleFactors[g][sfb] = noiseEnergy

			default:
				scaleFactor += int16(huffman.ScaleFactor(r))
				if scaleFactor < 0 || scaleFactor > 255 {
					return ErrScaleFactorRange
				}
				ics.ScaleFactors[g][sfb] = scaleFactor
			}
		}
	}
	return nil
}
