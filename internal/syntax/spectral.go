package syntax

import (
	"github.com/llehouerou/go-heaac/internal/bits"
	"github.com/llehouerou/go-heaac/internal/huffman"
)

// ParseSpectralData decodes spectral_data() into spec in bitstream order:
// for short windows each group's windows are interleaved band by band, as
// described by SectSFBOffset. Bands without Huffman data are zeroed.
//
// Ported from: spectral_data() in ~/dev/faad2/libfaad/syntax.c:2156-2236
func ParseSpectralData(r *bits.Reader, ics *ICStream, spec []int16) error {
	clear(spec[:FrameLength])

	base := uint16(0)
	for g := uint8(0); g < ics.NumWindowGroups; g++ {
		offsets := &ics.SectSFBOffset[g]
		for i := uint8(0); i < ics.NumSec[g]; i++ {
			cb := huffman.Codebook(ics.SectCB[g][i])
			if !cb.IsSpectral() {
				continue
			}
			inc := uint16(cb.Width())
			start := base + offsets[ics.SectStart[g][i]]
			end := base + offsets[ics.SectEnd[g][i]]
			for k := start; k < end; k += inc {
				if err := huffman.SpectralData(cb, r, spec[k:k+inc]); err != nil {
					return err
				}
			}
			if r.Overrun() {
				return ErrBitstreamOverrun
			}
		}
		base += offsets[ics.NumSWB]
	}
	return nil
}
