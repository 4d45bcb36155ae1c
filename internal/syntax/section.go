package syntax

import (
	"github.com/llehouerou/go-heaac/internal/bits"
	"github.com/llehouerou/go-heaac/internal/huffman"
)

// ParseSectionData parses section_data(): runs of bands sharing a codebook.
//
// Ported from: section_data() in ~/dev/faad2/libfaad/syntax.c:1731-1881
func ParseSectionData(r *bits.Reader, ics *ICStream) error {
	var sectBits uint
	if ics.WindowSequence == EightShortSequence {
		sectBits = 3
	} else {
		sectBits = 5
	}
	sectEscVal := uint8(1<<sectBits - 1)

	ics.NoiseUsed = false
	ics.IsUsed = false

	for g := uint8(0); g < ics.NumWindowGroups; g++ {
		k := uint8(0)
		i := uint8(0)

		for k < ics.MaxSFB {
			if r.Overrun() {
				return ErrBitstreamOverrun
			}
			if int(i) >= MaxSections {
				return ErrSectionLimit
			}

			cb := huffman.Codebook(r.GetBits(4))
			if cb == huffman.ReservedHCB {
				return ErrReservedCodebook
			}
			switch {
			case cb == huffman.NoiseHCB:
				ics.NoiseUsed = true
			case cb.IsIntensity():
				ics.IsUsed = true
			}

			sectLen := 0
			for {
				incr := uint8(r.GetBits(sectBits))
				sectLen += int(incr)
				if incr != sectEscVal {
					break
				}
				if int(k)+sectLen > int(ics.MaxSFB) || r.Overrun() {
					return ErrSectionLength
				}
			}
			if int(k)+sectLen > int(ics.MaxSFB) {
				return ErrSectionLength
			}

			ics.SectCB[g][i] = uint8(cb)
			ics.SectStart[g][i] = k
			ics.SectEnd[g][i] = k + uint8(sectLen)
			for sfb := k; sfb < k+uint8(sectLen); sfb++ {
				ics.SFBCB[g][sfb] = uint8(cb)
			}

			k += uint8(sectLen)
			i++
		}

		ics.NumSec[g] = i
		if k != ics.MaxSFB {
			return ErrSectionCoverage
		}
	}
	return nil
}
