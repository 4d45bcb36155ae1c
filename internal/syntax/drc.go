package syntax

import "github.com/llehouerou/go-heaac/internal/bits"

// DRCInfo contains the dynamic range control data of the last
// EXT_DYNAMIC_RANGE payload.
//
// Ported from: drc_info in ~/dev/faad2/libfaad/structs.h:85-101
type DRCInfo struct {
	Present             bool
	NumBands            uint8
	PCEInstanceTag      uint8
	ExcludedChnsPresent bool

	BandTop      [17]uint8 // top of each band in units of 4 spectral lines
	ProgRefLevel uint8

	DynRngSgn [17]uint8
	DynRngCtl [17]uint8

	ExcludeMask            [MaxChannels]uint8
	AdditionalExcludedChns [MaxChannels]uint8
}

// parseDynamicRangeInfo parses dynamic_range_info() and returns the number
// of payload bytes it spans.
func parseDynamicRangeInfo(r *bits.Reader, drc *DRCInfo) int {
	n := 1
	drc.Present = true
	drc.NumBands = 1

	if r.Get1Flag() {
		drc.PCEInstanceTag = uint8(r.GetBits(4))
		r.FlushBits(4) // drc_tag_reserved_bits
		n++
	}

	drc.ExcludedChnsPresent = r.Get1Flag()
	if drc.ExcludedChnsPresent {
		n += parseExcludedChannels(r, drc)
	}

	if r.Get1Flag() {
		bandIncr := uint8(r.GetBits(4))
		r.FlushBits(4) // drc_interpolation_scheme
		n++
		drc.NumBands += bandIncr
		for i := uint8(0); i < drc.NumBands; i++ {
			drc.BandTop[i] = uint8(r.GetBits(8))
			n++
		}
	} else {
		drc.BandTop[0] = 1024/4 - 1
	}

	if r.Get1Flag() {
		drc.ProgRefLevel = uint8(r.GetBits(7))
		r.FlushBits(1)
		n++
	}

	for i := uint8(0); i < drc.NumBands; i++ {
		drc.DynRngSgn[i] = r.Get1Bit()
		drc.DynRngCtl[i] = uint8(r.GetBits(7))
		n++
	}
	return n
}

// parseExcludedChannels parses excluded_channels() and returns the number
// of bytes it spans.
//
// Ported from: excluded_channels() in ~/dev/faad2/libfaad/syntax.c:2367-2394
func parseExcludedChannels(r *bits.Reader, drc *DRCInfo) int {
	n := 0
	numExclChan := 7

	for i := 0; i < 7; i++ {
		drc.ExcludeMask[i] = r.Get1Bit()
	}
	n++

	for {
		more := r.Get1Bit()
		drc.AdditionalExcludedChns[n-1] = more
		if more == 0 || numExclChan >= MaxChannels-7 {
			return n
		}
		for i := numExclChan; i < numExclChan+7; i++ {
			drc.ExcludeMask[i] = r.Get1Bit()
		}
		n++
		numExclChan += 7
	}
}
