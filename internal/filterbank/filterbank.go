// Package filterbank turns dequantized spectra into time samples:
// IMDCT, windowing with sine or KBD shapes, and overlap-add.
//
// Samples leave the filterbank with OutFracBits fractional bits and are
// not clipped, so SBR can run on them before PCM conversion.
package filterbank

import (
	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/mdct"
	"github.com/llehouerou/go-heaac/internal/syntax"
)

// OutFracBits is the number of fractional bits of filterbank output for
// coefficients with 5 fractional bits.
const OutFracBits = 3

// Overlap-add layout of the transition windows (ISO/IEC 14496-3 4.6.11.3.2).
const (
	flatLen  = (LongWindowSize - ShortWindowSize) / 2 // 448
	shortOff = flatLen
)

// State is the per-channel memory carried between frames.
type State struct {
	Overlap   [LongWindowSize]int32
	PrevShape uint8
}

// Reset clears the overlap and forgets the previous window shape.
func (s *State) Reset() {
	*s = State{}
}

// FilterBank holds the transforms and scratch shared by every channel.
//
// Ported from: fb_info struct in ~/dev/faad2/libfaad/structs.h:67-83
type FilterBank struct {
	long  *mdct.IMDCT
	short *mdct.IMDCT
	buf   [2 * LongWindowSize]int32
	tmp   [2 * ShortWindowSize]int32
}

// NewFilterBank returns a filterbank for 1024-sample frames.
//
// Ported from: filter_bank_init() in ~/dev/faad2/libfaad/filtbank.c:48-92
func NewFilterBank() *FilterBank {
	return &FilterBank{
		long:  mdct.NewIMDCT(LongWindowSize),
		short: mdct.NewIMDCT(ShortWindowSize),
	}
}

// IFilterBank synthesizes one frame of 1024 samples into out. coef holds
// the channel's coefficients in window order and is clobbered. gb is
// their guard-bit count.
func (fb *FilterBank) IFilterBank(seq syntax.WindowSequence, shape uint8, coef []int32, gb int, st *State, out []int32) {
	z := fb.buf[:]
	if seq == syntax.EightShortSequence {
		fb.eightShort(shape, coef, gb, st.PrevShape)
	} else {
		fb.long.Transform(coef, z, gb)
		fb.windowLong(seq, shape, st.PrevShape)
	}

	_ = out[LongWindowSize-1]
	for n := 0; n < LongWindowSize; n++ {
		out[n] = fixed.Sat64(int64(z[n]) + int64(st.Overlap[n]))
	}
	copy(st.Overlap[:], z[LongWindowSize:])
	st.PrevShape = shape
}

// windowLong applies the long, start or stop window to fb.buf.
func (fb *FilterBank) windowLong(seq syntax.WindowSequence, shape, prevShape uint8) {
	z := fb.buf[:]

	if seq == syntax.LongStopSequence {
		rise := GetShortWindow(prevShape)
		clear(z[:flatLen])
		for n := 0; n < ShortWindowSize; n++ {
			z[shortOff+n] = fixed.MulShift32(z[shortOff+n], rise[n])
		}
		for n := shortOff + ShortWindowSize; n < LongWindowSize; n++ {
			z[n] >>= 1
		}
	} else {
		rise := GetLongWindow(prevShape)
		for n := 0; n < LongWindowSize; n++ {
			z[n] = fixed.MulShift32(z[n], rise[n])
		}
	}

	tail := z[LongWindowSize:]
	if seq == syntax.LongStartSequence {
		fall := GetShortWindow(shape)
		for n := 0; n < flatLen; n++ {
			tail[n] >>= 1
		}
		for n := 0; n < ShortWindowSize; n++ {
			tail[flatLen+n] = fixed.MulShift32(tail[flatLen+n], fall[ShortWindowSize-1-n])
		}
		clear(tail[flatLen+ShortWindowSize:])
	} else {
		fall := GetLongWindow(shape)
		for n := 0; n < LongWindowSize; n++ {
			tail[n] = fixed.MulShift32(tail[n], fall[LongWindowSize-1-n])
		}
	}
}

// eightShort overlaps the eight windowed short transforms into fb.buf.
// The first short window rises with the previous frame's shape.
func (fb *FilterBank) eightShort(shape uint8, coef []int32, gb int, prevShape uint8) {
	z := fb.buf[:]
	clear(z)
	x := fb.tmp[:]
	win := GetShortWindow(shape)

	for w := 0; w < 8; w++ {
		fb.short.Transform(coef[w*ShortWindowSize:(w+1)*ShortWindowSize], x, gb)
		rise := win
		if w == 0 {
			rise = GetShortWindow(prevShape)
		}
		base := shortOff + w*ShortWindowSize
		for n := 0; n < ShortWindowSize; n++ {
			z[base+n] += fixed.MulShift32(x[n], rise[n])
			z[base+ShortWindowSize+n] += fixed.MulShift32(x[ShortWindowSize+n], win[ShortWindowSize-1-n])
		}
	}
}
