package tables

import "errors"

// ErrInvalidSRIndex indicates a reserved sampling frequency index.
var ErrInvalidSRIndex = errors.New("tables: invalid sample rate index")

// Frame geometry of AAC-LC.
const (
	FrameLength      = 1024
	ShortFrameLength = 128
	NumShortWindows  = 8
)

// Scalefactor band boundaries, ISO/IEC 14496-3 Tables 4.129 to 4.147.
// Every table ends with the window length, so band b spans
// [offsets[b], offsets[b+1]).

// swbLong96: 96000, 88200 Hz
var swbLong96 = []uint16{
	0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44,
	48, 52, 56, 64, 72, 80, 88, 96, 108, 120, 132, 144,
	156, 172, 188, 212, 240, 276, 320, 384, 448, 512, 576, 640,
	704, 768, 832, 896, 960, 1024,
}

// swbLong64: 64000 Hz
var swbLong64 = []uint16{
	0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44,
	48, 52, 56, 64, 72, 80, 88, 100, 112, 124, 140, 156,
	172, 192, 216, 240, 268, 304, 344, 384, 424, 464, 504, 544,
	584, 624, 664, 704, 744, 784, 824, 864, 904, 944, 984, 1024,
}

// swbLong48: 48000, 44100 Hz
var swbLong48 = []uint16{
	0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 48,
	56, 64, 72, 80, 88, 96, 108, 120, 132, 144, 160, 176,
	196, 216, 240, 264, 292, 320, 352, 384, 416, 448, 480, 512,
	544, 576, 608, 640, 672, 704, 736, 768, 800, 832, 864, 896,
	928, 1024,
}

// swbLong32: 32000 Hz
var swbLong32 = []uint16{
	0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 48,
	56, 64, 72, 80, 88, 96, 108, 120, 132, 144, 160, 176,
	196, 216, 240, 264, 292, 320, 352, 384, 416, 448, 480, 512,
	544, 576, 608, 640, 672, 704, 736, 768, 800, 832, 864, 896,
	928, 960, 992, 1024,
}

// swbLong24: 24000, 22050 Hz
var swbLong24 = []uint16{
	0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44,
	52, 60, 68, 76, 84, 92, 100, 108, 116, 124, 136, 148,
	160, 172, 188, 204, 220, 240, 260, 284, 308, 336, 364, 396,
	432, 468, 508, 552, 600, 652, 704, 768, 832, 896, 960, 1024,
}

// swbLong16: 16000, 12000, 11025 Hz
var swbLong16 = []uint16{
	0, 8, 16, 24, 32, 40, 48, 56, 64, 72, 80, 88,
	100, 112, 124, 136, 148, 160, 172, 184, 196, 212, 228, 244,
	260, 280, 300, 320, 344, 368, 396, 424, 456, 492, 532, 572,
	616, 664, 716, 772, 832, 896, 960, 1024,
}

// swbLong8: 8000, 7350 Hz
var swbLong8 = []uint16{
	0, 12, 24, 36, 48, 60, 72, 84, 96, 108, 120, 132,
	144, 156, 172, 188, 204, 220, 236, 252, 268, 288, 308, 328,
	348, 372, 396, 420, 448, 476, 508, 544, 580, 620, 664, 712,
	764, 820, 880, 944, 1024,
}

// swbShort96: 96000, 88200 Hz
var swbShort96 = []uint16{
	0, 4, 8, 12, 16, 20, 24, 32, 40, 48, 64, 92,
	128,
}

// swbShort64: 64000 Hz
var swbShort64 = []uint16{
	0, 4, 8, 12, 16, 20, 24, 32, 40, 48, 64, 92,
	128,
}

// swbShort48: 48000, 44100, 32000 Hz
var swbShort48 = []uint16{
	0, 4, 8, 12, 16, 20, 28, 36, 44, 56, 68, 80,
	96, 112, 128,
}

// swbShort24: 24000, 22050 Hz
var swbShort24 = []uint16{
	0, 4, 8, 12, 16, 20, 24, 28, 36, 44, 52, 64,
	76, 92, 108, 128,
}

// swbShort16: 16000, 12000, 11025 Hz
var swbShort16 = []uint16{
	0, 4, 8, 12, 16, 20, 24, 28, 32, 40, 48, 60,
	72, 88, 108, 128,
}

// swbShort8: 8000, 7350 Hz
var swbShort8 = []uint16{
	0, 4, 8, 12, 16, 20, 24, 28, 36, 44, 52, 60,
	72, 88, 108, 128,
}

var swbLong = [NumSampleRates][]uint16{
	swbLong96, swbLong96, swbLong64, swbLong48, swbLong48, swbLong32,
	swbLong24, swbLong24, swbLong16, swbLong16, swbLong16, swbLong8, swbLong8,
}

var swbShort = [NumSampleRates][]uint16{
	swbShort96, swbShort96, swbShort64, swbShort48, swbShort48, swbShort48,
	swbShort24, swbShort24, swbShort16, swbShort16, swbShort16, swbShort8, swbShort8,
}

// SWBOffsets returns the band boundaries for srIndex, including the
// terminating window length.
func SWBOffsets(srIndex uint8, short bool) ([]uint16, error) {
	if int(srIndex) >= NumSampleRates {
		return nil, ErrInvalidSRIndex
	}
	if short {
		return swbShort[srIndex], nil
	}
	return swbLong[srIndex], nil
}

// NumSWB returns the number of scalefactor bands for srIndex.
func NumSWB(srIndex uint8, short bool) (uint8, error) {
	offsets, err := SWBOffsets(srIndex, short)
	if err != nil {
		return 0, err
	}
	return uint8(len(offsets) - 1), nil
}
