// Package output converts the wide filterbank and SBR samples of a frame
// into interleaved 16-bit PCM, with optional mono downmix and dynamic
// range control.
package output

import "github.com/llehouerou/go-heaac/internal/fixed"

// WideFracBits is the number of fractional bits of the samples handed to
// ToPCM16Bit.
const WideFracBits = 3

// clip16 rounds a wide sample to an integer and saturates it to int16.
//
// Ported from: ~/dev/faad2/libfaad/output.c:64-85
func clip16(sample int32) int16 {
	return fixed.ClipToInt16(fixed.RoundShift(sample, WideFracBits))
}

// ToPCM16Bit interleaves frameLen samples of each channel into output.
//
// channelMap maps output channel c to input[channelMap[c]]. With mono set
// the first two mapped inputs are averaged into a single output channel;
// channels then names the number of input channels and one sample per
// frame position is written.
//
// output must hold frameLen samples per output channel. The number of
// samples written is returned.
//
// Ported from: to_PCM_16bit in ~/dev/faad2/libfaad/output.c:89-152
func ToPCM16Bit(input [][]int32, channelMap []uint8, channels, frameLen int, mono bool, output []int16) int {
	switch {
	case channels == 1:
		in := input[channelMap[0]][:frameLen]
		for i, v := range in {
			output[i] = clip16(v)
		}
		return frameLen

	case mono:
		l := input[channelMap[0]][:frameLen]
		r := input[channelMap[1]][:frameLen]
		for i := range l {
			output[i] = clip16(Mix(l[i], r[i]))
		}
		return frameLen

	case channels == 2:
		l := input[channelMap[0]][:frameLen]
		r := input[channelMap[1]][:frameLen]
		_ = output[2*frameLen-1]
		for i := range l {
			output[2*i] = clip16(l[i])
			output[2*i+1] = clip16(r[i])
		}
		return 2 * frameLen
	}

	for c := 0; c < channels; c++ {
		in := input[channelMap[c]][:frameLen]
		for i, v := range in {
			output[i*channels+c] = clip16(v)
		}
	}
	return channels * frameLen
}
