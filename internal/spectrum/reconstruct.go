package spectrum

import (
	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/syntax"
)

// Channel holds the reconstructed coefficients of one channel in window
// order and the running OR of their magnitudes.
type Channel struct {
	Coef [syntax.FrameLength]int32
	Mask uint32
}

// GuardBits returns the headroom of Coef implied by Mask. Mask only ever
// accumulates, so the count never overstates the true headroom.
func (c *Channel) GuardBits() int {
	return fixed.GuardBits(c.Mask)
}

// ReconstructConfig holds the session state reconstruction needs.
type ReconstructConfig struct {
	SRIndex uint8
	RNG     *NoiseRNG
	// Scratch is a FrameLength buffer for short-window reordering.
	Scratch []int32
}

// prepare restores pulses, dequantizes and reorders one channel.
func prepare(ics *syntax.ICStream, quant []int16, ch *Channel, cfg *ReconstructConfig) error {
	if ics.PulseDataPresent {
		if ics.IsShort() {
			return syntax.ErrPulseInShortBlock
		}
		if err := PulseDecode(ics, quant); err != nil {
			return err
		}
	}
	ch.Mask = Dequantize(ics, quant, ch.Coef[:])
	DeinterleaveShort(ics, ch.Coef[:], cfg.Scratch)
	return nil
}

// ReconstructSingleChannel turns the parsed stream of an SCE or LFE into
// coefficients ready for the filterbank.
//
// Processing order:
//  1. pulse restoration (long windows only)
//  2. dequantization with scalefactors
//  3. short-window deinterleave
//  4. noise substitution
//  5. TNS
//
// Ported from: reconstruct_single_channel() in ~/dev/faad2/libfaad/specrec.c:905-1129
func ReconstructSingleChannel(ics *syntax.ICStream, quant []int16, ch *Channel, cfg *ReconstructConfig) error {
	if err := prepare(ics, quant, ch, cfg); err != nil {
		return err
	}
	if ics.NoiseUsed {
		ch.Mask |= PNSDecode(ics, ch.Coef[:], cfg.RNG)
	}
	ch.Mask |= TNSDecode(ics, cfg.SRIndex, ch.Coef[:])
	return nil
}

// ReconstructChannelPair reconstructs both channels of a CPE. Noise is
// generated before mid/side so M/S skips noise bands, and intensity bands
// copy the left channel after both are final.
func ReconstructChannelPair(el *syntax.Element, l, r *Channel, cfg *ReconstructConfig) error {
	icsL, icsR := &el.ICS[0], &el.ICS[1]
	if err := prepare(icsL, el.Spec[0], l, cfg); err != nil {
		return err
	}
	if err := prepare(icsR, el.Spec[1], r, cfg); err != nil {
		return err
	}

	if icsL.NoiseUsed || icsR.NoiseUsed {
		ml, mr := PNSDecodePair(icsL, icsR, l.Coef[:], r.Coef[:], el.CommonWindow, cfg.RNG)
		l.Mask |= ml
		r.Mask |= mr
	}

	if el.CommonWindow {
		ml, mr := MSDecode(icsL, icsR, l.Coef[:], r.Coef[:], min(l.GuardBits(), r.GuardBits()))
		l.Mask |= ml
		r.Mask |= mr
		if icsR.IsUsed {
			r.Mask |= ISDecode(icsL, icsR, l.Coef[:], r.Coef[:])
		}
	}

	l.Mask |= TNSDecode(icsL, cfg.SRIndex, l.Coef[:])
	r.Mask |= TNSDecode(icsR, cfg.SRIndex, r.Coef[:])
	return nil
}
