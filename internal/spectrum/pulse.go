package spectrum

import (
	"errors"

	"github.com/llehouerou/go-heaac/internal/syntax"
)

// ErrPulsePosition indicates a pulse beyond the end of the frame.
var ErrPulsePosition = errors.New("spectrum: pulse position past end of frame")

// PulseDecode adds the pulses of a long window to its quantized spectrum.
// A pulse moves the value away from zero; zero values become negative.
//
// Ported from: pulse_decode() in ~/dev/faad2/libfaad/pulse.c:36-58
func PulseDecode(ics *syntax.ICStream, quant []int16) error {
	pul := &ics.Pul
	k := int(ics.SWBOffset[pul.PulseStartSFB])

	for i := uint8(0); i <= pul.NumberPulse; i++ {
		k += int(pul.PulseOffset[i])
		if k >= syntax.FrameLength {
			return ErrPulsePosition
		}
		if quant[k] > 0 {
			quant[k] += int16(pul.PulseAmp[i])
		} else {
			quant[k] -= int16(pul.PulseAmp[i])
		}
	}
	return nil
}
