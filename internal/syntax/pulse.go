package syntax

import "github.com/llehouerou/go-heaac/internal/bits"

// PulseInfo holds up to four pulses added to the quantized values of a long
// window before dequantization.
//
// Ported from: pulse_info in ~/dev/faad2/libfaad/structs.h:210-216
type PulseInfo struct {
	NumberPulse   uint8 // pulses - 1
	PulseStartSFB uint8
	PulseOffset   [MaxPulses]uint8
	PulseAmp      [MaxPulses]uint8
}

// ParsePulseData parses pulse_data().
//
// Ported from: pulse_data() in ~/dev/faad2/libfaad/syntax.c:955-983
func ParsePulseData(r *bits.Reader, ics *ICStream, pul *PulseInfo) error {
	pul.NumberPulse = uint8(r.GetBits(2))
	pul.PulseStartSFB = uint8(r.GetBits(6))
	if pul.PulseStartSFB > ics.NumSWB {
		return ErrPulseStartSFB
	}
	for i := uint8(0); i <= pul.NumberPulse; i++ {
		pul.PulseOffset[i] = uint8(r.GetBits(5))
		pul.PulseAmp[i] = uint8(r.GetBits(4))
	}
	return nil
}
