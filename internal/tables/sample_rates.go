package tables

// NumSampleRates is the count of defined sampling frequency indices.
const NumSampleRates = 13

// SampleRates maps sampling_frequency_index to the rate in Hz.
var SampleRates = [NumSampleRates]uint32{
	96000, 88200, 64000, 48000, 44100, 32000,
	24000, 22050, 16000, 12000, 11025, 8000, 7350,
}

// GetSampleRate returns the sample rate for a given index, or 0 when the
// index is reserved.
func GetSampleRate(srIndex uint8) uint32 {
	if int(srIndex) >= NumSampleRates {
		return 0
	}
	return SampleRates[srIndex]
}

// GetSRIndex maps an arbitrary rate to the nearest index using the
// geometric midpoints between adjacent rates (ISO/IEC 14496-3 Table 4.82).
func GetSRIndex(sampleRate uint32) uint8 {
	thresholds := [...]uint32{
		92017, 75132, 55426, 46009, 37566, 27713,
		23004, 18783, 13856, 11502, 9391,
	}
	for i, th := range thresholds {
		if sampleRate >= th {
			return uint8(i)
		}
	}
	return 11
}

// ExactSRIndex returns the index whose rate equals sampleRate.
func ExactSRIndex(sampleRate uint32) (uint8, bool) {
	for i, sr := range SampleRates {
		if sr == sampleRate {
			return uint8(i), true
		}
	}
	return 0, false
}
