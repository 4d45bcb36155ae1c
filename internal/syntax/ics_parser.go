package syntax

import "github.com/llehouerou/go-heaac/internal/bits"

// ICSConfig holds configuration for individual_channel_stream() parsing.
type ICSConfig struct {
	SFIndex      uint8
	CommonWindow bool // ics_info was read by the enclosing CPE
}

// ParseIndividualChannelStream parses individual_channel_stream() into ics
// and the quantized spectrum into spec (at least FrameLength values).
func ParseIndividualChannelStream(r *bits.Reader, ics *ICStream, spec []int16, cfg *ICSConfig) error {
	ics.GlobalGain = uint8(r.GetBits(8))

	if !cfg.CommonWindow {
		if err := ParseICSInfo(r, ics, &ICSInfoConfig{SFIndex: cfg.SFIndex}); err != nil {
			return err
		}
	}

	if err := ParseSectionData(r, ics); err != nil {
		return err
	}
	if err := DecodeScaleFactors(r, ics); err != nil {
		return err
	}

	ics.PulseDataPresent = r.Get1Flag()
	if ics.PulseDataPresent {
		if ics.WindowSequence == EightShortSequence {
			return ErrPulseInShortBlock
		}
		if err := ParsePulseData(r, ics, &ics.Pul); err != nil {
			return err
		}
	}

	ics.TNSDataPresent = r.Get1Flag()
	if ics.TNSDataPresent {
		if err := ParseTNSData(r, ics, &ics.TNS); err != nil {
			return err
		}
	}

	ics.GainControlDataPresent = r.Get1Flag()
	if ics.GainControlDataPresent {
		skipGainControlData(r, ics)
	}

	return ParseSpectralData(r, ics, spec)
}
