package syntax

import "github.com/llehouerou/go-heaac/internal/bits"

// ICSInfoConfig holds configuration needed for ICS info parsing.
type ICSInfoConfig struct {
	SFIndex uint8
}

// ParseICSInfo parses ics_info() (ISO/IEC 14496-3 Table 4.6).
//
// Ported from: ics_info() in ~/dev/faad2/libfaad/syntax.c:829-952
func ParseICSInfo(r *bits.Reader, ics *ICStream, cfg *ICSInfoConfig) error {
	if r.Get1Bit() != 0 {
		return ErrICSReservedBit
	}

	ics.WindowSequence = WindowSequence(r.GetBits(2))
	ics.WindowShape = r.Get1Bit()

	if ics.WindowSequence == EightShortSequence {
		ics.MaxSFB = uint8(r.GetBits(4))
		ics.ScaleFactorGrouping = uint8(r.GetBits(7))
	} else {
		ics.MaxSFB = uint8(r.GetBits(6))
		ics.ScaleFactorGrouping = 0
	}

	if err := WindowGroupingInfo(ics, cfg.SFIndex); err != nil {
		return err
	}

	// predictor_data_present exists for long windows only and must be 0
	// for the LC object type.
	if ics.WindowSequence != EightShortSequence && r.Get1Bit() != 0 {
		return ErrPredictionNotAllowed
	}
	return nil
}
