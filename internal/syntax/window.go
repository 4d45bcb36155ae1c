package syntax

import "github.com/llehouerou/go-heaac/internal/tables"

// WindowGroupingInfo derives the number of windows and groups and the band
// layout from the window sequence, max_sfb and scale_factor_grouping.
//
// Ported from: window_grouping_info() in ~/dev/faad2/libfaad/specrec.c:302-428
func WindowGroupingInfo(ics *ICStream, sfIndex uint8) error {
	if int(sfIndex) >= tables.NumSampleRates {
		return ErrInvalidSRIndex
	}

	switch ics.WindowSequence {
	case OnlyLongSequence, LongStartSequence, LongStopSequence:
		return windowGroupingLong(ics, sfIndex)
	case EightShortSequence:
		return windowGroupingShort(ics, sfIndex)
	default:
		return ErrInvalidWindowSequence
	}
}

// Ported from: window_grouping_info() cases ONLY_LONG_SEQUENCE, LONG_START_SEQUENCE, LONG_STOP_SEQUENCE
func windowGroupingLong(ics *ICStream, sfIndex uint8) error {
	ics.NumWindows = 1
	ics.NumWindowGroups = 1
	ics.WindowGroupLength[0] = 1

	offsets, err := tables.SWBOffsets(sfIndex, false)
	if err != nil {
		return err
	}
	ics.NumSWB = uint8(len(offsets) - 1)
	if ics.MaxSFB > ics.NumSWB {
		return ErrMaxSFBTooLarge
	}

	copy(ics.SWBOffset[:], offsets)
	copy(ics.SectSFBOffset[0][:], offsets)
	return nil
}

// Ported from: window_grouping_info() case EIGHT_SHORT_SEQUENCE
func windowGroupingShort(ics *ICStream, sfIndex uint8) error {
	ics.NumWindows = 8
	ics.NumWindowGroups = 1
	ics.WindowGroupLength[0] = 1

	offsets, err := tables.SWBOffsets(sfIndex, true)
	if err != nil {
		return err
	}
	ics.NumSWB = uint8(len(offsets) - 1)
	if ics.MaxSFB > ics.NumSWB {
		return ErrMaxSFBTooLarge
	}
	copy(ics.SWBOffset[:], offsets)

	// Bit 6-i of scale_factor_grouping set: window i+1 joins the current group.
	for i := uint8(0); i < 7; i++ {
		if ics.ScaleFactorGrouping&(1<<(6-i)) == 0 {
			ics.NumWindowGroups++
			ics.WindowGroupLength[ics.NumWindowGroups-1] = 1
		} else {
			ics.WindowGroupLength[ics.NumWindowGroups-1]++
		}
	}

	for g := uint8(0); g < ics.NumWindowGroups; g++ {
		var offset uint16
		for i := uint8(0); i < ics.NumSWB; i++ {
			ics.SectSFBOffset[g][i] = offset
			offset += (offsets[i+1] - offsets[i]) * uint16(ics.WindowGroupLength[g])
		}
		ics.SectSFBOffset[g][ics.NumSWB] = offset
	}
	return nil
}
