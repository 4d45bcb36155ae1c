package syntax

import "github.com/llehouerou/go-heaac/internal/bits"

// ParseChannelPairElement parses channel_pair_element(). With a common
// window the ics_info and M/S mask are shared by both streams.
func ParseChannelPairElement(r *bits.Reader, el *Element, sfIndex uint8) error {
	el.ElementInstanceTag = uint8(r.GetBits(LenTag))
	el.CommonWindow = r.Get1Flag()

	ics1, ics2 := &el.ICS[0], &el.ICS[1]
	ics1.MSMaskPresent = 0

	if el.CommonWindow {
		if err := ParseICSInfo(r, ics1, &ICSInfoConfig{SFIndex: sfIndex}); err != nil {
			return err
		}

		ics1.MSMaskPresent = uint8(r.GetBits(2))
		switch ics1.MSMaskPresent {
		case 1:
			for g := uint8(0); g < ics1.NumWindowGroups; g++ {
				for sfb := uint8(0); sfb < ics1.MaxSFB; sfb++ {
					ics1.MSUsed[g][sfb] = r.Get1Flag()
				}
			}
		case 2:
			for g := uint8(0); g < ics1.NumWindowGroups; g++ {
				for sfb := uint8(0); sfb < ics1.MaxSFB; sfb++ {
					ics1.MSUsed[g][sfb] = true
				}
			}
		case 3:
			return ErrMSMaskReserved
		}

		copyWindowInfo(ics2, ics1)
	}

	cfg := &ICSConfig{SFIndex: sfIndex, CommonWindow: el.CommonWindow}
	if err := ParseIndividualChannelStream(r, ics1, el.Spec[0], cfg); err != nil {
		return err
	}
	if err := ParseIndividualChannelStream(r, ics2, el.Spec[1], cfg); err != nil {
		return err
	}
	return nil
}

// copyWindowInfo gives dst the ics_info and M/S state of src.
func copyWindowInfo(dst, src *ICStream) {
	dst.MaxSFB = src.MaxSFB
	dst.NumSWB = src.NumSWB
	dst.NumWindowGroups = src.NumWindowGroups
	dst.NumWindows = src.NumWindows
	dst.WindowSequence = src.WindowSequence
	dst.WindowGroupLength = src.WindowGroupLength
	dst.WindowShape = src.WindowShape
	dst.ScaleFactorGrouping = src.ScaleFactorGrouping
	dst.SWBOffset = src.SWBOffset
	dst.SectSFBOffset = src.SectSFBOffset
	dst.MSMaskPresent = src.MSMaskPresent
	dst.MSUsed = src.MSUsed
}
