package syntax

import "github.com/llehouerou/go-heaac/internal/bits"

// ParseSingleChannelElement parses single_channel_element() or
// lfe_channel_element(); both share one syntax. The element's Spec[0]
// must be set by the caller.
//
// Ported from: single_lfe_channel_element() in ~/dev/faad2/libfaad/syntax.c:652-696
func ParseSingleChannelElement(r *bits.Reader, el *Element, sfIndex uint8) error {
	el.ElementInstanceTag = uint8(r.GetBits(LenTag))
	el.CommonWindow = false

	cfg := &ICSConfig{SFIndex: sfIndex}
	if err := ParseIndividualChannelStream(r, &el.ICS[0], el.Spec[0], cfg); err != nil {
		return err
	}
	if el.ICS[0].IsUsed {
		return ErrIntensityStereoInSCE
	}
	return nil
}
