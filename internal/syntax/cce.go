package syntax

import (
	"github.com/llehouerou/go-heaac/internal/bits"
	"github.com/llehouerou/go-heaac/internal/huffman"
)

// CCECoupledElement describes one target of a coupling channel.
//
// Ported from: coupling_channel_element() loop in ~/dev/faad2/libfaad/syntax.c:1006-1027
type CCECoupledElement struct {
	TargetIsCPE bool
	TargetTag   uint8
	CCL         bool
	CCR         bool
}

// CCEResult holds a parsed coupling_channel_element(). Coupling is not
// applied; the element is parsed so the rest of the frame stays in sync.
//
// Ported from: coupling_channel_element() in ~/dev/faad2/libfaad/syntax.c:987-1076
type CCEResult struct {
	Tag                 uint8
	IndSwCCEFlag        bool
	NumCoupledElements  uint8
	CoupledElements     [MaxCoupledElements]CCECoupledElement
	NumGainElementLists uint8
	CCDomain            bool
	GainElementSign     bool
	GainElementScale    uint8
}

// ParseCouplingChannelElement parses a CCE, decoding its stream into ics
// and spec as scratch.
func ParseCouplingChannelElement(r *bits.Reader, ics *ICStream, spec []int16, sfIndex uint8) (*CCEResult, error) {
	cce := &CCEResult{}
	cce.Tag = uint8(r.GetBits(LenTag))
	cce.IndSwCCEFlag = r.Get1Flag()
	cce.NumCoupledElements = uint8(r.GetBits(3))

	cce.NumGainElementLists = 0
	for c := uint8(0); c <= cce.NumCoupledElements; c++ {
		ce := &cce.CoupledElements[c]
		cce.NumGainElementLists++
		ce.TargetIsCPE = r.Get1Flag()
		ce.TargetTag = uint8(r.GetBits(4))
		if ce.TargetIsCPE {
			ce.CCL = r.Get1Flag()
			ce.CCR = r.Get1Flag()
			if ce.CCL && ce.CCR {
				cce.NumGainElementLists++
			}
		}
	}

	cce.CCDomain = r.Get1Flag()
	cce.GainElementSign = r.Get1Flag()
	cce.GainElementScale = uint8(r.GetBits(2))

	if err := ParseIndividualChannelStream(r, ics, spec, &ICSConfig{SFIndex: sfIndex}); err != nil {
		return nil, err
	}
	if ics.IsUsed {
		return nil, ErrIntensityStereoInSCE
	}

	for c := uint8(1); c < cce.NumGainElementLists; c++ {
		commonGain := cce.IndSwCCEFlag
		if !commonGain {
			commonGain = r.Get1Flag()
		}
		if commonGain {
			huffman.ScaleFactor(r)
			continue
		}
		for g := uint8(0); g < ics.NumWindowGroups; g++ {
			for sfb := uint8(0); sfb < ics.MaxSFB; sfb++ {
				if huffman.Codebook(ics.SFBCB[g][sfb]) != huffman.ZeroHCB {
					huffman.ScaleFactor(r)
				}
			}
		}
	}
	return cce, nil
}
