package syntax

import "github.com/llehouerou/go-heaac/internal/bits"

// ProgramConfig contains program_config_element() data: the channel layout
// for streams that do not use a predefined channel configuration.
//
// Ported from: program_config in ~/dev/faad2/libfaad/structs.h:103-144
type ProgramConfig struct {
	ElementInstanceTag uint8
	ObjectType         uint8 // profile, object type - 1
	SFIndex            uint8

	NumFrontChannelElements uint8 // 4 bits each
	NumSideChannelElements  uint8
	NumBackChannelElements  uint8
	NumLFEChannelElements   uint8 // 2 bits
	NumAssocDataElements    uint8 // 3 bits
	NumValidCCElements      uint8

	MonoMixdownPresent         bool
	MonoMixdownElementNumber   uint8
	StereoMixdownPresent       bool
	StereoMixdownElementNumber uint8
	MatrixMixdownIdxPresent    bool
	PseudoSurroundEnable       bool
	MatrixMixdownIdx           uint8

	FrontElementIsCPE         [16]bool
	FrontElementTagSelect     [16]uint8
	SideElementIsCPE          [16]bool
	SideElementTagSelect      [16]uint8
	BackElementIsCPE          [16]bool
	BackElementTagSelect      [16]uint8
	LFEElementTagSelect       [4]uint8
	AssocDataElementTagSelect [8]uint8
	CCElementIsIndSW          [16]bool // independently switched coupling
	ValidCCElementTagSelect   [16]uint8

	CommentFieldBytes uint8
	CommentFieldData  [255]byte

	// Channels counts every output channel the layout describes, LFE
	// included.
	Channels uint8
}

// ParsePCE parses program_config_element().
func ParsePCE(r *bits.Reader) (*ProgramConfig, error) {
	pce := &ProgramConfig{}

	pce.ElementInstanceTag = uint8(r.GetBits(4))
	pce.ObjectType = uint8(r.GetBits(2))
	pce.SFIndex = uint8(r.GetBits(4))

	pce.NumFrontChannelElements = uint8(r.GetBits(4))
	pce.NumSideChannelElements = uint8(r.GetBits(4))
	pce.NumBackChannelElements = uint8(r.GetBits(4))
	pce.NumLFEChannelElements = uint8(r.GetBits(2))
	pce.NumAssocDataElements = uint8(r.GetBits(3))
	pce.NumValidCCElements = uint8(r.GetBits(4))

	if pce.MonoMixdownPresent = r.Get1Flag(); pce.MonoMixdownPresent {
		pce.MonoMixdownElementNumber = uint8(r.GetBits(4))
	}
	if pce.StereoMixdownPresent = r.Get1Flag(); pce.StereoMixdownPresent {
		pce.StereoMixdownElementNumber = uint8(r.GetBits(4))
	}
	if pce.MatrixMixdownIdxPresent = r.Get1Flag(); pce.MatrixMixdownIdxPresent {
		pce.MatrixMixdownIdx = uint8(r.GetBits(2))
		pce.PseudoSurroundEnable = r.Get1Flag()
	}

	channels := 0
	readElements := func(n uint8, isCPE *[16]bool, tags *[16]uint8) {
		for i := uint8(0); i < n; i++ {
			isCPE[i] = r.Get1Flag()
			tags[i] = uint8(r.GetBits(4))
			channels++
			if isCPE[i] {
				channels++
			}
		}
	}
	readElements(pce.NumFrontChannelElements, &pce.FrontElementIsCPE, &pce.FrontElementTagSelect)
	readElements(pce.NumSideChannelElements, &pce.SideElementIsCPE, &pce.SideElementTagSelect)
	readElements(pce.NumBackChannelElements, &pce.BackElementIsCPE, &pce.BackElementTagSelect)

	for i := uint8(0); i < pce.NumLFEChannelElements; i++ {
		pce.LFEElementTagSelect[i] = uint8(r.GetBits(4))
		channels++
	}
	for i := uint8(0); i < pce.NumAssocDataElements; i++ {
		pce.AssocDataElementTagSelect[i] = uint8(r.GetBits(4))
	}
	for i := uint8(0); i < pce.NumValidCCElements; i++ {
		pce.CCElementIsIndSW[i] = r.Get1Flag()
		pce.ValidCCElementTagSelect[i] = uint8(r.GetBits(4))
	}

	r.ByteAlign()

	pce.CommentFieldBytes = uint8(r.GetBits(8))
	for i := uint8(0); i < pce.CommentFieldBytes; i++ {
		pce.CommentFieldData[i] = byte(r.GetBits(8))
	}

	if r.Overrun() {
		return nil, ErrBitstreamOverrun
	}
	pce.Channels = uint8(channels)
	return pce, nil
}

// Validate rejects layouts this decoder cannot render: coupling channels,
// object types other than LC, and more than two output channels.
func (pce *ProgramConfig) Validate() error {
	switch {
	case pce.NumValidCCElements > 0:
		return ErrPCEUnsupported
	case pce.ObjectType != uint8(ObjectTypeLC)-1:
		return ErrPCEUnsupported
	case pce.Channels == 0 || pce.Channels > MaxOutputChannels:
		return ErrPCEUnsupported
	}
	return nil
}
