package syntax

import (
	"github.com/llehouerou/go-heaac/internal/bits"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// AudioSpecificConfig is the subset of the MPEG-4 AudioSpecificConfig an
// AAC-LC / HE-AAC decoder needs.
type AudioSpecificConfig struct {
	ObjectType           ObjectType // core object type
	SFIndex              uint8
	SampleRate           uint32
	ChannelConfiguration uint8

	SBRPresent       bool
	ExtSFIndex       uint8
	ExtSampleRate    uint32
	DownSampledSBR   bool // SBR output rate equals the core rate
	FrameLengthFlag  bool
	DependsOnCore    bool
	CoreCoderDelay   uint16
	ExtensionFlag    bool
	PCE              *ProgramConfig
	ExplicitSRSignal bool // a 24-bit explicit sampling frequency was used
}

const syncExtensionType = 0x2b7

// ParseASC parses an AudioSpecificConfig. Only the LC core, optionally with
// explicit (AOT 5) or backward compatible SBR signaling, is accepted.
func ParseASC(data []byte) (*AudioSpecificConfig, error) {
	if len(data) < 2 {
		return nil, ErrASCTruncated
	}
	r := bits.NewReader(data)
	asc := &AudioSpecificConfig{}

	asc.ObjectType = readObjectType(r)
	var err error
	asc.SFIndex, asc.SampleRate, err = readSamplingFrequency(r, asc)
	if err != nil {
		return nil, err
	}
	asc.ChannelConfiguration = uint8(r.GetBits(4))

	if asc.ObjectType == ObjectTypeSBR || asc.ObjectType == ObjectTypePS {
		asc.SBRPresent = true
		asc.ExtSFIndex, asc.ExtSampleRate, err = readSamplingFrequency(r, asc)
		if err != nil {
			return nil, err
		}
		asc.ObjectType = readObjectType(r)
	}

	if asc.ObjectType != ObjectTypeLC {
		return nil, ErrASCUnsupportedObjectType
	}
	if asc.ChannelConfiguration > MaxOutputChannels {
		return nil, ErrInvalidChannelConfig
	}

	// GASpecificConfig
	asc.FrameLengthFlag = r.Get1Flag()
	if asc.FrameLengthFlag {
		return nil, ErrASCFrameLength
	}
	asc.DependsOnCore = r.Get1Flag()
	if asc.DependsOnCore {
		asc.CoreCoderDelay = uint16(r.GetBits(14))
	}
	asc.ExtensionFlag = r.Get1Flag()
	if asc.ChannelConfiguration == 0 {
		pce, err := ParsePCE(r)
		if err != nil {
			return nil, err
		}
		if err := pce.Validate(); err != nil {
			return nil, err
		}
		asc.PCE = pce
	}
	if r.Overrun() {
		return nil, ErrASCTruncated
	}

	// Backward compatible SBR signaling appended after the GA config.
	if !asc.SBRPresent && r.BitsRemaining() >= 16 && r.ShowBits(11) == syncExtensionType {
		r.FlushBits(11)
		if readObjectType(r) == ObjectTypeSBR && r.Get1Flag() {
			asc.SBRPresent = true
			asc.ExtSFIndex, asc.ExtSampleRate, err = readSamplingFrequency(r, asc)
			if err != nil {
				return nil, err
			}
		}
	}

	if asc.SBRPresent {
		asc.DownSampledSBR = asc.ExtSampleRate != 2*asc.SampleRate
	}
	return asc, nil
}

func readObjectType(r *bits.Reader) ObjectType {
	ot := ObjectType(r.GetBits(5))
	if ot == 31 {
		ot = 32 + ObjectType(r.GetBits(6))
	}
	return ot
}

// readSamplingFrequency reads a 4-bit index, or an escaped 24-bit rate that
// is mapped to the nearest index.
func readSamplingFrequency(r *bits.Reader, asc *AudioSpecificConfig) (uint8, uint32, error) {
	idx := uint8(r.GetBits(4))
	if idx == 0xF {
		rate := r.GetBits(24)
		asc.ExplicitSRSignal = true
		if rate == 0 {
			return 0, 0, ErrInvalidSRIndex
		}
		return tables.GetSRIndex(rate), rate, nil
	}
	if int(idx) >= tables.NumSampleRates {
		return 0, 0, ErrInvalidSRIndex
	}
	return idx, tables.SampleRates[idx], nil
}
