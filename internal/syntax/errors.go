package syntax

import "errors"

// Header errors. These are fatal for the stream.
var (
	ErrADTSSyncwordNotFound     = errors.New("syntax: unable to find ADTS syncword")
	ErrADTSProfile              = errors.New("syntax: ADTS profile is not AAC-LC")
	ErrADTSLayer                = errors.New("syntax: ADTS layer must be 0")
	ErrADTSFrameLength          = errors.New("syntax: ADTS frame length too short")
	ErrInvalidSRIndex           = errors.New("syntax: invalid sample rate index")
	ErrInvalidChannelConfig     = errors.New("syntax: unsupported channel configuration")
	ErrADIFMagic                = errors.New("syntax: missing ADIF magic")
	ErrPCEUnsupported           = errors.New("syntax: program configuration not supported")
	ErrASCUnsupportedObjectType = errors.New("syntax: unsupported audio object type")
	ErrASCFrameLength           = errors.New("syntax: 960-sample frames not supported")
	ErrASCTruncated             = errors.New("syntax: truncated AudioSpecificConfig")
)

// Element errors. A frame that raises one of these is dropped.
var (
	ErrInvalidWindowSequence = errors.New("syntax: invalid window sequence")
	ErrMaxSFBTooLarge        = errors.New("syntax: max_sfb exceeds num_swb")
	ErrICSReservedBit        = errors.New("syntax: ics_reserved_bit must be 0")
	ErrPredictionNotAllowed  = errors.New("syntax: prediction not allowed in AAC-LC")
	ErrSectionLimit          = errors.New("syntax: section limit exceeded")
	ErrReservedCodebook      = errors.New("syntax: reserved codebook 12 used")
	ErrSectionLength         = errors.New("syntax: section length exceeds limit")
	ErrSectionCoverage       = errors.New("syntax: sections do not cover all SFBs")
	ErrScaleFactorRange      = errors.New("syntax: scale factor out of range [0, 255]")
	ErrPulseStartSFB         = errors.New("syntax: pulse_start_sfb exceeds num_swb")
	ErrPulseInShortBlock     = errors.New("syntax: pulse coding not allowed in short blocks")
	ErrTNSOrder              = errors.New("syntax: TNS order exceeds profile limit")
	ErrIntensityStereoInSCE  = errors.New("syntax: intensity stereo not allowed in single channel element")
	ErrMSMaskReserved        = errors.New("syntax: ms_mask_present value 3 is reserved")
	ErrPCENotFirst           = errors.New("syntax: PCE must be first element in frame")
	ErrTooManyChannels       = errors.New("syntax: more channels than supported")
	ErrUnknownElement        = errors.New("syntax: unknown element type")
	ErrBitstreamOverrun      = errors.New("syntax: element extends past end of data")
)
