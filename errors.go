package aac

import (
	"errors"
	"fmt"

	"github.com/llehouerou/go-heaac/internal/huffman"
	"github.com/llehouerou/go-heaac/internal/sbr"
	"github.com/llehouerou/go-heaac/internal/spectrum"
	"github.com/llehouerou/go-heaac/internal/syntax"
)

// Error represents an AAC decoder error code. Errors returned by the
// Decoder wrap one of these codes, together with the internal cause when
// there is one, so both can be matched with errors.Is.
//
// Ported from: ~/dev/faad2/libfaad/error.c, error.h
type Error int

// Error codes.
const (
	ErrNone Error = iota
	ErrNilBuffer
	ErrNeedMoreData
	ErrNotInitialized
	ErrRawConfig
	ErrSyncwordNotFound
	ErrADTSHeader
	ErrUnsupportedObjectType
	ErrInvalidSampleRate
	ErrInvalidChannelConfig
	ErrADIFHeader
	ErrProgramConfig
	ErrAudioSpecificConfig
	ErrTooManyChannels
	ErrICSInfo
	ErrSectionData
	ErrScaleFactorRange
	ErrPulseData
	ErrTNSData
	ErrStereoData
	ErrHuffmanCodeword
	ErrPCENotFirst
	ErrBitstream
	ErrSBRPayload
)

// Kind groups error codes by what the caller should do about them.
type Kind uint8

const (
	// KindNone is the kind of ErrNone and of errors from other packages.
	KindNone Kind = iota
	// KindUnderflow means the input ended inside a frame. Supply more
	// bytes and call again with the same start.
	KindUnderflow
	// KindFatal means the stream cannot be decoded by this session.
	KindFatal
	// KindFrame means the current frame is corrupt. Drop it and continue
	// at the next frame or sync word.
	KindFrame
	// KindSBR means the SBR payload of an element was unusable. The
	// element was decoded without bandwidth extension.
	KindSBR
)

var kindNames = [...]string{"none", "underflow", "fatal", "frame", "sbr"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

type errInfo struct {
	msg  string
	kind Kind
}

var errTable = [...]errInfo{
	ErrNone:                  {"no error", KindNone},
	ErrNilBuffer:             {"nil input buffer", KindUnderflow},
	ErrNeedMoreData:          {"input ends inside a frame", KindUnderflow},
	ErrNotInitialized:        {"decoder not initialized", KindFatal},
	ErrRawConfig:             {"raw stream needs a sample rate index and channel count", KindFatal},
	ErrSyncwordNotFound:      {"unable to find ADTS syncword", KindFatal},
	ErrADTSHeader:            {"invalid ADTS header", KindFatal},
	ErrUnsupportedObjectType: {"unsupported audio object type", KindFatal},
	ErrInvalidSampleRate:     {"invalid sample rate index", KindFatal},
	ErrInvalidChannelConfig:  {"unsupported channel configuration", KindFatal},
	ErrADIFHeader:            {"invalid ADIF header", KindFatal},
	ErrProgramConfig:         {"unsupported program configuration", KindFatal},
	ErrAudioSpecificConfig:   {"invalid AudioSpecificConfig", KindFatal},
	ErrTooManyChannels:       {"more than two output channels", KindFatal},
	ErrICSInfo:               {"invalid ics_info", KindFrame},
	ErrSectionData:           {"invalid section data", KindFrame},
	ErrScaleFactorRange:      {"scalefactor out of range", KindFrame},
	ErrPulseData:             {"invalid pulse data", KindFrame},
	ErrTNSData:               {"invalid TNS data", KindFrame},
	ErrStereoData:            {"invalid stereo data", KindFrame},
	ErrHuffmanCodeword:       {"error decoding huffman codeword", KindFrame},
	ErrPCENotFirst:           {"PCE shall be the first element in a frame", KindFrame},
	ErrBitstream:             {"corrupt raw data block", KindFrame},
	ErrSBRPayload:            {"unusable SBR payload", KindSBR},
}

// Error implements the error interface.
func (e Error) Error() string {
	if e >= 0 && int(e) < len(errTable) {
		return errTable[e].msg
	}
	return "unknown error"
}

// Kind returns the kind of the code.
func (e Error) Kind() Kind {
	if e >= 0 && int(e) < len(errTable) {
		return errTable[e].kind
	}
	return KindNone
}

// KindOf returns the kind of the first Error code in err's chain.
func KindOf(err error) Kind {
	var e Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindNone
}

// IsRecoverable reports whether decoding can go on after err: more input
// is needed, or only the current frame is lost.
func IsRecoverable(err error) bool {
	switch KindOf(err) {
	case KindUnderflow, KindFrame, KindSBR:
		return true
	}
	return false
}

// internalCodes maps errors of the internal packages to decoder codes.
var internalCodes = []struct {
	err  error
	code Error
}{
	{syntax.ErrADTSSyncwordNotFound, ErrSyncwordNotFound},
	{syntax.ErrADTSProfile, ErrUnsupportedObjectType},
	{syntax.ErrADTSLayer, ErrADTSHeader},
	{syntax.ErrADTSFrameLength, ErrADTSHeader},
	{syntax.ErrInvalidSRIndex, ErrInvalidSampleRate},
	{syntax.ErrInvalidChannelConfig, ErrInvalidChannelConfig},
	{syntax.ErrADIFMagic, ErrADIFHeader},
	{syntax.ErrPCEUnsupported, ErrProgramConfig},
	{syntax.ErrASCUnsupportedObjectType, ErrUnsupportedObjectType},
	{syntax.ErrASCFrameLength, ErrAudioSpecificConfig},
	{syntax.ErrASCTruncated, ErrAudioSpecificConfig},

	{syntax.ErrInvalidWindowSequence, ErrICSInfo},
	{syntax.ErrMaxSFBTooLarge, ErrICSInfo},
	{syntax.ErrICSReservedBit, ErrICSInfo},
	{syntax.ErrPredictionNotAllowed, ErrICSInfo},
	{syntax.ErrSectionLimit, ErrSectionData},
	{syntax.ErrReservedCodebook, ErrSectionData},
	{syntax.ErrSectionLength, ErrSectionData},
	{syntax.ErrSectionCoverage, ErrSectionData},
	{syntax.ErrScaleFactorRange, ErrScaleFactorRange},
	{syntax.ErrPulseStartSFB, ErrPulseData},
	{syntax.ErrPulseInShortBlock, ErrPulseData},
	{spectrum.ErrPulsePosition, ErrPulseData},
	{syntax.ErrTNSOrder, ErrTNSData},
	{syntax.ErrIntensityStereoInSCE, ErrStereoData},
	{syntax.ErrMSMaskReserved, ErrStereoData},
	{syntax.ErrPCENotFirst, ErrPCENotFirst},
	{syntax.ErrTooManyChannels, ErrTooManyChannels},
	{syntax.ErrUnknownElement, ErrBitstream},
	{syntax.ErrBitstreamOverrun, ErrBitstream},
	{huffman.ErrEscapeSequence, ErrHuffmanCodeword},
	{huffman.ErrInvalidCodebook, ErrHuffmanCodeword},

	{sbr.ErrNoHeader, ErrSBRPayload},
	{sbr.ErrFreqTables, ErrSBRPayload},
	{sbr.ErrGrid, ErrSBRPayload},
	{sbr.ErrPayloadOverrun, ErrSBRPayload},
	{sbr.ErrChannels, ErrSBRPayload},
	{sbr.ErrOutputRate, ErrSBRPayload},
}

// wrap attaches the decoder code matching an internal error. Errors that
// already carry a code and unknown errors pass through with fallback.
func wrap(err error, fallback Error) error {
	if err == nil {
		return nil
	}
	var e Error
	if errors.As(err, &e) {
		return err
	}
	code := fallback
	for _, m := range internalCodes {
		if errors.Is(err, m.err) {
			code = m.code
			break
		}
	}
	return fmt.Errorf("%w: %w", code, err)
}

// underflow reports that err came from running out of input.
func underflow(err error) error {
	return fmt.Errorf("%w: %w", ErrNeedMoreData, err)
}
