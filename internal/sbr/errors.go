package sbr

import "errors"

// Payload errors. The affected element falls back to pass-through for the
// frame; none of them is fatal for the stream.
var (
	ErrNoHeader       = errors.New("sbr: data received before the first header")
	ErrFreqTables     = errors.New("sbr: invalid frequency band tables")
	ErrGrid           = errors.New("sbr: invalid time/frequency grid")
	ErrPayloadOverrun = errors.New("sbr: data extends past the extension payload")
	ErrChannels       = errors.New("sbr: element channel count not supported")
	ErrOutputRate     = errors.New("sbr: output rate above 96 kHz not supported")
)
