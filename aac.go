package aac

import (
	"github.com/charmbracelet/log"

	"github.com/llehouerou/go-heaac/internal/syntax"
)

// ObjectType represents an MPEG-4 audio object type.
type ObjectType uint8

// Audio object types the decoder reports. Only LC is decoded; HE-AAC is
// LC with SBR.
const (
	ObjectTypeMain  ObjectType = 1
	ObjectTypeLC    ObjectType = 2
	ObjectTypeSSR   ObjectType = 3
	ObjectTypeLTP   ObjectType = 4
	ObjectTypeHEAAC ObjectType = 5
)

var objectTypeNames = map[ObjectType]string{
	ObjectTypeMain:  "AAC Main",
	ObjectTypeLC:    "AAC-LC",
	ObjectTypeSSR:   "AAC SSR",
	ObjectTypeLTP:   "AAC LTP",
	ObjectTypeHEAAC: "HE-AAC",
}

func (o ObjectType) String() string {
	if s, ok := objectTypeNames[o]; ok {
		return s
	}
	return "unknown"
}

// HeaderType represents an AAC stream header type.
type HeaderType uint8

// Header types.
const (
	HeaderTypeRAW  HeaderType = 0 // raw_data_block() sequence, no header
	HeaderTypeADIF HeaderType = 1 // Audio Data Interchange Format
	HeaderTypeADTS HeaderType = 2 // Audio Data Transport Stream
)

func (h HeaderType) String() string {
	switch h {
	case HeaderTypeADIF:
		return "ADIF"
	case HeaderTypeADTS:
		return "ADTS"
	}
	return "raw"
}

// ChannelPosition represents the spatial position of an output channel.
type ChannelPosition uint8

// Channel positions.
const (
	ChannelUnknown     ChannelPosition = 0
	ChannelFrontCenter ChannelPosition = 1
	ChannelFrontLeft   ChannelPosition = 2
	ChannelFrontRight  ChannelPosition = 3
	ChannelLFE         ChannelPosition = 9
)

// SBRSignalling describes how SBR affects the output of a frame.
type SBRSignalling uint8

// SBR signalling values.
const (
	SBRNone          SBRSignalling = 0 // no SBR, core rate output
	SBRUpsampled     SBRSignalling = 1 // SBR regenerated the high band
	SBRNoneUpsampled SBRSignalling = 3 // SBR mode without a usable payload, pass-through at twice the rate
)

// MinStreamSize is the number of input bytes per channel that always
// holds a complete raw data block.
const MinStreamSize = 768

// FrameLength is the number of core samples per channel and block.
const FrameLength = syntax.FrameLength

// Config contains decoder configuration options.
type Config struct {
	// RawSampleRateIndex and RawChannels describe raw streams, which carry
	// no header. RawChannels must be 1 or 2.
	RawSampleRateIndex uint8
	RawChannels        uint8

	// DisableSBR ignores SBR payloads. Output stays at the core rate.
	DisableSBR bool
	// DownmixMono averages a channel pair into one output channel.
	DownmixMono bool
	// DRCCut and DRCBoost scale the transmitted dynamic range control,
	// from 0 (off) to 128 (as transmitted).
	DRCCut   uint8
	DRCBoost uint8
	// UseOldADTSFormat reads the 2-bit emphasis field of early MPEG-2
	// ADTS encoders.
	UseOldADTSFormat bool

	// Logger receives debug messages about format detection, stream
	// changes and dropped SBR payloads. nil disables logging.
	Logger *log.Logger
}

// Info describes a stream after initialization.
type Info struct {
	SampleRate uint32 // output rate in Hz
	Channels   uint8  // output channels, 0 when only the first block tells
	BytesRead  uint32 // header bytes consumed (ADIF only)
	ObjectType ObjectType
	HeaderType HeaderType
	SBR        bool // output at twice the core rate
}

// FrameInfo contains information about a decoded access unit.
type FrameInfo struct {
	BytesConsumed uint32 // bytes to advance the input by
	Samples       uint32 // interleaved PCM samples returned
	Channels      uint8  // output channels
	SampleRate    uint32 // output rate in Hz
	Blocks        uint8  // raw data blocks decoded

	SBR        SBRSignalling
	ObjectType ObjectType
	HeaderType HeaderType

	NumLFEChannels  uint8
	ChannelPosition [syntax.MaxOutputChannels]ChannelPosition
}

// Capability is a bit set of decoder features.
type Capability uint32

// Capabilities.
const (
	CapabilityLC    Capability = 1 << 0
	CapabilitySBR   Capability = 1 << 5
	CapabilityFixed Capability = 1 << 6 // fixed-point arithmetic
)

const version = "0.3.0"

// Version returns the library version.
func Version() string {
	return version
}

// GetCapabilities returns the features compiled into the decoder.
func GetCapabilities() Capability {
	return CapabilityLC | CapabilitySBR | CapabilityFixed
}
