package syntax

// ICStream represents an Individual Channel Stream: window info, section
// data, scale factors, and tool side information for one channel.
//
// Ported from: ic_stream in ~/dev/faad2/libfaad/structs.h:240-301
type ICStream struct {
	// Window configuration
	MaxSFB              uint8 // bands transmitted per window
	GlobalGain          uint8 // scalefactor start value
	NumSWB              uint8 // bands of the window length at this rate
	NumWindowGroups     uint8 // 1 for long windows
	NumWindows          uint8 // 1 or 8
	WindowSequence      WindowSequence
	WindowGroupLength   [MaxWindowGroups]uint8
	WindowShape         uint8 // 0 = sine, 1 = KBD
	ScaleFactorGrouping uint8 // 7-bit grouping mask of short windows

	// SWBOffset holds the band boundaries of one window, terminated by the
	// window length. SectSFBOffset holds them per group with every band
	// widened by the group length, as laid out in the bitstream.
	SWBOffset     [MaxSFB + 1]uint16
	SectSFBOffset [MaxWindowGroups][MaxSections + 1]uint16

	// Section data
	SectCB    [MaxWindowGroups][MaxSections]uint8
	SectStart [MaxWindowGroups][MaxSections]uint8
	SectEnd   [MaxWindowGroups][MaxSections]uint8
	NumSec    [MaxWindowGroups]uint8         // sections per group
	SFBCB     [MaxWindowGroups][MaxSFB]uint8 // codebook per band, derived from sections

	// ScaleFactors holds, per band, the regular scalefactor (0-255), the
	// intensity position, or the noise energy depending on SFBCB.
	ScaleFactors [MaxWindowGroups][MaxSFB]int16

	// M/S stereo (CPE only, copied to both channels)
	MSMaskPresent uint8 // 0 off, 1 per band, 2 all bands
	MSUsed        [MaxWindowGroups][MaxSFB]bool

	// Tool usage flags
	NoiseUsed              bool // PNS band present
	IsUsed                 bool // intensity band present
	PulseDataPresent       bool
	TNSDataPresent         bool
	GainControlDataPresent bool // SSR data, skipped

	Pul PulseInfo
	TNS TNSInfo
}

// IsShort reports whether the stream uses eight short windows.
func (ics *ICStream) IsShort() bool {
	return ics.WindowSequence == EightShortSequence
}

// Element is a parsed channel element: one stream for SCE and LFE, two for
// a CPE. Spec points at the caller's quantized spectrum buffers.
//
// Ported from: element in ~/dev/faad2/libfaad/structs.h:303-313
type Element struct {
	ID                 ElementID
	ElementInstanceTag uint8
	Channel            uint8 // first output channel
	CommonWindow       bool

	ICS  [2]ICStream
	Spec [2][]int16

	// SBR is the SBR extension payload of the FIL element that followed,
	// or nil.
	SBR *ExtensionPayload

	index int // slot within the owning Frame
}

// NumChannels returns 2 for a CPE and 1 otherwise.
func (e *Element) NumChannels() int {
	if e.ID == IDCPE {
		return 2
	}
	return 1
}
