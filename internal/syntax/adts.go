package syntax

import (
	"github.com/llehouerou/go-heaac/internal/bits"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// ADTSSyncword is the 12-bit sync pattern for ADTS frames.
const ADTSSyncword = 0x0FFF

// MaxSyncSearchBytes bounds the resynchronization search.
const MaxSyncSearchBytes = 768

// FindSyncword advances r to the next ADTS syncword, skipping at most
// MaxSyncSearchBytes bytes. The syncword itself is not consumed.
func FindSyncword(r *bits.Reader) error {
	for i := 0; i < MaxSyncSearchBytes; i++ {
		if r.BitsRemaining() < 12 {
			break
		}
		if r.ShowBits(12) == ADTSSyncword {
			return nil
		}
		r.FlushBits(8)
	}
	return ErrADTSSyncwordNotFound
}

// FindSyncwordOffset returns the byte offset of the first syncword in data
// within the search bound, or -1.
func FindSyncwordOffset(data []byte) int {
	n := min(len(data)-1, MaxSyncSearchBytes)
	for i := 0; i < n; i++ {
		if data[i] == 0xFF && data[i+1]&0xF0 == 0xF0 {
			return i
		}
	}
	return -1
}

// ADTSHeader contains Audio Data Transport Stream header data.
//
// Ported from: adts_header in ~/dev/faad2/libfaad/structs.h:146-168
type ADTSHeader struct {
	ID                   uint8 // 0 = MPEG-4, 1 = MPEG-2
	Layer                uint8
	ProtectionAbsent     bool
	Profile              uint8 // object type - 1
	SFIndex              uint8
	PrivateBit           bool
	ChannelConfiguration uint8
	Original             bool
	Home                 bool
	Emphasis             uint8 // old format only

	CopyrightIDBit         bool
	CopyrightIDStart       bool
	AACFrameLength         uint16 // whole frame in bytes, header included
	ADTSBufferFullness     uint16
	NoRawDataBlocksInFrame uint8 // blocks - 1

	RawDataBlockPosition [3]uint16
	CRCCheck             uint16
}

// ParseADTSHeader locates the next syncword and parses adts_frame() up to
// the first raw data block. oldFormat reads the 2-bit emphasis field that
// early MPEG-2 encoders emitted.
func ParseADTSHeader(r *bits.Reader, oldFormat bool) (*ADTSHeader, error) {
	if err := FindSyncword(r); err != nil {
		return nil, err
	}
	r.FlushBits(12)

	h := &ADTSHeader{}
	h.ID = r.Get1Bit()
	h.Layer = uint8(r.GetBits(2))
	h.ProtectionAbsent = r.Get1Flag()
	h.Profile = uint8(r.GetBits(2))
	h.SFIndex = uint8(r.GetBits(4))
	h.PrivateBit = r.Get1Flag()
	h.ChannelConfiguration = uint8(r.GetBits(3))
	h.Original = r.Get1Flag()
	h.Home = r.Get1Flag()
	if oldFormat && h.ID == 0 {
		h.Emphasis = uint8(r.GetBits(2))
	}

	h.CopyrightIDBit = r.Get1Flag()
	h.CopyrightIDStart = r.Get1Flag()
	h.AACFrameLength = uint16(r.GetBits(13))
	h.ADTSBufferFullness = uint16(r.GetBits(11))
	h.NoRawDataBlocksInFrame = uint8(r.GetBits(2))

	if !h.ProtectionAbsent {
		for i := uint8(0); i < h.NoRawDataBlocksInFrame; i++ {
			h.RawDataBlockPosition[i] = uint16(r.GetBits(16))
		}
		h.CRCCheck = uint16(r.GetBits(16))
	}

	if r.Overrun() {
		return nil, ErrBitstreamOverrun
	}
	return h, nil
}

// HeaderSize returns the header size in bytes including the error check.
func (h *ADTSHeader) HeaderSize() int {
	n := 7
	if !h.ProtectionAbsent {
		n += 2 + 2*int(h.NoRawDataBlocksInFrame)
	}
	return n
}

// Validate rejects headers this decoder cannot decode. All failures are
// fatal for the stream.
func (h *ADTSHeader) Validate() error {
	switch {
	case h.Layer != 0:
		return ErrADTSLayer
	case h.Profile != uint8(ObjectTypeLC)-1:
		return ErrADTSProfile
	case int(h.SFIndex) >= tables.NumSampleRates:
		return ErrInvalidSRIndex
	case h.ChannelConfiguration > MaxOutputChannels:
		return ErrInvalidChannelConfig
	case int(h.AACFrameLength) < h.HeaderSize():
		return ErrADTSFrameLength
	}
	return nil
}

// SameStructure reports whether o describes the same sample rate and
// channel layout as h.
func (h *ADTSHeader) SameStructure(o *ADTSHeader) bool {
	return h.SFIndex == o.SFIndex && h.ChannelConfiguration == o.ChannelConfiguration
}
