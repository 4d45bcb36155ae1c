package syntax

import (
	"github.com/llehouerou/go-heaac/internal/bits"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// ADIFMagic is the 4-byte magic number for ADIF files.
var ADIFMagic = [4]byte{'A', 'D', 'I', 'F'}

// ADIFHeader contains Audio Data Interchange Format header data. ADIF
// carries a single header at the start of the stream followed by raw data
// blocks.
//
// Ported from: adif_header in ~/dev/faad2/libfaad/structs.h:170-183
type ADIFHeader struct {
	CopyrightIDPresent       bool
	CopyrightID              [9]byte
	OriginalCopy             bool
	Home                     bool
	BitstreamType            uint8 // 0 = constant rate, 1 = variable rate
	Bitrate                  uint32
	NumProgramConfigElements uint8 // count - 1
	ADIFBufferFullness       uint32
	PCE                      [MaxPCEs]*ProgramConfig
}

// IsADIF reports whether data starts with the ADIF magic.
func IsADIF(data []byte) bool {
	return len(data) >= 4 && [4]byte(data[:4]) == ADIFMagic
}

// ParseADIFHeader parses adif_header() and validates the first program
// configuration. The reader is left byte aligned at the first raw block.
func ParseADIFHeader(r *bits.Reader) (*ADIFHeader, error) {
	for _, b := range ADIFMagic {
		if byte(r.GetBits(8)) != b {
			return nil, ErrADIFMagic
		}
	}

	h := &ADIFHeader{}
	if h.CopyrightIDPresent = r.Get1Flag(); h.CopyrightIDPresent {
		for i := range h.CopyrightID {
			h.CopyrightID[i] = byte(r.GetBits(8))
		}
	}
	h.OriginalCopy = r.Get1Flag()
	h.Home = r.Get1Flag()
	h.BitstreamType = r.Get1Bit()
	h.Bitrate = r.GetBits(23)
	h.NumProgramConfigElements = uint8(r.GetBits(4))

	for i := uint8(0); i <= h.NumProgramConfigElements; i++ {
		if h.BitstreamType == 0 {
			h.ADIFBufferFullness = r.GetBits(20)
		}
		pce, err := ParsePCE(r)
		if err != nil {
			return nil, err
		}
		h.PCE[i] = pce
	}
	r.ByteAlign()

	if err := h.PCE[0].Validate(); err != nil {
		return nil, err
	}
	if int(h.PCE[0].SFIndex) >= tables.NumSampleRates {
		return nil, ErrInvalidSRIndex
	}
	return h, nil
}
