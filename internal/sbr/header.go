package sbr

import "github.com/llehouerou/go-heaac/internal/bits"

// Header holds sbr_header() (ISO/IEC 14496-3 Table 4.63). Fields of the
// optional extra parts take their defaults when the part is absent.
type Header struct {
	AmpRes     uint8
	StartFreq  uint8
	StopFreq   uint8
	XoverBand  uint8
	FreqScale  uint8
	AlterScale uint8
	NoiseBands uint8

	LimiterBands  uint8
	LimiterGains  uint8
	InterpolFreq  uint8
	SmoothingMode uint8
}

// DefaultHeader returns a header with the defaults of the optional fields.
func DefaultHeader() Header {
	return Header{
		FreqScale:     2,
		AlterScale:    1,
		NoiseBands:    2,
		LimiterBands:  2,
		LimiterGains:  2,
		InterpolFreq:  1,
		SmoothingMode: 1,
	}
}

// ParseHeader reads sbr_header().
func ParseHeader(r *bits.Reader) Header {
	h := DefaultHeader()
	h.AmpRes = r.Get1Bit()
	h.StartFreq = uint8(r.GetBits(4))
	h.StopFreq = uint8(r.GetBits(4))
	h.XoverBand = uint8(r.GetBits(3))
	r.FlushBits(2) // bs_reserved
	extra1 := r.Get1Flag()
	extra2 := r.Get1Flag()
	if extra1 {
		h.FreqScale = uint8(r.GetBits(2))
		h.AlterScale = r.Get1Bit()
		h.NoiseBands = uint8(r.GetBits(2))
	}
	if extra2 {
		h.LimiterBands = uint8(r.GetBits(2))
		h.LimiterGains = uint8(r.GetBits(2))
		h.InterpolFreq = r.Get1Bit()
		h.SmoothingMode = r.Get1Bit()
	}
	return h
}

// NeedsReset reports whether moving from h to n changes the frequency band
// tables, which restarts the envelope and noise floor state.
func (h *Header) NeedsReset(n *Header) bool {
	return h.StartFreq != n.StartFreq ||
		h.StopFreq != n.StopFreq ||
		h.FreqScale != n.FreqScale ||
		h.AlterScale != n.AlterScale ||
		h.XoverBand != n.XoverBand ||
		h.NoiseBands != n.NoiseBands
}
