package aactest

import "github.com/llehouerou/go-heaac/internal/huffman"

// SBRHeader is the sbr_header() written by SBRPayload. Both optional
// parts are always written.
type SBRHeader struct {
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

// DefaultSBRHeader is a header for 22.05 kHz cores whose band tables at
// 44.1 kHz have 8 low, 16 high and 3 noise bands.
var DefaultSBRHeader = SBRHeader{
	AmpRes:        1,
	StartFreq:     5,
	StopFreq:      9,
	FreqScale:     2,
	AlterScale:    1,
	NoiseBands:    2,
	LimiterBands:  2,
	LimiterGains:  2,
	InterpolFreq:  1,
	SmoothingMode: 1,
}

// DefaultSBRLayout matches DefaultSBRHeader at 44.1 kHz.
var DefaultSBRLayout = SBRLayout{LowBands: 8, HighBands: 16, NoiseBands: 3}

// SBRLayout gives the band counts of the tables a header produces; the
// writer needs them to size the envelope and noise data.
type SBRLayout struct {
	LowBands   int
	HighBands  int
	NoiseBands int
}

// SBRChannel describes FIXFIX channel data with flat envelopes: every
// band of every envelope has value Level and every noise band Noise.
type SBRChannel struct {
	EnvLog2 uint8 // bs_num_env is 1 << EnvLog2
	FreqRes uint8
	Invf    uint8
	Level   int
	Noise   int
}

func (c *SBRChannel) numEnv() int {
	return 1 << c.EnvLog2
}

func (c *SBRChannel) numNoise() int {
	if c.numEnv() > 1 {
		return 2
	}
	return 1
}

// SBRPayload returns the body of an EXT_SBR_DATA extension payload: the
// header when h is not nil, then sbr_single_channel_element() for one
// channel or an uncoupled sbr_channel_pair_element() for two. ampRes is
// the amplitude resolution of the active header.
func SBRPayload(h *SBRHeader, ampRes uint8, layout SBRLayout, chans ...SBRChannel) *Writer {
	w := NewWriter()
	w.Flag(h != nil)
	if h != nil {
		w.sbrHeader(h)
	}

	w.Flag(false) // bs_data_extra
	if len(chans) == 2 {
		w.Flag(false) // bs_coupling
	}
	for i := range chans {
		w.sbrGrid(&chans[i])
	}
	for i := range chans {
		w.Bits(0, uint8(chans[i].numEnv()+chans[i].numNoise())) // frequency deltas
	}
	for i := range chans {
		for k := 0; k < layout.NoiseBands; k++ {
			w.Bits(uint64(chans[i].Invf), 2)
		}
	}
	for i := range chans {
		w.sbrEnvelope(&chans[i], ampRes, layout)
	}
	for i := range chans {
		w.sbrNoise(&chans[i], layout)
	}
	for range chans {
		w.Flag(false) // bs_add_harmonic_flag
	}
	w.Flag(false) // bs_extended_data
	return w
}

// SBRCoupledPayload is SBRPayload for a coupled channel pair: level
// carries the shared grid, the inverse filtering and the level data, and
// balance the balance values of the envelope and noise floor.
func SBRCoupledPayload(h *SBRHeader, ampRes uint8, layout SBRLayout, level, balance SBRChannel) *Writer {
	w := NewWriter()
	w.Flag(h != nil)
	if h != nil {
		w.sbrHeader(h)
	}
	w.Flag(false) // bs_data_extra
	w.Flag(true)  // bs_coupling
	w.sbrGrid(&level)
	w.Bits(0, uint8(2*(level.numEnv()+level.numNoise())))
	for k := 0; k < layout.NoiseBands; k++ {
		w.Bits(uint64(level.Invf), 2)
	}
	w.sbrEnvelope(&level, ampRes, layout)
	w.sbrNoise(&level, layout)

	balance.EnvLog2, balance.FreqRes = level.EnvLog2, level.FreqRes
	if level.numEnv() == 1 {
		ampRes = 0
	}
	start, book := uint8(6), huffman.FreqEnvelopeBalance15
	if ampRes == 1 {
		start, book = 5, huffman.FreqEnvelopeBalance30
	}
	n := layout.LowBands
	if level.FreqRes == 1 {
		n = layout.HighBands
	}
	for l := 0; l < balance.numEnv(); l++ {
		w.Bits(uint64(balance.Level), start)
		for k := 1; k < n; k++ {
			w.SBR(book, 0)
		}
	}
	for l := 0; l < balance.numNoise(); l++ {
		w.Bits(uint64(balance.Noise), 4)
		for k := 1; k < layout.NoiseBands; k++ {
			w.SBR(huffman.FreqEnvelopeBalance30, 0)
		}
	}

	w.Flag(false)
	w.Flag(false)
	w.Flag(false) // bs_extended_data
	return w
}

func (w *Writer) sbrHeader(h *SBRHeader) {
	w.Bits(uint64(h.AmpRes), 1)
	w.Bits(uint64(h.StartFreq), 4)
	w.Bits(uint64(h.StopFreq), 4)
	w.Bits(uint64(h.XoverBand), 3)
	w.Bits(0, 2)
	w.Flag(true)
	w.Flag(true)
	w.Bits(uint64(h.FreqScale), 2)
	w.Bits(uint64(h.AlterScale), 1)
	w.Bits(uint64(h.NoiseBands), 2)
	w.Bits(uint64(h.LimiterBands), 2)
	w.Bits(uint64(h.LimiterGains), 2)
	w.Bits(uint64(h.InterpolFreq), 1)
	w.Bits(uint64(h.SmoothingMode), 1)
}

func (w *Writer) sbrGrid(c *SBRChannel) {
	w.Bits(0, 2) // FIXFIX
	w.Bits(uint64(c.EnvLog2), 2)
	w.Bits(uint64(c.FreqRes), 1)
}

func (w *Writer) sbrEnvelope(c *SBRChannel, ampRes uint8, layout SBRLayout) {
	if c.numEnv() == 1 {
		ampRes = 0
	}
	start, book := uint8(7), huffman.FreqEnvelope15
	if ampRes == 1 {
		start, book = 6, huffman.FreqEnvelope30
	}
	n := layout.LowBands
	if c.FreqRes == 1 {
		n = layout.HighBands
	}
	for l := 0; l < c.numEnv(); l++ {
		w.Bits(uint64(c.Level), start)
		for k := 1; k < n; k++ {
			w.SBR(book, 0)
		}
	}
}

func (w *Writer) sbrNoise(c *SBRChannel, layout SBRLayout) {
	for l := 0; l < c.numNoise(); l++ {
		w.Bits(uint64(c.Noise), 5)
		for k := 1; k < layout.NoiseBands; k++ {
			w.SBR(huffman.FreqEnvelope30, 0)
		}
	}
}

// SBRBlock returns a raw_data_block() of silent channels (an SCE for one
// channel, a CPE for two) followed by a fill element carrying payload.
func SBRBlock(srIndex uint8, channels int, payload *Writer) []byte {
	w := NewWriter()
	c := Channel{GlobalGain: 100}
	if channels == 1 {
		w.SCE(0, srIndex, c)
	} else {
		w.CPE(0, srIndex, c, c, 0)
	}
	if payload != nil {
		w.Fill(0xD, payload)
	}
	w.End()
	return w.Bytes()
}
