package sbr

import (
	"github.com/llehouerou/go-heaac/internal/bits"
	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/syntax"
)

// crcBits is the length of bs_sbr_crc_bits in EXT_SBR_DATA_CRC payloads.
const crcBits = 10

// MaxOutputRate is the highest dual-rate output supported.
const MaxOutputRate = 96000

// channel is the SBR state of one audio channel.
type channel struct {
	ana analysisBank
	syn *synthesisBank
	buf qmfBuffer

	// delta decoding history
	env        [maxEnvelopes][numBands]int
	noise      [maxNoiseEnvelopes][maxNoiseBands]int
	prevEnv    [numBands]int
	prevEnvRes uint8
	prevNoise  [maxNoiseBands]int

	eOrig [maxEnvelopes][numBands]fixed.Float
	qOrig [maxNoiseEnvelopes][maxNoiseBands]fixed.Float

	// inverse filtering history
	bwPrev   [maxNoiseBands]int32
	invfPrev [maxNoiseBands]uint8

	// gain smoothing and signal assembly
	gains        envelopeGains
	gRing        [smoothLen][numBands]fixed.Float
	qRing        [smoothLen][numBands]fixed.Float
	ringPos      int
	ringFill     bool
	noiseIdx     int
	sineIdx      int
	prevEnvShort bool
	harmonicPrev [numBands]uint8
}

func newChannel() *channel {
	return &channel{syn: newSynthesisBank(), ringFill: true}
}

// reset clears the filterbank delay lines and all envelope history.
func (ch *channel) reset() {
	ch.ana.reset()
	ch.syn.reset()
	ch.buf = qmfBuffer{}
	ch.resetEnvelopes()
	ch.noiseIdx = 0
	ch.sineIdx = 0
}

// resetEnvelopes forgets the history tied to the frequency band tables.
func (ch *channel) resetEnvelopes() {
	ch.prevEnv = [numBands]int{}
	ch.prevEnvRes = 0
	ch.prevNoise = [maxNoiseBands]int{}
	ch.bwPrev = [maxNoiseBands]int32{}
	ch.invfPrev = [maxNoiseBands]uint8{}
	ch.ringFill = true
	ch.ringPos = 0
	ch.prevEnvShort = false
	ch.harmonicPrev = [numBands]uint8{}
}

// synthesize runs the synthesis bank over the output slots. Active frames
// use the low band below kx and the regenerated band above it; pass-through
// frames use the 32 analysis bands only.
func (ch *channel) synthesize(out []int32, t *freqTables, active bool) {
	hi := lowBands
	if active {
		hi = t.kx + t.m
	}
	var re, im [numBands]int32
	for l := 0; l < numSlots; l++ {
		s := l + tHFAdj
		copy(re[:hi], ch.buf.re[s][:hi])
		copy(im[:hi], ch.buf.im[s][:hi])
		ch.syn.slot(&re, &im, out[l*numBands:(l+1)*numBands])
	}
}

// Decoder runs SBR for one channel element: a single channel or a pair.
type Decoder struct {
	outRate    uint32
	header     Header
	headerSeen bool
	tables     *freqTables
	frame      frameData
	r          bits.Reader
	ch         [2]*channel
}

// NewDecoder returns a Decoder for a core running at coreRate. The output
// rate is twice the core rate.
func NewDecoder(coreRate uint32) (*Decoder, error) {
	out := 2 * coreRate
	if out > MaxOutputRate {
		return nil, ErrOutputRate
	}
	return &Decoder{
		outRate: out,
		ch:      [2]*channel{newChannel(), newChannel()},
	}, nil
}

// OutputRate returns the sampling rate of the decoded signal.
func (d *Decoder) OutputRate() uint32 {
	return d.outRate
}

// Header returns the active header and whether one has been received.
func (d *Decoder) Header() (Header, bool) {
	return d.header, d.headerSeen
}

// Reset clears every delay line and forgets the header.
func (d *Decoder) Reset() {
	d.headerSeen = false
	d.tables = nil
	for _, ch := range d.ch {
		ch.reset()
	}
}

// Process decodes one frame of an element with nch channels. in holds the
// 1024 wide core samples of each channel and out receives OutputSamples
// samples per channel with the same fractional bits. payload may be nil.
//
// Output is always produced. active reports whether the high band was
// regenerated; when it was not, err tells why the payload was unusable.
func (d *Decoder) Process(payload *syntax.ExtensionPayload, nch int, in, out [][]int32) (active bool, err error) {
	if nch < 1 || nch > 2 {
		return false, ErrChannels
	}
	if payload != nil {
		err = d.parse(payload, nch)
		active = err == nil
	}

	for c := 0; c < nch; c++ {
		ch := d.ch[c]
		ch.buf.shift()
		ch.ana.process(in[c], &ch.buf)
	}

	if active {
		t := d.tables
		f := &d.frame
		for c := 0; c < nch; c++ {
			d.ch[c].decodeDeltas(&f.ch[c], t)
		}
		if f.coupling {
			dequantizeCoupled(d.ch[0], d.ch[1], &f.ch[0], t)
		} else {
			for c := 0; c < nch; c++ {
				d.ch[c].dequantize(&f.ch[c], t)
			}
		}
		for c := 0; c < nch; c++ {
			d.ch[c].generateHF(&f.ch[c], t)
			d.ch[c].adjustHF(&f.ch[c], t, &d.header)
		}
	}

	for c := 0; c < nch; c++ {
		d.ch[c].synthesize(out[c], d.tables, active)
	}
	return active, err
}

// parse reads sbr_extension_data(): an optional header followed by the
// frame data.
func (d *Decoder) parse(p *syntax.ExtensionPayload, nch int) error {
	r := &d.r
	r.Reset(p.Data)
	if p.CRC() {
		r.FlushBits(crcBits)
	}
	if r.Get1Flag() {
		h := ParseHeader(r)
		if err := d.applyHeader(&h); err != nil {
			return err
		}
	}
	if !d.headerSeen {
		return ErrNoHeader
	}
	if err := d.frame.parse(r, &d.header, d.tables, nch); err != nil {
		return err
	}
	if r.GetProcessedBits() > p.Bits {
		return ErrPayloadOverrun
	}
	return nil
}

// applyHeader installs h, rebuilding the band tables when they change.
func (d *Decoder) applyHeader(h *Header) error {
	reset := !d.headerSeen || d.header.NeedsReset(h)
	if reset || d.header.LimiterBands != h.LimiterBands {
		t, err := newFreqTables(h, d.outRate)
		if err != nil {
			d.headerSeen = false
			d.tables = nil
			return err
		}
		d.tables = t
	}
	if reset {
		for _, ch := range d.ch {
			ch.resetEnvelopes()
		}
	}
	d.header = *h
	d.headerSeen = true
	return nil
}
