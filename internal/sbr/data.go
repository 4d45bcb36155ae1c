package sbr

import (
	"github.com/llehouerou/go-heaac/internal/bits"
	"github.com/llehouerou/go-heaac/internal/huffman"
)

// channelData is what sbr_data() carries for one channel, before delta
// decoding.
type channelData struct {
	grid    Grid
	ampRes  uint8
	dfEnv   [maxEnvelopes]uint8
	dfNoise [maxNoiseEnvelopes]uint8
	invf    [maxNoiseBands]uint8
	env     [maxEnvelopes][numBands]int
	noise   [maxNoiseEnvelopes][maxNoiseBands]int

	harmonic    bool
	addHarmonic [numBands]uint8
}

// frameData is sbr_data() of one element.
type frameData struct {
	nch      int
	coupling bool
	ch       [2]channelData
}

// parse reads sbr_single_channel_element() or sbr_channel_pair_element()
// (ISO/IEC 14496-3 Tables 4.65 and 4.66).
func (f *frameData) parse(r *bits.Reader, h *Header, t *freqTables, nch int) error {
	f.nch = nch
	f.coupling = false
	if r.Get1Flag() { // bs_data_extra
		r.FlushBits(4 * uint(nch))
	}

	l, rc := &f.ch[0], &f.ch[1]
	switch {
	case nch == 1:
		if err := parseGrid(r, &l.grid); err != nil {
			return err
		}
		l.setAmpRes(h)
		l.parseDtdf(r)
		l.parseInvf(r, t)
		l.parseEnvelope(r, t, false)
		l.parseNoise(r, t, false)

	case r.Get1Flag(): // bs_coupling
		f.coupling = true
		if err := parseGrid(r, &l.grid); err != nil {
			return err
		}
		rc.grid = l.grid
		l.setAmpRes(h)
		rc.setAmpRes(h)
		l.parseDtdf(r)
		rc.parseDtdf(r)
		l.parseInvf(r, t)
		rc.invf = l.invf
		l.parseEnvelope(r, t, false)
		l.parseNoise(r, t, false)
		rc.parseEnvelope(r, t, true)
		rc.parseNoise(r, t, true)

	default:
		if err := parseGrid(r, &l.grid); err != nil {
			return err
		}
		if err := parseGrid(r, &rc.grid); err != nil {
			return err
		}
		l.setAmpRes(h)
		rc.setAmpRes(h)
		l.parseDtdf(r)
		rc.parseDtdf(r)
		l.parseInvf(r, t)
		rc.parseInvf(r, t)
		l.parseEnvelope(r, t, false)
		rc.parseEnvelope(r, t, false)
		l.parseNoise(r, t, false)
		rc.parseNoise(r, t, false)
	}

	for c := 0; c < nch; c++ {
		f.ch[c].parseHarmonics(r, t)
	}

	if r.Get1Flag() { // bs_extended_data
		cnt := int(r.GetBits(4))
		if cnt == 15 {
			cnt += int(r.GetBits(8))
		}
		r.SkipBits(8 * cnt)
	}
	return nil
}

// setAmpRes applies the header amplitude resolution, which a FIXFIX frame
// with a single envelope overrides to 1.5 dB.
func (c *channelData) setAmpRes(h *Header) {
	c.ampRes = h.AmpRes
	if c.grid.Class == FixFix && c.grid.NumEnv == 1 {
		c.ampRes = 0
	}
}

func (c *channelData) parseDtdf(r *bits.Reader) {
	for l := 0; l < c.grid.NumEnv; l++ {
		c.dfEnv[l] = r.Get1Bit()
	}
	for l := 0; l < c.grid.NumNoise; l++ {
		c.dfNoise[l] = r.Get1Bit()
	}
}

func (c *channelData) parseInvf(r *bits.Reader, t *freqTables) {
	for i := 0; i < len(t.noise)-1; i++ {
		c.invf[i] = uint8(r.GetBits(2))
	}
}

// parseEnvelope reads sbr_envelope(). Balance data of the second coupled
// channel is stored doubled.
func (c *channelData) parseEnvelope(r *bits.Reader, t *freqTables, balance bool) {
	var tHuff, fHuff huffman.SBRTable
	startBits := uint(7)
	switch {
	case c.ampRes == 1 && balance:
		tHuff, fHuff = huffman.TimeEnvelopeBalance30, huffman.FreqEnvelopeBalance30
		startBits = 5
	case c.ampRes == 1:
		tHuff, fHuff = huffman.TimeEnvelope30, huffman.FreqEnvelope30
		startBits = 6
	case balance:
		tHuff, fHuff = huffman.TimeEnvelopeBalance15, huffman.FreqEnvelopeBalance15
		startBits = 6
	default:
		tHuff, fHuff = huffman.TimeEnvelope15, huffman.FreqEnvelope15
	}
	shift := uint(0)
	if balance {
		shift = 1
	}

	for l := 0; l < c.grid.NumEnv; l++ {
		n := len(t.bands(c.grid.FreqRes[l])) - 1
		row := &c.env[l]
		if c.dfEnv[l] == 0 {
			row[0] = int(r.GetBits(startBits)) << shift
			for k := 1; k < n; k++ {
				row[k] = huffman.SBR(r, fHuff) << shift
			}
			continue
		}
		for k := 0; k < n; k++ {
			row[k] = huffman.SBR(r, tHuff) << shift
		}
	}
}

// parseNoise reads sbr_noise().
func (c *channelData) parseNoise(r *bits.Reader, t *freqTables, balance bool) {
	tHuff, fHuff := huffman.TimeNoise30, huffman.FreqEnvelope30
	startBits, shift := uint(5), uint(0)
	if balance {
		tHuff, fHuff = huffman.TimeNoiseBalance30, huffman.FreqEnvelopeBalance30
		startBits, shift = 4, 1
	}

	nq := len(t.noise) - 1
	for l := 0; l < c.grid.NumNoise; l++ {
		row := &c.noise[l]
		if c.dfNoise[l] == 0 {
			row[0] = int(r.GetBits(startBits)) << shift
			for k := 1; k < nq; k++ {
				row[k] = huffman.SBR(r, fHuff) << shift
			}
			continue
		}
		for k := 0; k < nq; k++ {
			row[k] = huffman.SBR(r, tHuff) << shift
		}
	}
}

// parseHarmonics reads bs_add_harmonic_flag and sbr_sinusoidal_coding().
func (c *channelData) parseHarmonics(r *bits.Reader, t *freqTables) {
	c.harmonic = r.Get1Flag()
	c.addHarmonic = [numBands]uint8{}
	if !c.harmonic {
		return
	}
	for k := 0; k < len(t.high)-1; k++ {
		c.addHarmonic[k] = r.Get1Bit()
	}
}
