package aac

import (
	"errors"

	"github.com/llehouerou/go-heaac/internal/output"
	"github.com/llehouerou/go-heaac/internal/sbr"
	"github.com/llehouerou/go-heaac/internal/spectrum"
	"github.com/llehouerou/go-heaac/internal/syntax"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// id3v1Size is the size of an ID3v1 tag, which some files append to the
// last ADTS frame.
const id3v1Size = 128

// Decode decodes one access unit from the start of buffer: an ADTS frame
// with all of its raw data blocks, or one raw data block for ADIF and raw
// streams.
//
// The returned samples are interleaved 16-bit PCM. They alias a session
// buffer that is overwritten by the next call. info.BytesConsumed tells
// how far to advance the input, also when a frame error is returned.
//
// ErrNeedMoreData (KindUnderflow) asks for more input starting at the
// same position. Frame errors (KindFrame) drop the access unit; fatal
// errors end the stream.
//
// Ported from: aac_frame_decode() in ~/dev/faad2/libfaad/decoder.c:848-1255
func (d *Decoder) Decode(buffer []byte) ([]int16, *FrameInfo, error) {
	if buffer == nil {
		return nil, nil, ErrNilBuffer
	}
	if !d.initialized || d.fb == nil {
		return nil, nil, ErrNotInitialized
	}

	info := &FrameInfo{HeaderType: d.format}
	if len(buffer) >= id3v1Size && string(buffer[:3]) == "TAG" {
		info.BytesConsumed = id3v1Size
		return nil, info, nil
	}

	var (
		samples []int16
		err     error
	)
	if d.format == HeaderTypeADTS {
		samples, err = d.decodeADTS(buffer, info)
	} else {
		samples, err = d.decodeRaw(buffer, info)
	}
	if err != nil {
		if KindOf(err) == KindFrame {
			d.log.Debug("dropping frame", "err", err, "bytes", info.BytesConsumed)
		}
		return nil, info, err
	}

	d.fillInfo(info, len(samples))
	return samples, info, nil
}

// decodeADTS decodes one ADTS frame.
func (d *Decoder) decodeADTS(buf []byte, info *FrameInfo) ([]int16, error) {
	off := syntax.FindSyncwordOffset(buf)
	if off < 0 {
		if len(buf) <= syntax.MaxSyncSearchBytes {
			return nil, ErrNeedMoreData
		}
		return nil, ErrSyncwordNotFound
	}
	if len(buf)-off < 7 {
		return nil, ErrNeedMoreData
	}

	r := &d.reader
	r.Reset(buf[off:])
	h, err := syntax.ParseADTSHeader(r, d.config.UseOldADTSFormat)
	if err == nil {
		err = h.Validate()
	}
	if err != nil {
		if r.Overrun() {
			return nil, ErrNeedMoreData
		}
		return nil, wrap(err, ErrADTSHeader)
	}
	size := int(h.AACFrameLength)
	if len(buf)-off < size {
		return nil, ErrNeedMoreData
	}
	info.BytesConsumed = uint32(off + size)

	if d.adts != nil && !d.adts.SameStructure(h) {
		d.log.Debug("ADTS header changed",
			"rate", tables.SampleRates[h.SFIndex], "channels", h.ChannelConfiguration,
			"old_rate", tables.SampleRates[d.adts.SFIndex], "old_channels", d.adts.ChannelConfiguration)
		d.restructure(h.SFIndex, h.ChannelConfiguration)
	}
	d.adts = h

	protected := !h.ProtectionAbsent
	blocks := int(h.NoRawDataBlocksInFrame) + 1
	r.Reset(buf[off+h.HeaderSize() : off+size])

	d.pcm = d.pcm[:0]
	for b := 0; b < blocks; b++ {
		if err := d.decodeBlock(); err != nil {
			return nil, wrap(err, ErrBitstream)
		}
		if protected && blocks > 1 {
			r.FlushBits(16) // raw_data_block CRC
		}
		info.Blocks++
	}
	if r.Overrun() {
		return nil, wrap(syntax.ErrBitstreamOverrun, ErrBitstream)
	}
	d.account(size, blocks)
	return d.pcm, nil
}

// decodeRaw decodes one raw data block of an ADIF or raw stream. Running
// out of input is only an underflow while the buffer is shorter than the
// largest possible block.
func (d *Decoder) decodeRaw(buf []byte, info *FrameInfo) ([]int16, error) {
	if len(buf) == 0 {
		return nil, ErrNeedMoreData
	}
	r := &d.reader
	r.Reset(buf)
	d.pcm = d.pcm[:0]

	err := d.decodeBlock()
	if err == nil && r.Overrun() {
		err = syntax.ErrBitstreamOverrun
	}
	if err != nil {
		if r.Overrun() && len(buf) < MinStreamSize*syntax.MaxOutputChannels {
			return nil, ErrNeedMoreData
		}
		info.BytesConsumed = uint32(min(len(buf), (r.GetProcessedBits()+7)/8))
		return nil, wrap(err, ErrBitstream)
	}

	n := r.GetProcessedBits() / 8
	info.BytesConsumed = uint32(n)
	info.Blocks = 1
	d.account(n, 1)
	return d.pcm, nil
}

// account updates the running statistics after an access unit.
func (d *Decoder) account(bytes, blocks int) {
	d.bytesTotal += uint64(bytes)
	d.coreSamples += uint64(blocks * FrameLength)
}

// restructure switches the session to a new rate or channel layout. All
// filter memory is cleared.
func (d *Decoder) restructure(sfIndex, channels uint8) {
	d.Flush()
	if sfIndex != d.sfIndex {
		d.el = [syntax.MaxOutputChannels]elementState{}
		d.sfIndex = sfIndex
		d.resolveSBRMode()
	}
	d.channels = channels
}

// decodeBlock parses and renders one raw_data_block() from d.reader and
// appends its PCM to d.pcm.
func (d *Decoder) decodeBlock() error {
	f := &d.frame
	if err := syntax.ParseRawDataBlock(&d.reader, &syntax.RawDataBlockConfig{SFIndex: d.sfIndex}, f); err != nil {
		return err
	}
	if f.PCE != nil {
		if err := f.PCE.Validate(); err != nil {
			return wrap(err, ErrProgramConfig)
		}
	}
	if f.NumChannels == 0 {
		return nil
	}
	if d.channels != uint8(f.NumChannels) {
		if d.channels != 0 {
			d.log.Debug("channel count changed", "channels", f.NumChannels, "old", d.channels)
			d.restructure(d.sfIndex, uint8(f.NumChannels))
		}
		d.channels = uint8(f.NumChannels)
	}

	if d.sbrAllowed() && d.hasSBRPayload() {
		d.sbrSeen = true
		if !d.sbrMode && d.sbrSupported() {
			d.log.Debug("SBR payload found, doubling the output rate", "rate", 2*d.coreRate())
			d.sbrMode = true
		}
	}

	d.sbrActive = false
	for i := 0; i < f.NumElements; i++ {
		if err := d.decodeElement(i, &f.Elements[i]); err != nil {
			return err
		}
	}

	d.output()
	d.frames++
	return nil
}

func (d *Decoder) hasSBRPayload() bool {
	f := &d.frame
	for i := 0; i < f.NumElements; i++ {
		if f.Elements[i].SBR != nil {
			return true
		}
	}
	return false
}

// decodeElement runs reconstruction, the filterbank and SBR for one
// channel element. Its channels are d.ch[el.Channel:].
func (d *Decoder) decodeElement(slot int, el *syntax.Element) error {
	nch := el.NumChannels()
	c0 := int(el.Channel)
	cfg := &spectrum.ReconstructConfig{SRIndex: d.sfIndex, RNG: d.rng, Scratch: d.scratch[:]}

	var err error
	if nch == 2 {
		err = spectrum.ReconstructChannelPair(el, &d.ch[c0].spec, &d.ch[c0+1].spec, cfg)
	} else {
		err = spectrum.ReconstructSingleChannel(&el.ICS[0], el.Spec[0], &d.ch[c0].spec, cfg)
	}
	if err != nil {
		return err
	}

	for k := 0; k < nch; k++ {
		ics := &el.ICS[k]
		ch := &d.ch[c0+k]
		d.tnsUsed = d.tnsUsed || ics.TNSDataPresent
		d.pnsUsed = d.pnsUsed || ics.NoiseUsed

		if d.drc.Enabled() && d.frame.DRC.Present && !d.excludedFromDRC(c0+k) {
			ch.spec.Mask = d.drc.Apply(&d.frame.DRC, ch.spec.Coef[:])
		}
		d.fb.IFilterBank(ics.WindowSequence, ics.WindowShape, ch.spec.Coef[:], ch.spec.GuardBits(), &ch.fb, ch.time[:])
	}

	if d.sbrMode {
		d.runSBR(slot, el)
	}
	return nil
}

// excludedFromDRC reports whether the DRC data excludes channel c.
func (d *Decoder) excludedFromDRC(c int) bool {
	drc := &d.frame.DRC
	return drc.ExcludedChnsPresent && drc.ExcludeMask[c] != 0
}

// runSBR upsamples the element's channels into their sbr buffers. An
// unusable payload leaves the element in pass-through for this frame.
func (d *Decoder) runSBR(slot int, el *syntax.Element) {
	es := &d.el[slot]
	if es.sbr == nil || es.id != el.ID {
		dec, err := sbr.NewDecoder(d.coreRate())
		if err != nil {
			d.log.Debug("SBR unavailable", "err", err)
			d.sbrMode = false
			return
		}
		es.sbr, es.id = dec, el.ID
	}

	payload := el.SBR
	if el.ID == syntax.IDLFE || !d.sbrAllowed() {
		payload = nil
	}

	nch := el.NumChannels()
	var in, out [syntax.MaxOutputChannels][]int32
	for k := 0; k < nch; k++ {
		ch := &d.ch[int(el.Channel)+k]
		in[k], out[k] = ch.time[:], ch.sbr[:]
	}
	active, err := es.sbr.Process(payload, nch, in[:nch], out[:nch])
	if err != nil {
		d.log.Debug("SBR fallback", "element", slot, "err", wrap(err, ErrSBRPayload))
	}
	if h, ok := es.sbr.Header(); ok && (!es.logged || h != es.header) {
		d.log.Debug("SBR header", "element", slot,
			"start_freq", h.StartFreq, "stop_freq", h.StopFreq, "xover", h.XoverBand,
			"freq_scale", h.FreqScale, "noise_bands", h.NoiseBands)
		es.header, es.logged = h, true
	}
	d.sbrActive = d.sbrActive || active
}

// output converts the rendered channels of the current block to PCM and
// appends it to d.pcm.
func (d *Decoder) output() {
	n := FrameLength
	var wide [syntax.MaxOutputChannels][]int32
	for c := 0; c < int(d.channels); c++ {
		if d.sbrMode {
			wide[c] = d.ch[c].sbr[:]
		} else {
			wide[c] = d.ch[c].time[:]
		}
	}
	if d.sbrMode {
		n = sbr.OutputSamples
	}

	out := int(d.Channels())
	start := len(d.pcm)
	d.pcm = growPCM(d.pcm, n*out)
	output.ToPCM16Bit(wide[:d.channels], channelMap[:], int(d.channels), n, out < int(d.channels), d.pcm[start:])
}

var channelMap = [syntax.MaxOutputChannels]uint8{output.ChannelLeft, output.ChannelRight}

// growPCM extends pcm by n samples, reallocating only when needed.
func growPCM(pcm []int16, n int) []int16 {
	l := len(pcm)
	if cap(pcm)-l < n {
		grown := make([]int16, l, 2*(l+n))
		copy(grown, pcm)
		pcm = grown
	}
	return pcm[:l+n]
}

// fillInfo completes info after a successful decode.
func (d *Decoder) fillInfo(info *FrameInfo, samples int) {
	info.Samples = uint32(samples)
	info.Channels = d.Channels()
	info.SampleRate = d.SampleRate()
	info.ObjectType = d.Profile()
	switch {
	case d.sbrActive:
		info.SBR = SBRUpsampled
	case d.sbrMode:
		info.SBR = SBRNoneUpsampled
	}

	f := &d.frame
	if f.HasLFE {
		info.NumLFEChannels = 1
	}
	switch {
	case info.Channels == 1:
		info.ChannelPosition[0] = ChannelFrontCenter
	case f.HasLFE:
		info.ChannelPosition[0] = ChannelFrontCenter
		info.ChannelPosition[1] = ChannelLFE
	case info.Channels == 2:
		info.ChannelPosition[0] = ChannelFrontLeft
		info.ChannelPosition[1] = ChannelFrontRight
	}
}

// IsNeedMoreData reports whether err asks for more input.
func IsNeedMoreData(err error) bool {
	return errors.Is(err, ErrNeedMoreData)
}
