package aac

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/go-heaac/internal/bits"
	"github.com/llehouerou/go-heaac/internal/filterbank"
	"github.com/llehouerou/go-heaac/internal/output"
	"github.com/llehouerou/go-heaac/internal/sbr"
	"github.com/llehouerou/go-heaac/internal/spectrum"
	"github.com/llehouerou/go-heaac/internal/syntax"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// implicitSBRMaxRate is the highest core rate for which output starts at
// twice the rate before any SBR payload is seen.
const implicitSBRMaxRate = 24000

// channelState is the per-channel memory of a session.
type channelState struct {
	spec spectrum.Channel
	fb   filterbank.State
	time [FrameLength]int32
	sbr  [sbr.OutputSamples]int32
}

// elementState tracks the SBR decoder of one element slot.
type elementState struct {
	id     syntax.ElementID
	sbr    *sbr.Decoder
	header sbr.Header // last header reported to the log
	logged bool
}

// Decoder is an AAC-LC / HE-AAC decoding session. It is not safe for
// concurrent use.
//
// Ported from: NeAACDecStruct in ~/dev/faad2/libfaad/structs.h:332-439
type Decoder struct {
	config Config
	log    *log.Logger

	initialized bool
	format      HeaderType
	objectType  ObjectType
	sfIndex     uint8
	channels    uint8 // 0 until the first block when the header leaves it open
	adts        *syntax.ADTSHeader
	adif        *syntax.ADIFHeader

	// sbrMode doubles the output rate; sbrExplicit records that the
	// configuration, not the bitstream, asked for it.
	sbrMode     bool
	sbrExplicit bool
	sbrSeen     bool
	coreOnly    bool // downsampled SBR: the payloads are ignored

	reader  bits.Reader
	frame   syntax.Frame
	fb      *filterbank.FilterBank
	rng     *spectrum.NoiseRNG
	drc     *output.DRC
	scratch [FrameLength]int32
	ch      [syntax.MaxOutputChannels]channelState
	el      [syntax.MaxOutputChannels]elementState
	pcm     []int16

	// statistics
	frames      uint64
	bytesTotal  uint64
	coreSamples uint64
	tnsUsed     bool
	pnsUsed     bool
	sbrActive   bool
}

// NewDecoder creates a decoder with default settings: raw streams are
// assumed to be 44.1 kHz stereo.
//
// Ported from: NeAACDecOpen() in ~/dev/faad2/libfaad/decoder.c:123-182
func NewDecoder() *Decoder {
	d := &Decoder{
		rng: spectrum.NewNoiseRNG(spectrum.DefaultNoiseSeed),
	}
	d.SetConfiguration(Config{
		RawSampleRateIndex: tables.GetSRIndex(44100),
		RawChannels:        2,
	})
	return d
}

// Configuration returns the current decoder configuration.
func (d *Decoder) Configuration() Config {
	return d.config
}

// SetConfiguration sets the decoder configuration. It should be called
// before Init.
//
// Ported from: NeAACDecSetConfiguration() in ~/dev/faad2/libfaad/decoder.c:264-299
func (d *Decoder) SetConfiguration(cfg Config) {
	d.config = cfg
	d.log = cfg.Logger
	if d.log == nil {
		d.log = log.New(io.Discard)
	}
	d.drc = output.NewDRC(cfg.DRCCut, cfg.DRCBoost)
}

// Init detects the stream format from the first bytes of data and
// prepares the session. ADIF headers are consumed and Info.BytesRead
// tells how many bytes to skip; ADTS headers are only inspected. Any
// other data is taken as a raw stream described by the configuration.
//
// Once detected the format is kept until Reset.
//
// Ported from: NeAACDecInit() in ~/dev/faad2/libfaad/decoder.c:303-426
func (d *Decoder) Init(data []byte) (Info, error) {
	if data == nil {
		return Info{}, ErrNilBuffer
	}

	switch {
	case syntax.IsADIF(data):
		return d.initADIF(data)
	case syntax.FindSyncwordOffset(data) == 0:
		return d.initADTS(data)
	}
	return d.initRaw(d.config.RawSampleRateIndex, d.config.RawChannels, sbrImplicit)
}

// initADIF parses the ADIF header. Rate and channels come from the first
// program configuration.
func (d *Decoder) initADIF(data []byte) (Info, error) {
	r := &d.reader
	r.Reset(data)
	h, err := syntax.ParseADIFHeader(r)
	if err == nil && r.Overrun() {
		err = syntax.ErrBitstreamOverrun
	}
	if err != nil {
		if r.Overrun() {
			return Info{}, underflow(err)
		}
		return Info{}, wrap(err, ErrADIFHeader)
	}

	pce := h.PCE[0]
	d.start(HeaderTypeADIF, pce.SFIndex, pce.Channels)
	d.adif = h
	info := d.info()
	info.BytesRead = uint32(r.GetProcessedBits() / 8)
	d.log.Debug("detected ADIF stream", "rate", tables.SampleRates[pce.SFIndex], "channels", pce.Channels, "bitrate", h.Bitrate)
	return info, nil
}

// initADTS reads the first ADTS header without consuming it.
func (d *Decoder) initADTS(data []byte) (Info, error) {
	r := &d.reader
	r.Reset(data)
	h, err := syntax.ParseADTSHeader(r, d.config.UseOldADTSFormat)
	if err == nil && r.Overrun() {
		err = syntax.ErrBitstreamOverrun
	}
	if err == nil {
		err = h.Validate()
	}
	if err != nil {
		if r.Overrun() {
			return Info{}, underflow(err)
		}
		return Info{}, wrap(err, ErrADTSHeader)
	}

	d.start(HeaderTypeADTS, h.SFIndex, h.ChannelConfiguration)
	d.adts = h
	d.log.Debug("detected ADTS stream", "rate", tables.SampleRates[h.SFIndex], "channels", h.ChannelConfiguration)
	return d.info(), nil
}

// sbrSignal is the SBR signalling of an out-of-band configuration.
type sbrSignal uint8

const (
	sbrImplicit sbrSignal = iota
	sbrExplicit
	sbrCoreOnly
)

// initRaw configures a headerless stream.
func (d *Decoder) initRaw(sfIndex, channels uint8, signal sbrSignal) (Info, error) {
	if int(sfIndex) >= tables.NumSampleRates || channels == 0 || channels > syntax.MaxOutputChannels {
		return Info{}, ErrRawConfig
	}
	d.start(HeaderTypeRAW, sfIndex, channels)
	switch signal {
	case sbrExplicit:
		d.sbrExplicit = true
	case sbrCoreOnly:
		d.coreOnly = true
	}
	d.resolveSBRMode()
	d.log.Debug("raw stream", "rate", tables.SampleRates[sfIndex], "channels", channels, "sbr", d.sbrMode)
	return d.info(), nil
}

// InitASC configures a raw stream from an MPEG-4 AudioSpecificConfig, as
// carried by MP4 and RTP. Explicit SBR signalling switches the output to
// twice the core rate from the first frame.
func (d *Decoder) InitASC(asc []byte) (Info, error) {
	if asc == nil {
		return Info{}, ErrNilBuffer
	}
	c, err := syntax.ParseASC(asc)
	if err != nil {
		return Info{}, wrap(err, ErrAudioSpecificConfig)
	}
	channels := c.ChannelConfiguration
	if c.PCE != nil {
		channels = c.PCE.Channels
	}
	signal := sbrImplicit
	switch {
	case c.SBRPresent && c.DownSampledSBR:
		d.log.Debug("downsampled SBR not supported, decoding the core only", "rate", c.SampleRate, "ext", c.ExtSampleRate)
		signal = sbrCoreOnly
	case c.SBRPresent:
		signal = sbrExplicit
	}
	return d.initRaw(c.SFIndex, channels, signal)
}

// start resets the session for a newly detected stream.
func (d *Decoder) start(format HeaderType, sfIndex, channels uint8) {
	d.Reset()
	d.initialized = true
	d.format = format
	d.objectType = ObjectTypeLC
	d.sfIndex = sfIndex
	d.channels = channels
	d.fb = filterbank.NewFilterBank()
	d.resolveSBRMode()
}

// resolveSBRMode decides whether output starts at twice the core rate.
func (d *Decoder) resolveSBRMode() {
	d.sbrMode = d.sbrAllowed() && d.sbrSupported() &&
		(d.sbrExplicit || d.coreRate() <= implicitSBRMaxRate)
}

// sbrAllowed reports whether SBR payloads are used at all.
func (d *Decoder) sbrAllowed() bool {
	return !d.config.DisableSBR && !d.coreOnly
}

// sbrSupported reports whether SBR can run at the current core rate.
func (d *Decoder) sbrSupported() bool {
	return 2*d.coreRate() <= sbr.MaxOutputRate
}

func (d *Decoder) coreRate() uint32 {
	return tables.GetSampleRate(d.sfIndex)
}

func (d *Decoder) info() Info {
	info := Info{
		SampleRate: d.SampleRate(),
		Channels:   d.Channels(),
		ObjectType: d.Profile(),
		HeaderType: d.format,
		SBR:        d.sbrMode,
	}
	return info
}

// SampleRate returns the output sample rate in Hz.
func (d *Decoder) SampleRate() uint32 {
	if d.sbrMode {
		return 2 * d.coreRate()
	}
	return d.coreRate()
}

// Channels returns the number of output channels, or 0 before the first
// block of a stream whose header does not give it.
func (d *Decoder) Channels() uint8 {
	if d.config.DownmixMono && d.channels > 1 {
		return 1
	}
	return d.channels
}

// Bitrate returns the average input bitrate in bits per second over the
// frames decoded so far. ADIF streams report the header bitrate until the
// first frame.
func (d *Decoder) Bitrate() uint32 {
	if d.coreSamples == 0 {
		if d.adif != nil {
			return d.adif.Bitrate
		}
		return 0
	}
	return uint32(d.bytesTotal * 8 * uint64(d.coreRate()) / d.coreSamples)
}

// Profile returns the object type of the stream: HE-AAC once SBR was
// signalled or an SBR payload was seen, LC otherwise.
func (d *Decoder) Profile() ObjectType {
	if !d.initialized {
		return 0
	}
	if d.sbrExplicit || d.sbrSeen {
		return ObjectTypeHEAAC
	}
	return d.objectType
}

// Format returns the detected header type.
func (d *Decoder) Format() HeaderType {
	return d.format
}

// TNSUsed reports whether any decoded channel used TNS since Init.
func (d *Decoder) TNSUsed() bool {
	return d.tnsUsed
}

// PNSUsed reports whether any decoded channel used PNS since Init.
func (d *Decoder) PNSUsed() bool {
	return d.pnsUsed
}

// SBRActive reports whether SBR regenerated the high band of the last
// decoded frame.
func (d *Decoder) SBRActive() bool {
	return d.sbrActive
}

// FramesDecoded returns the number of raw data blocks decoded since Init.
func (d *Decoder) FramesDecoded() uint64 {
	return d.frames
}

// Flush clears the overlap buffers and SBR delay lines, as after a seek.
// The format and the noise generator are kept.
func (d *Decoder) Flush() {
	for i := range d.ch {
		d.ch[i].fb.Reset()
		d.ch[i].spec = spectrum.Channel{}
	}
	for i := range d.el {
		if d.el[i].sbr != nil {
			d.el[i].sbr.Reset()
		}
	}
	d.sbrActive = false
}

// Reset forgets the detected format. Init must be called again.
func (d *Decoder) Reset() {
	d.Flush()
	d.initialized = false
	d.format = HeaderTypeRAW
	d.sfIndex = 0
	d.channels = 0
	d.adts = nil
	d.adif = nil
	d.sbrMode = false
	d.sbrExplicit = false
	d.sbrSeen = false
	d.coreOnly = false
	d.el = [syntax.MaxOutputChannels]elementState{}
	d.frames = 0
	d.bytesTotal = 0
	d.coreSamples = 0
	d.tnsUsed = false
	d.pnsUsed = false
}

// Close releases the decoder buffers. The decoder must be initialized
// again before further use.
//
// Ported from: NeAACDecClose() in ~/dev/faad2/libfaad/decoder.c:532-582
func (d *Decoder) Close() {
	d.Reset()
	d.fb = nil
	d.pcm = nil
}

// FindSyncWord returns the offset of the first ADTS sync word in data
// within the resynchronization window, or -1.
func FindSyncWord(data []byte) int {
	return syntax.FindSyncwordOffset(data)
}
