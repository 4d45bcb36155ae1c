package aac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/go-heaac/internal/aactest"
)

// tone is a long-window channel with a single loud spectral line.
func tone(line int) aactest.Channel {
	q := make([]int16, line+1)
	q[line] = 100
	return aactest.Channel{GlobalGain: 140, MaxSFB: 20, Quant: q}
}

func silent() aactest.Channel {
	return aactest.Channel{GlobalGain: 100}
}

func monoBlock(sr uint8, c aactest.Channel) []byte {
	w := aactest.NewWriter()
	w.SCE(0, sr, c)
	w.End()
	return w.Bytes()
}

func stereoBlock(sr uint8, l, r aactest.Channel) []byte {
	w := aactest.NewWriter()
	w.CPE(0, sr, l, r, 0)
	w.End()
	return w.Bytes()
}

// corruptBlock is an SCE whose ics_reserved_bit is set.
func corruptBlock() []byte {
	w := aactest.NewWriter()
	w.Bits(0, 3)
	w.Bits(0, 4)
	w.Bits(100, 8)
	w.Bits(1, 1)
	w.Bits(0, 32)
	w.End()
	return w.Bytes()
}

func sbrPayload(withHeader bool) *aactest.Writer {
	h := aactest.DefaultSBRHeader
	var hp *aactest.SBRHeader
	if withHeader {
		hp = &h
	}
	return aactest.SBRPayload(hp, h.AmpRes, aactest.DefaultSBRLayout, aactest.SBRChannel{Level: 40})
}

func newSession(t *testing.T, cfg *Config, data []byte) *Decoder {
	t.Helper()
	dec := NewDecoder()
	if cfg != nil {
		dec.SetConfiguration(*cfg)
	}
	_, err := dec.Init(data)
	require.NoError(t, err)
	return dec
}

func peak(samples []int16) int {
	m := 0
	for _, s := range samples {
		m = max(m, abs(int(s)))
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Encoders start a stream with a frame of priming silence, so the first
// frame a decoder outputs is the zero overlap tail plus a silent block.
// Content in the very first block is not delayed: no samples are dropped.
func TestDecode_PrimedStreamStartsSilent(t *testing.T) {
	cfg := aactest.ADTSConfig{SFIndex: sr44100, Channels: 2}
	priming := aactest.ADTS(cfg, stereoBlock(sr44100, silent(), silent()))
	frame := aactest.ADTS(cfg, stereoBlock(sr44100, tone(40), tone(40)))
	stream := append(append(append([]byte(nil), priming...), frame...), frame...)

	dec := newSession(t, nil, stream)
	var total int
	for i := 0; i < 3; i++ {
		samples, info, err := dec.Decode(stream)
		require.NoError(t, err, "frame %d", i)
		total += len(samples)
		switch i {
		case 0:
			assert.Zero(t, peak(samples[:FrameLength*2]), "first frame")
		case 1:
			assert.Positive(t, peak(samples[:FrameLength]), "the tone starts in the first half of its own frame")
		}
		stream = stream[info.BytesConsumed:]
	}
	assert.Equal(t, 3*FrameLength*2, total)
}

func TestDecode_ADTSStream(t *testing.T) {
	cfg := aactest.ADTSConfig{SFIndex: sr44100, Channels: 2}
	frame := aactest.ADTS(cfg, stereoBlock(sr44100, tone(40), tone(40)))
	var stream []byte
	for i := 0; i < 3; i++ {
		stream = append(stream, frame...)
	}

	dec := newSession(t, nil, stream)
	var loud int
	for i := 0; i < 3; i++ {
		samples, info, err := dec.Decode(stream)
		require.NoError(t, err, "frame %d", i)
		assert.Equal(t, uint32(len(frame)), info.BytesConsumed)
		assert.Equal(t, uint32(2*FrameLength), info.Samples)
		assert.Len(t, samples, 2*FrameLength)
		assert.Equal(t, uint8(2), info.Channels)
		assert.Equal(t, uint32(44100), info.SampleRate)
		assert.Equal(t, uint8(1), info.Blocks)
		assert.Equal(t, SBRNone, info.SBR)
		assert.Equal(t, ObjectTypeLC, info.ObjectType)
		assert.Equal(t, HeaderTypeADTS, info.HeaderType)
		assert.Equal(t, [2]ChannelPosition{ChannelFrontLeft, ChannelFrontRight}, info.ChannelPosition)
		loud = max(loud, peak(samples))
		stream = stream[info.BytesConsumed:]
	}
	assert.Greater(t, loud, 100, "the tone should be audible")
	assert.Less(t, loud, 32767, "the tone should not clip")
	assert.Equal(t, uint64(3), dec.FramesDecoded())
	assert.Equal(t, uint32(uint64(3*len(frame))*8*44100/(3*FrameLength)), dec.Bitrate())
	assert.False(t, dec.TNSUsed())
	assert.False(t, dec.PNSUsed())
}

func TestDecode_SilenceIsSilent(t *testing.T) {
	stream := aactest.SilentStream(aactest.ADTSConfig{SFIndex: sr44100, Channels: 1}, 2)
	dec := newSession(t, nil, stream)
	for len(stream) > 0 {
		samples, info, err := dec.Decode(stream)
		require.NoError(t, err)
		assert.Zero(t, peak(samples))
		assert.Equal(t, [2]ChannelPosition{ChannelFrontCenter}, info.ChannelPosition)
		stream = stream[info.BytesConsumed:]
	}
}

func TestDecode_MultipleBlocks(t *testing.T) {
	for _, protected := range []bool{false, true} {
		cfg := aactest.ADTSConfig{SFIndex: sr44100, Channels: 1, Protected: protected}
		block := monoBlock(sr44100, tone(12))
		frame := aactest.ADTS(cfg, block, block, block)

		dec := newSession(t, nil, frame)
		samples, info, err := dec.Decode(frame)
		require.NoError(t, err, "protected=%v", protected)
		assert.Equal(t, uint8(3), info.Blocks)
		assert.Len(t, samples, 3*FrameLength)
		assert.Equal(t, uint32(len(frame)), info.BytesConsumed)
		assert.Equal(t, uint64(3), dec.FramesDecoded())
	}
}

func TestDecode_NeedMoreData(t *testing.T) {
	frame := aactest.SilentStream(aactest.ADTSConfig{SFIndex: sr44100, Channels: 2}, 1)
	dec := newSession(t, nil, frame)

	for _, n := range []int{3, 7, len(frame) - 1} {
		_, _, err := dec.Decode(frame[:n])
		assert.True(t, IsNeedMoreData(err), "%d bytes: %v", n, err)
		assert.Equal(t, KindUnderflow, KindOf(err))
	}
	_, _, err := dec.Decode(make([]byte, 100))
	assert.True(t, IsNeedMoreData(err), "no sync word within a short buffer")

	_, _, err = dec.Decode(make([]byte, 2000))
	assert.ErrorIs(t, err, ErrSyncwordNotFound)

	_, _, err = dec.Decode(nil)
	assert.ErrorIs(t, err, ErrNilBuffer)
}

func TestDecode_SkipsGarbageBeforeSync(t *testing.T) {
	frame := aactest.SilentStream(aactest.ADTSConfig{SFIndex: sr44100, Channels: 2}, 1)
	dec := newSession(t, nil, frame)

	_, info, err := dec.Decode(append([]byte{0, 1, 2, 3, 4}, frame...))
	require.NoError(t, err)
	assert.Equal(t, uint32(5+len(frame)), info.BytesConsumed)
}

func TestDecode_SkipsID3v1Tag(t *testing.T) {
	frame := aactest.SilentStream(aactest.ADTSConfig{SFIndex: sr44100, Channels: 2}, 1)
	dec := newSession(t, nil, frame)

	tag := make([]byte, 128)
	copy(tag, "TAG")
	samples, info, err := dec.Decode(tag)
	require.NoError(t, err)
	assert.Empty(t, samples)
	assert.Equal(t, uint32(128), info.BytesConsumed)
}

func TestDecode_FrameErrorIsRecoverable(t *testing.T) {
	cfg := aactest.ADTSConfig{SFIndex: sr44100, Channels: 1}
	bad := aactest.ADTS(cfg, corruptBlock())
	good := aactest.ADTS(cfg, monoBlock(sr44100, tone(40)))
	stream := append(append([]byte{}, bad...), good...)

	dec := newSession(t, nil, stream)
	_, info, err := dec.Decode(stream)
	require.ErrorIs(t, err, ErrICSInfo)
	assert.Equal(t, KindFrame, KindOf(err))
	assert.True(t, IsRecoverable(err))
	assert.Equal(t, uint32(len(bad)), info.BytesConsumed)

	samples, _, err := dec.Decode(stream[info.BytesConsumed:])
	require.NoError(t, err)
	assert.Len(t, samples, FrameLength)
}

func TestDecode_HeaderChange(t *testing.T) {
	first := aactest.SilentStream(aactest.ADTSConfig{SFIndex: sr44100, Channels: 2}, 1)
	second := aactest.ADTS(aactest.ADTSConfig{SFIndex: sr48000, Channels: 1}, monoBlock(sr48000, tone(40)))

	dec := newSession(t, nil, first)
	_, _, err := dec.Decode(first)
	require.NoError(t, err)

	samples, info, err := dec.Decode(second)
	require.NoError(t, err)
	assert.Equal(t, uint32(48000), info.SampleRate)
	assert.Equal(t, uint8(1), info.Channels)
	assert.Len(t, samples, FrameLength)
	assert.Equal(t, uint32(48000), dec.SampleRate())
}

func TestDecode_ChannelsFromProgramConfig(t *testing.T) {
	w := aactest.NewWriter()
	w.Bits(5, 3) // ID_PCE
	w.PCE(aactest.PCELayout{ObjectType: 1, SFIndex: sr44100, Front: []bool{false}})
	w.SCE(0, sr44100, tone(40))
	w.End()
	frame := aactest.ADTS(aactest.ADTSConfig{SFIndex: sr44100}, w.Bytes())

	dec := newSession(t, nil, frame)
	assert.Zero(t, dec.Channels())
	samples, info, err := dec.Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), info.Channels)
	assert.Len(t, samples, FrameLength)
}

func TestDecode_LFE(t *testing.T) {
	w := aactest.NewWriter()
	w.SCE(0, sr44100, tone(40))
	w.LFE(0, sr44100, silent())
	w.End()
	frame := aactest.ADTS(aactest.ADTSConfig{SFIndex: sr44100}, w.Bytes())

	dec := newSession(t, nil, frame)
	samples, info, err := dec.Decode(frame)
	require.NoError(t, err)
	assert.Len(t, samples, 2*FrameLength)
	assert.Equal(t, uint8(1), info.NumLFEChannels)
	assert.Equal(t, [2]ChannelPosition{ChannelFrontCenter, ChannelLFE}, info.ChannelPosition)
}

func TestDecode_RawStream(t *testing.T) {
	block := stereoBlock(sr48000, tone(40), silent())
	var stream []byte
	for i := 0; i < 2; i++ {
		stream = append(stream, block...)
	}
	cfg := &Config{RawSampleRateIndex: sr48000, RawChannels: 2}
	dec := newSession(t, cfg, stream)

	for i := 0; i < 2; i++ {
		samples, info, err := dec.Decode(stream)
		require.NoError(t, err)
		assert.Equal(t, uint32(len(block)), info.BytesConsumed)
		assert.Len(t, samples, 2*FrameLength)
		assert.Equal(t, HeaderTypeRAW, info.HeaderType)
		stream = stream[info.BytesConsumed:]
	}

	_, _, err := dec.Decode(block[:len(block)/2])
	assert.True(t, IsNeedMoreData(err), "truncated raw block: %v", err)
	_, _, err = dec.Decode([]byte{})
	assert.True(t, IsNeedMoreData(err))
}

func TestDecode_ADIFStream(t *testing.T) {
	header := aactest.ADIF(96000, aactest.PCELayout{ObjectType: 1, SFIndex: sr44100, Front: []bool{false}})
	stream := append(header, monoBlock(sr44100, tone(40))...)

	dec := NewDecoder()
	info, err := dec.Init(stream)
	require.NoError(t, err)
	samples, fi, err := dec.Decode(stream[info.BytesRead:])
	require.NoError(t, err)
	assert.Len(t, samples, FrameLength)
	assert.Equal(t, HeaderTypeADIF, fi.HeaderType)
	assert.Equal(t, uint8(1), fi.Channels)
}

func TestDecode_DownmixMono(t *testing.T) {
	frame := aactest.ADTS(aactest.ADTSConfig{SFIndex: sr44100, Channels: 2}, stereoBlock(sr44100, tone(40), tone(60)))

	stereo := newSession(t, nil, frame)
	want, _, err := stereo.Decode(frame)
	require.NoError(t, err)

	mono := newSession(t, &Config{RawSampleRateIndex: sr44100, RawChannels: 2, DownmixMono: true}, frame)
	got, info, err := mono.Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), info.Channels)
	require.Len(t, got, FrameLength)
	for i := range got {
		mix := (float64(want[2*i]) + float64(want[2*i+1])) / 2
		require.InDelta(t, mix, float64(got[i]), 1.5, "sample %d", i)
	}
}

func TestDecode_ImplicitSBR(t *testing.T) {
	cfg := aactest.ADTSConfig{SFIndex: sr22050, Channels: 1}
	withHeader := aactest.ADTS(cfg, aactest.SBRBlock(sr22050, 1, sbrPayload(true)))
	dataOnly := aactest.ADTS(cfg, aactest.SBRBlock(sr22050, 1, sbrPayload(false)))
	bare := aactest.ADTS(cfg, aactest.SBRBlock(sr22050, 1, nil))

	dec := newSession(t, nil, withHeader)
	tests := []struct {
		frame []byte
		want  SBRSignalling
	}{
		{withHeader, SBRUpsampled},
		{dataOnly, SBRUpsampled},
		{bare, SBRNoneUpsampled},
	}
	for i, tt := range tests {
		samples, info, err := dec.Decode(tt.frame)
		require.NoError(t, err, "frame %d", i)
		assert.Len(t, samples, 2*FrameLength, "frame %d", i)
		assert.Equal(t, uint32(44100), info.SampleRate)
		assert.Equal(t, tt.want, info.SBR, "frame %d", i)
		assert.Equal(t, ObjectTypeHEAAC, info.ObjectType)
	}
	assert.False(t, dec.SBRActive())
}

func TestDecode_SBRDisabled(t *testing.T) {
	cfg := aactest.ADTSConfig{SFIndex: sr22050, Channels: 1}
	frame := aactest.ADTS(cfg, aactest.SBRBlock(sr22050, 1, sbrPayload(true)))

	dec := newSession(t, &Config{RawSampleRateIndex: sr44100, RawChannels: 2, DisableSBR: true}, frame)
	samples, info, err := dec.Decode(frame)
	require.NoError(t, err)
	assert.Len(t, samples, FrameLength)
	assert.Equal(t, uint32(22050), info.SampleRate)
	assert.Equal(t, SBRNone, info.SBR)
	assert.Equal(t, ObjectTypeLC, info.ObjectType)
}

func TestDecode_SBRSwitchesRateMidStream(t *testing.T) {
	cfg := aactest.ADTSConfig{SFIndex: sr44100, Channels: 1}
	plain := aactest.ADTS(cfg, monoBlock(sr44100, silent()))
	withSBR := aactest.ADTS(cfg, aactest.SBRBlock(sr44100, 1, sbrPayload(true)))

	dec := newSession(t, nil, plain)
	samples, info, err := dec.Decode(plain)
	require.NoError(t, err)
	assert.Len(t, samples, FrameLength)
	assert.Equal(t, uint32(44100), info.SampleRate)

	samples, info, err = dec.Decode(withSBR)
	require.NoError(t, err)
	assert.Len(t, samples, 2*FrameLength)
	assert.Equal(t, uint32(88200), info.SampleRate)
	assert.NotEqual(t, SBRNone, info.SBR)
	assert.Equal(t, ObjectTypeHEAAC, dec.Profile())
}

func TestDecode_ExplicitSBRRaw(t *testing.T) {
	dec := NewDecoder()
	_, err := dec.InitASC(aactest.ASC(sr22050, 2, sr44100))
	require.NoError(t, err)

	samples, info, err := dec.Decode(aactest.SilentBlock(sr22050, 2))
	require.NoError(t, err)
	assert.Len(t, samples, 2*2*FrameLength)
	assert.Equal(t, SBRNoneUpsampled, info.SBR)
	assert.Equal(t, ObjectTypeHEAAC, info.ObjectType)
}
