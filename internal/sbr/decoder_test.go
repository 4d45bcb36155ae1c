package sbr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/go-heaac/internal/aactest"
	"github.com/llehouerou/go-heaac/internal/syntax"
)

func payloadOf(w *aactest.Writer) *syntax.ExtensionPayload {
	n := w.Len()
	return &syntax.ExtensionPayload{Type: syntax.ExtSBRData, Data: w.Bytes(), Bits: n}
}

func loudChannel() aactest.SBRChannel {
	return aactest.SBRChannel{Level: 40, Noise: 0}
}

func headerPayload(chans ...aactest.SBRChannel) *syntax.ExtensionPayload {
	h := aactest.DefaultSBRHeader
	return payloadOf(aactest.SBRPayload(&h, h.AmpRes, aactest.DefaultSBRLayout, chans...))
}

func dataPayload(chans ...aactest.SBRChannel) *syntax.ExtensionPayload {
	return payloadOf(aactest.SBRPayload(nil, aactest.DefaultSBRHeader.AmpRes, aactest.DefaultSBRLayout, chans...))
}

func buffers(nch int) (in, out [][]int32) {
	in = make([][]int32, nch)
	out = make([][]int32, nch)
	for c := range in {
		in[c] = make([]int32, numSlots*lowBands)
		out[c] = make([]int32, OutputSamples)
	}
	return in, out
}

func energy(x []int32) float64 {
	var e float64
	for _, v := range x {
		e += float64(v) * float64(v)
	}
	return e
}

func TestNewDecoder_OutputRate(t *testing.T) {
	d, err := NewDecoder(22050)
	require.NoError(t, err)
	assert.Equal(t, uint32(44100), d.OutputRate())

	d, err = NewDecoder(48000)
	require.NoError(t, err)
	assert.Equal(t, uint32(MaxOutputRate), d.OutputRate())

	_, err = NewDecoder(64000)
	assert.ErrorIs(t, err, ErrOutputRate)
}

func TestDecoder_PassThroughSilence(t *testing.T) {
	d, err := NewDecoder(22050)
	require.NoError(t, err)
	in, out := buffers(1)

	active, err := d.Process(nil, 1, in, out)
	require.NoError(t, err)
	assert.False(t, active)
	assert.Len(t, out[0], OutputSamples)
	assert.Zero(t, energy(out[0]))
}

func TestDecoder_DataBeforeHeader(t *testing.T) {
	d, err := NewDecoder(22050)
	require.NoError(t, err)
	in, out := buffers(1)

	active, err := d.Process(dataPayload(loudChannel()), 1, in, out)
	assert.ErrorIs(t, err, ErrNoHeader)
	assert.False(t, active)
	assert.Zero(t, energy(out[0]))
}

func TestDecoder_RegeneratesHighBand(t *testing.T) {
	d, err := NewDecoder(22050)
	require.NoError(t, err)
	in, out := buffers(1)

	active, err := d.Process(headerPayload(loudChannel()), 1, in, out)
	require.NoError(t, err)
	require.True(t, active)
	assert.Positive(t, energy(out[0]), "noise floor should fill the silent high band")

	h, ok := d.Header()
	require.True(t, ok)
	assert.Equal(t, uint8(5), h.StartFreq)

	// the header persists for data-only payloads
	active, err = d.Process(dataPayload(loudChannel()), 1, in, out)
	require.NoError(t, err)
	assert.True(t, active)
	assert.Positive(t, energy(out[0]))
}

func TestDecoder_FallsBackWhenPayloadDisappears(t *testing.T) {
	d, err := NewDecoder(22050)
	require.NoError(t, err)
	in, out := buffers(1)

	for i := 0; i < 3; i++ {
		active, err := d.Process(headerPayload(loudChannel()), 1, in, out)
		require.NoError(t, err)
		require.True(t, active)
	}

	for i := 0; i < 4; i++ {
		active, err := d.Process(nil, 1, in, out)
		require.NoError(t, err)
		assert.False(t, active)
		assert.Len(t, out[0], OutputSamples)
	}
	// once the delay lines have drained, silence in gives silence out
	assert.Zero(t, energy(out[0]))

	active, err := d.Process(dataPayload(loudChannel()), 1, in, out)
	require.NoError(t, err)
	assert.True(t, active, "the header survives frames without a payload")
}

func TestDecoder_Overrun(t *testing.T) {
	d, err := NewDecoder(22050)
	require.NoError(t, err)
	in, out := buffers(1)

	p := headerPayload(loudChannel())
	p.Bits = 20
	active, err := d.Process(p, 1, in, out)
	assert.ErrorIs(t, err, ErrPayloadOverrun)
	assert.False(t, active)
}

func TestDecoder_ChannelCount(t *testing.T) {
	d, err := NewDecoder(22050)
	require.NoError(t, err)
	in, out := buffers(3)

	_, err = d.Process(nil, 3, in, out)
	assert.ErrorIs(t, err, ErrChannels)
}

func TestDecoder_ChannelPair(t *testing.T) {
	d, err := NewDecoder(22050)
	require.NoError(t, err)
	in, out := buffers(2)

	quiet := aactest.SBRChannel{Level: 0, Noise: 30}
	active, err := d.Process(headerPayload(loudChannel(), quiet), 2, in, out)
	require.NoError(t, err)
	require.True(t, active)
	assert.Greater(t, energy(out[0]), 100*energy(out[1]))
}

func TestDecoder_CoupledPair(t *testing.T) {
	d, err := NewDecoder(22050)
	require.NoError(t, err)
	in, out := buffers(2)

	h := aactest.DefaultSBRHeader
	centre := aactest.SBRChannel{Level: panOffset[0] / 2, Noise: noisePanOffset / 2}
	w := aactest.SBRCoupledPayload(&h, h.AmpRes, aactest.DefaultSBRLayout, loudChannel(), centre)
	active, err := d.Process(payloadOf(w), 2, in, out)
	require.NoError(t, err)
	require.True(t, active)

	l, r := energy(out[0]), energy(out[1])
	assert.Positive(t, l)
	assert.InEpsilon(t, l, r, 0.5, "centred balance should split the energy")
}

func TestDecoder_ResetForgetsHeader(t *testing.T) {
	d, err := NewDecoder(22050)
	require.NoError(t, err)
	in, out := buffers(1)

	_, err = d.Process(headerPayload(loudChannel()), 1, in, out)
	require.NoError(t, err)

	d.Reset()
	_, ok := d.Header()
	assert.False(t, ok)
	_, err = d.Process(dataPayload(loudChannel()), 1, in, out)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestDecoder_InvalidHeaderDisablesUntilNextHeader(t *testing.T) {
	d, err := NewDecoder(22050)
	require.NoError(t, err)
	in, out := buffers(1)

	bad := aactest.DefaultSBRHeader
	bad.StopFreq, bad.FreqScale, bad.XoverBand = 0, 3, 7
	w := aactest.SBRPayload(&bad, bad.AmpRes, aactest.DefaultSBRLayout, loudChannel())
	active, err := d.Process(payloadOf(w), 1, in, out)
	assert.ErrorIs(t, err, ErrFreqTables)
	assert.False(t, active)

	active, err = d.Process(headerPayload(loudChannel()), 1, in, out)
	require.NoError(t, err)
	assert.True(t, active)
}
