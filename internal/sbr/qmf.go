package sbr

import (
	"math"

	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/mdct"
)

// QMF dimensions for 1024-sample core frames.
const (
	numTimeSlots = 16
	rate         = 2
	numSlots     = numTimeSlots * rate // QMF slots per frame
	tHFGen       = 8
	tHFAdj       = 2
	bufSlots     = numSlots + tHFGen
	numBands     = 64
	lowBands     = 32

	// OutputSamples is the number of samples Decoder writes per channel.
	OutputSamples = numSlots * numBands
)

// Prototype filter: a 640-tap Kaiser windowed lowpass with its cutoff
// tuned for near perfect reconstruction of the 64-band bank.
//
// TODO: embed the ISO/IEC 14496-3 Table 4.A.89 coefficients in place of
// this design; the bank is near-PR but not bit-compatible with it.
const (
	protoLen    = 640
	protoBeta   = 6.0
	protoCutoff = 0.02876596566768058
	protoGain   = 90.27690396750637
)

// Subband samples are clipped to 2^xClipBits, leaving the synthesis
// DCT-IV its guard bits.
const xClipBits = 27

// inClipBits bounds the analysis input so the modulation sums fit int64.
const inClipBits = 23

var (
	// qmfProto holds the prototype coefficients c[n] in Q31 with the sign
	// alternating every 128 taps.
	qmfProto [protoLen]int32
	// analysis modulation cos/sin(pi/64 (k+1/2)(2n-1/2)) in Q31
	anaCos [lowBands][numBands]int32
	anaSin [lowBands][numBands]int32
)

func init() {
	i0b := besselI0(protoBeta)
	half := float64(protoLen / 2)
	for n := range qmfProto {
		m := float64(n) - half
		h := protoCutoff / math.Pi
		if m != 0 {
			h = math.Sin(protoCutoff*m) / (math.Pi * m)
		}
		r := m / half
		w := besselI0(protoBeta*math.Sqrt(1-r*r)) / i0b
		v := h * w * protoGain
		if (n/128)&1 == 1 {
			v = -v
		}
		qmfProto[n] = q31(v)
	}

	for k := 0; k < lowBands; k++ {
		for n := 0; n < numBands; n++ {
			a := math.Pi / 64 * (float64(k) + 0.5) * (2*float64(n) - 0.5)
			anaCos[k][n] = q31(math.Cos(a))
			anaSin[k][n] = q31(math.Sin(a))
		}
	}
}

// besselI0 evaluates the zeroth order modified Bessel function by its
// power series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	for k := 1; k < 50; k++ {
		t := x / (2 * float64(k))
		term *= t * t
		sum += term
		if term < 1e-20*sum {
			break
		}
	}
	return sum
}

func q31(v float64) int32 {
	r := math.Round(v * (1 << 31))
	return int32(max(min(r, math.MaxInt32), math.MinInt32))
}

// qmfBuffer holds the subband samples of one channel: tHFGen slots of
// history followed by the slots of the current frame.
type qmfBuffer struct {
	re [bufSlots][numBands]int32
	im [bufSlots][numBands]int32
}

// shift moves the last tHFGen slots to the front and clears the rest.
func (b *qmfBuffer) shift() {
	copy(b.re[:tHFGen], b.re[numSlots:])
	copy(b.im[:tHFGen], b.im[numSlots:])
	for s := tHFGen; s < bufSlots; s++ {
		b.re[s] = [numBands]int32{}
		b.im[s] = [numBands]int32{}
	}
}

// analysisBank is the 32-band complex QMF analysis filterbank of one
// channel (ISO/IEC 14496-3 4.6.18.4.1).
type analysisBank struct {
	x [protoLen / 2]int32
}

func (a *analysisBank) reset() {
	a.x = [protoLen / 2]int32{}
}

// process analyzes numSlots*32 samples of in into slots tHFGen onwards of
// buf.
func (a *analysisBank) process(in []int32, buf *qmfBuffer) {
	var u [numBands]int64
	for l := 0; l < numSlots; l++ {
		copy(a.x[lowBands:], a.x[:len(a.x)-lowBands])
		src := in[l*lowBands : (l+1)*lowBands]
		for n, v := range src {
			a.x[lowBands-1-n] = fixed.Clip2N(v, inClipBits)
		}

		for n := range u {
			var s int64
			for j := 0; j < 5; j++ {
				i := n + 64*j
				s += int64(fixed.MulShift32(a.x[i], qmfProto[2*i]))
			}
			u[n] = s
		}

		re, im := &buf.re[tHFGen+l], &buf.im[tHFGen+l]
		for k := 0; k < lowBands; k++ {
			var sr, si int64
			for n, v := range u {
				sr += v * int64(anaCos[k][n])
				si += v * int64(anaSin[k][n])
			}
			re[k] = fixed.Clip2N(fixed.Sat64(sr>>29), xClipBits)
			im[k] = fixed.Clip2N(fixed.Sat64(si>>29), xClipBits)
		}
	}
}

// synthesisBank is the 64-band complex QMF synthesis filterbank of one
// channel (ISO/IEC 14496-3 4.6.18.4.2). The cosine and sine modulations
// run as two DCT-IVs of size 64.
type synthesisBank struct {
	v   [20 * numBands]int32
	dct *mdct.DCT4
	c   [numBands]int32
	s   [numBands]int32
}

func newSynthesisBank() *synthesisBank {
	return &synthesisBank{dct: mdct.NewDCT4(numBands)}
}

func (q *synthesisBank) reset() {
	q.v = [20 * numBands]int32{}
}

// slot turns one slot of subband samples into 64 output samples.
func (q *synthesisBank) slot(re, im *[numBands]int32, out []int32) {
	copy(q.v[2*numBands:], q.v[:len(q.v)-2*numBands])

	q.c = *re
	for k := 0; k < numBands; k++ {
		q.s[k] = im[numBands-1-k]
	}
	q.dct.Transform(q.c[:])
	q.dct.Transform(q.s[:])

	// the DCT-IV scale of 1/128 leaves v at 1/64 of the modulation sum
	for n := 0; n < numBands; n++ {
		c, s := int64(q.c[n]), int64(q.s[n])
		if n&1 == 1 {
			s = -s
		}
		q.v[n] = fixed.Sat64(2 * (s - c))
		q.v[2*numBands-1-n] = fixed.Sat64(2 * (c + s))
	}

	_ = out[numBands-1]
	for j := 0; j < numBands; j++ {
		var acc int64
		for i := 0; i < 5; i++ {
			acc += int64(q.v[256*i+j]) * int64(qmfProto[128*i+j])
			acc += int64(q.v[256*i+192+j]) * int64(qmfProto[128*i+64+j])
		}
		out[j] = fixed.Sat64(acc >> 31)
	}
}
