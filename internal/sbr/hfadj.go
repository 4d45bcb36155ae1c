package sbr

import (
	"math"

	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/spectrum"
)

// Subband samples carry 3 fractional bits over the ISO/IEC 14496-3 QMF
// scale, so energies carry 6.
const (
	qmfFracBits    = 3
	energyFracBits = 2 * qmfFracBits
)

const (
	noiseTableLen = 512
	smoothLen     = 5
)

var (
	// limiter gains for bs_limiter_gains 0-3
	limiterGains = [4]fixed.Float{
		floatOf(0.70795), floatOf(1), floatOf(1.41254), floatOf(1e10),
	}
	maxGain   = floatOf(1e10)
	maxBoost  = floatOf(2.51188643)
	floatOne  = fixed.NewFloat(1, 0)
	floatZero fixed.Float

	// smoothing window, newest slot first
	smoothFilter = [smoothLen]fixed.Float{
		floatOf(0.33333333333333),
		floatOf(0.30150283239582),
		floatOf(0.21816949906249),
		floatOf(0.11516383427084),
		floatOf(0.03183050093751),
	}

	// noiseTable holds complex noise of unit mean power in Q29.
	noiseTable [noiseTableLen][2]int32
)

func init() {
	rng := spectrum.NewNoiseRNG(spectrum.DefaultNoiseSeed)
	var raw [noiseTableLen][2]float64
	var power float64
	for i := range raw {
		for j := range raw[i] {
			v := float64(int32(rng.Next()) >> 16)
			raw[i][j] = v
			power += v * v
		}
	}
	g := 1 / math.Sqrt(power/noiseTableLen)
	for i := range raw {
		for j := range raw[i] {
			noiseTable[i][j] = int32(math.Round(raw[i][j] * g * (1 << 29)))
		}
	}
}

// envelopeGains are the limited and boosted gains of one envelope per
// high band subband: g scales the patched signal, q is the noise
// amplitude and s the sinusoid amplitude, both in subband sample units.
type envelopeGains struct {
	g [numBands]fixed.Float
	q [numBands]fixed.Float
	s [numBands]fixed.Float
}

// adjustHF shapes the generated high band to the transmitted envelopes
// and adds noise floor and sinusoids (ISO/IEC 14496-3 4.6.18.7).
func (ch *channel) adjustHF(cd *channelData, t *freqTables, h *Header) {
	g := &cd.grid
	la := g.Transient

	for l := 0; l < g.NumEnv; l++ {
		noNoise := l == la || (l == 0 && ch.prevEnvShort)
		ch.envelopeGains(cd, t, h, l, noNoise)

		smooth := h.SmoothingMode == 0 && !noNoise
		for i := g.TE[l] * rate; i < g.TE[l+1]*rate; i++ {
			ch.pushGains()
			ch.assembleSlot(t, i+tHFAdj, smooth, noNoise)
		}
	}

	ch.prevEnvShort = la == g.NumEnv
	ch.harmonicPrev = cd.addHarmonic
}

// envelopeGains fills ch.gains for envelope l.
func (ch *channel) envelopeGains(cd *channelData, t *freqTables, h *Header, l int, noNoise bool) {
	g := &cd.grid
	kx, m := t.kx, t.m
	bands := t.bands(g.FreqRes[l])
	start, end := g.TE[l]*rate, g.TE[l+1]*rate

	q := 0
	if g.NumNoise == 2 && g.TE[l] >= g.TQ[1] {
		q = 1
	}

	var (
		eOrig, qOrig, eCurr [numBands]fixed.Float
		sIndex, sMapped     [numBands]bool
	)

	for i := 0; i < len(t.high)-1; i++ {
		if cd.addHarmonic[i] == 1 && (l >= g.Transient || ch.harmonicPrev[i] == 1) {
			sIndex[(t.high[i]+t.high[i+1])/2-kx] = true
		}
	}
	for j := 0; j < len(bands)-1; j++ {
		lo, hi := bands[j]-kx, bands[j+1]-kx
		hit := false
		for k := lo; k < hi; k++ {
			hit = hit || sIndex[k]
		}
		for k := lo; k < hi; k++ {
			sMapped[k] = hit
			eOrig[k] = ch.eOrig[l][j]
		}
	}
	for j := 0; j < len(t.noise)-1; j++ {
		for k := t.noise[j] - kx; k < t.noise[j+1]-kx; k++ {
			qOrig[k] = ch.qOrig[q][j]
		}
	}

	// mean energy of the generated signal
	var sums [numBands]int64
	for s := start + tHFAdj; s < end+tHFAdj; s++ {
		re, im := &ch.buf.re[s], &ch.buf.im[s]
		for k := 0; k < m; k++ {
			xr, xi := int64(re[kx+k]), int64(im[kx+k])
			sums[k] += xr*xr + xi*xi
		}
	}
	slots := fixed.NewFloat(int64(end-start), 0)
	if h.InterpolFreq == 1 {
		for k := 0; k < m; k++ {
			eCurr[k] = fixed.NewFloat(sums[k], -energyFracBits).Div(slots)
		}
	} else {
		for j := 0; j < len(bands)-1; j++ {
			lo, hi := bands[j]-kx, bands[j+1]-kx
			var acc fixed.Float
			for k := lo; k < hi; k++ {
				acc = acc.Add(fixed.NewFloat(sums[k], -energyFracBits))
			}
			acc = acc.Div(slots.Mul(fixed.NewFloat(int64(hi-lo), 0)))
			for k := lo; k < hi; k++ {
				eCurr[k] = acc
			}
		}
	}

	gains := &ch.gains
	for b := 0; b < len(t.lim)-1; b++ {
		lo, hi := t.lim[b]-kx, t.lim[b+1]-kx
		var accOrig, accCurr fixed.Float
		for k := lo; k < hi; k++ {
			accOrig = accOrig.Add(eOrig[k])
			accCurr = accCurr.Add(eCurr[k])
		}
		gMax := accOrig.Add(floatOne).Div(accCurr.Add(floatOne)).
			Mul(limiterGains[h.LimiterGains]).Min(maxGain)

		var den fixed.Float
		for k := lo; k < hi; k++ {
			qp1 := floatOne.Add(qOrig[k])
			qM := eOrig[k].Mul(qOrig[k]).Div(qp1)
			gain := eOrig[k].Div(floatOne.Add(eCurr[k]))
			switch {
			case sMapped[k]:
				gain = gain.Mul(qOrig[k]).Div(qp1)
			case !noNoise:
				gain = gain.Div(qp1)
			}
			sM := floatZero
			if sIndex[k] {
				sM = eOrig[k].Div(qp1)
			}

			if gMax.Less(gain) {
				qM = qM.Mul(gMax).Div(gain)
				gain = gMax
			}
			den = den.Add(eCurr[k].Mul(gain))
			switch {
			case sIndex[k]:
				den = den.Add(sM)
			case !noNoise:
				den = den.Add(qM)
			}
			gains.g[k], gains.q[k], gains.s[k] = gain, qM, sM
		}

		boost := accOrig.Add(floatOne).Div(den.Add(floatOne)).Min(maxBoost)
		for k := lo; k < hi; k++ {
			gains.g[k] = gains.g[k].Mul(boost).Sqrt()
			gains.q[k] = scaleAmplitude(gains.q[k].Mul(boost).Sqrt())
			gains.s[k] = scaleAmplitude(gains.s[k].Mul(boost).Sqrt())
		}
	}
}

// scaleAmplitude converts an amplitude from the ISO QMF scale to subband
// sample units.
func scaleAmplitude(f fixed.Float) fixed.Float {
	if f.IsZero() {
		return f
	}
	f.E += qmfFracBits
	return f
}

// pushGains enters the current envelope gains into the smoothing history.
// After a reset the history is filled with them.
func (ch *channel) pushGains() {
	if ch.ringFill {
		for i := range ch.gRing {
			ch.gRing[i] = ch.gains.g
			ch.qRing[i] = ch.gains.q
		}
		ch.ringFill = false
		return
	}
	ch.ringPos = (ch.ringPos + 1) % smoothLen
	ch.gRing[ch.ringPos] = ch.gains.g
	ch.qRing[ch.ringPos] = ch.gains.q
}

// smoothed returns the filtered noise and signal gains of subband k.
func (ch *channel) smoothed(k int) (g, q fixed.Float) {
	pos := ch.ringPos
	for j := 0; j < smoothLen; j++ {
		g = g.Add(ch.gRing[pos][k].Mul(smoothFilter[j]))
		q = q.Add(ch.qRing[pos][k].Mul(smoothFilter[j]))
		pos--
		if pos < 0 {
			pos = smoothLen - 1
		}
	}
	return g, q
}

// assembleSlot writes the adjusted high band of buffer slot s.
func (ch *channel) assembleSlot(t *freqTables, s int, smooth, noNoise bool) {
	re, im := &ch.buf.re[s], &ch.buf.im[s]
	for k := 0; k < t.m; k++ {
		band := t.kx + k
		gf, qf := ch.gains.g[k], ch.gains.q[k]
		if smooth {
			gf, qf = ch.smoothed(k)
		}

		yr := int64(fixed.NewFloat(int64(re[band]), 0).Mul(gf).Int(0))
		yi := int64(fixed.NewFloat(int64(im[band]), 0).Mul(gf).Int(0))

		ch.noiseIdx = (ch.noiseIdx + 1) & (noiseTableLen - 1)
		if sm := ch.gains.s[k]; !sm.IsZero() {
			amp := int64(sm.Int(0))
			if band&1 == 1 && ch.sineIdx&1 == 1 {
				amp = -amp
			}
			switch ch.sineIdx {
			case 0:
				yr += amp
			case 1:
				yi += amp
			case 2:
				yr -= amp
			case 3:
				yi -= amp
			}
		} else if !noNoise && !qf.IsZero() {
			v := &noiseTable[ch.noiseIdx]
			yr += int64(fixed.NewFloat(int64(v[0]), -29).Mul(qf).Int(0))
			yi += int64(fixed.NewFloat(int64(v[1]), -29).Mul(qf).Int(0))
		}

		re[band] = fixed.Clip2N(fixed.Sat64(yr), xClipBits)
		im[band] = fixed.Clip2N(fixed.Sat64(yi), xClipBits)
	}
	ch.sineIdx = (ch.sineIdx + 1) & 3
}
