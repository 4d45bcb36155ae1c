package sbr

import (
	"math"

	"github.com/llehouerou/go-heaac/internal/fixed"
)

// Chirp factors in Q31 (ISO/IEC 14496-3 Table 4.182 and 4.6.18.6.2).
const (
	bw060    = 1288490189
	bw075    = 1610612736
	bw090    = 1932735283
	bw098    = 2104533975
	bwFloor  = 1 << 25    // 0.015625
	bwCeil   = 2139095040 // 0.99609375
	alphaCap = 16         // |alpha|^2 limit
)

// cfloat is a complex value with fixed.Float parts.
type cfloat struct {
	re, im fixed.Float
}

func (a cfloat) add(b cfloat) cfloat {
	return cfloat{a.re.Add(b.re), a.im.Add(b.im)}
}

func (a cfloat) sub(b cfloat) cfloat {
	return cfloat{a.re.Sub(b.re), a.im.Sub(b.im)}
}

func (a cfloat) mul(b cfloat) cfloat {
	return cfloat{
		a.re.Mul(b.re).Sub(a.im.Mul(b.im)),
		a.re.Mul(b.im).Add(a.im.Mul(b.re)),
	}
}

// mulConj returns a * conj(b).
func (a cfloat) mulConj(b cfloat) cfloat {
	return cfloat{
		a.re.Mul(b.re).Add(a.im.Mul(b.im)),
		a.im.Mul(b.re).Sub(a.re.Mul(b.im)),
	}
}

func (a cfloat) scale(f fixed.Float) cfloat {
	return cfloat{a.re.Mul(f), a.im.Mul(f)}
}

func (a cfloat) div(f fixed.Float) cfloat {
	return cfloat{a.re.Div(f), a.im.Div(f)}
}

func (a cfloat) neg() cfloat {
	return cfloat{fixed.Float{M: -a.re.M, E: a.re.E}, fixed.Float{M: -a.im.M, E: a.im.E}}
}

func (a cfloat) absSq() fixed.Float {
	return a.re.Mul(a.re).Add(a.im.Mul(a.im))
}

// floatOf converts a constant to fixed.Float.
func floatOf(v float64) fixed.Float {
	m, e := math.Frexp(v)
	return fixed.NewFloat(int64(math.Round(m*(1<<30))), e-30)
}

var (
	covRelax   = floatOf(1 / (1 + 1e-6))
	alphaCapSq = fixed.NewFloat(alphaCap, 0)
)

// chirp returns the bandwidth factor of a noise band from the previous and
// current inverse filtering modes and the previous factor.
func chirp(prevMode, mode uint8, prev int32) int32 {
	var bw int64
	switch mode {
	case 0:
		if prevMode == 1 {
			bw = bw060
		}
	case 1:
		bw = bw075
		if prevMode == 0 {
			bw = bw060
		}
	case 2:
		bw = bw090
	case 3:
		bw = bw098
	}

	p := int64(prev)
	if bw < p {
		bw = (3*bw + p) >> 2
	} else {
		bw = (29*bw + 3*p) >> 5
	}
	switch {
	case bw < bwFloor:
		return 0
	case bw >= bwCeil:
		return bwCeil
	}
	return int32(bw)
}

// predictor is the second order complex linear predictor of one low band.
type predictor struct {
	a0, a1 cfloat
}

// predict computes the predictor of subband p from the covariance of the
// whole buffer (ISO/IEC 14496-3 4.6.18.6.2).
func (ch *channel) predict(p int) predictor {
	var r01r, r01i, r02r, r02i, r11, r12r, r12i, r22 int64
	re, im := &ch.buf.re, &ch.buf.im
	for j := 2; j < bufSlots; j++ {
		x0r, x0i := int64(re[j][p]), int64(im[j][p])
		x1r, x1i := int64(re[j-1][p]), int64(im[j-1][p])
		x2r, x2i := int64(re[j-2][p]), int64(im[j-2][p])
		r01r += x0r*x1r + x0i*x1i
		r01i += x0i*x1r - x0r*x1i
		r02r += x0r*x2r + x0i*x2i
		r02i += x0i*x2r - x0r*x2i
		r11 += x1r*x1r + x1i*x1i
		r12r += x1r*x2r + x1i*x2i
		r12i += x1i*x2r - x1r*x2i
		r22 += x2r*x2r + x2i*x2i
	}

	phi01 := cfloat{fixed.NewFloat(r01r, 0), fixed.NewFloat(r01i, 0)}
	phi02 := cfloat{fixed.NewFloat(r02r, 0), fixed.NewFloat(r02i, 0)}
	phi12 := cfloat{fixed.NewFloat(r12r, 0), fixed.NewFloat(r12i, 0)}
	phi11 := fixed.NewFloat(r11, 0)
	phi22 := fixed.NewFloat(r22, 0)

	var pr predictor
	d := phi11.Mul(phi22).Sub(phi12.absSq().Mul(covRelax))
	if d.M > 0 {
		pr.a1 = phi01.mul(phi12).sub(phi02.scale(phi11)).div(d)
	}
	if phi11.M > 0 {
		pr.a0 = phi01.add(pr.a1.mulConj(phi12)).div(phi11).neg()
	}
	if !pr.a0.absSq().Less(alphaCapSq) || !pr.a1.absSq().Less(alphaCapSq) {
		return predictor{}
	}
	return pr
}

// generateHF patches the low band into the high band with inverse
// filtering for the slots covered by the frame's envelopes
// (ISO/IEC 14496-3 4.6.18.6).
func (ch *channel) generateHF(cd *channelData, t *freqTables) {
	nq := len(t.noise) - 1
	var bw [maxNoiseBands]int32
	for i := 0; i < nq; i++ {
		bw[i] = chirp(ch.invfPrev[i], cd.invf[i], ch.bwPrev[i])
	}
	ch.bwPrev = bw
	ch.invfPrev = cd.invf

	first := cd.grid.TE[0] * rate
	last := cd.grid.TE[cd.grid.NumEnv] * rate

	var (
		cache [numBands]predictor
		have  [numBands]bool
	)
	re, im := &ch.buf.re, &ch.buf.im
	k := t.kx
	for x, n := range t.patchNum {
		for q := 0; q < n; q, k = q+1, k+1 {
			p := t.patchStart[x] + q
			g := bandIndex(t.noise, k)

			var a0r, a0i, a1r, a1i int64 // Q28
			if bw[g] > 0 {
				if !have[p] {
					cache[p] = ch.predict(p)
					have[p] = true
				}
				pr := cache[p]
				b := fixed.NewFloat(int64(bw[g]), -31)
				b2 := b.Mul(b)
				a0r = int64(pr.a0.re.Mul(b).Int(28))
				a0i = int64(pr.a0.im.Mul(b).Int(28))
				a1r = int64(pr.a1.re.Mul(b2).Int(28))
				a1i = int64(pr.a1.im.Mul(b2).Int(28))
			}

			for l := first; l < last; l++ {
				s := l + tHFAdj
				x1r, x1i := int64(re[s-1][p]), int64(im[s-1][p])
				x2r, x2i := int64(re[s-2][p]), int64(im[s-2][p])
				accR := a0r*x1r - a0i*x1i + a1r*x2r - a1i*x2i
				accI := a0r*x1i + a0i*x1r + a1r*x2i + a1i*x2r
				re[s][k] = fixed.Clip2N(fixed.Sat64(int64(re[s][p])+accR>>28), xClipBits)
				im[s][k] = fixed.Clip2N(fixed.Sat64(int64(im[s][p])+accI>>28), xClipBits)
			}
		}
	}
}
