package sbr

import "github.com/llehouerou/go-heaac/internal/fixed"

// noiseFloorOffset is NOISE_FLOOR_OFFSET of ISO/IEC 14496-3 4.6.18.3.5.
const noiseFloorOffset = 6

// Pan offsets of coupled envelopes, indexed by amplitude resolution.
var panOffset = [2]int{24, 12}

const noisePanOffset = 12

// decodeDeltas turns the delta coded envelope and noise floor values of cd
// into absolute values and remembers the last of each for the next frame
// (ISO/IEC 14496-3 4.6.18.3.4).
func (ch *channel) decodeDeltas(cd *channelData, t *freqTables) {
	g := &cd.grid
	for l := 0; l < g.NumEnv; l++ {
		res := g.FreqRes[l]
		n := len(t.bands(res)) - 1
		row := &ch.env[l]
		copy(row[:n], cd.env[l][:n])

		if cd.dfEnv[l] == 0 {
			for k := 1; k < n; k++ {
				row[k] += row[k-1]
			}
			continue
		}

		prev, prevRes := &ch.prevEnv, ch.prevEnvRes
		if l > 0 {
			prev, prevRes = &ch.env[l-1], g.FreqRes[l-1]
		}
		switch {
		case res == prevRes:
			for k := 0; k < n; k++ {
				row[k] += prev[k]
			}
		case res == 1:
			// high resolution after low: each high band lies in one low band
			for k := 0; k < n; k++ {
				row[k] += prev[bandIndex(t.low, t.high[k])]
			}
		default:
			// low resolution after high: low borders are high borders
			for k := 0; k < n; k++ {
				row[k] += prev[bandIndex(t.high, t.low[k])]
			}
		}
	}
	ch.prevEnv = ch.env[g.NumEnv-1]
	ch.prevEnvRes = g.FreqRes[g.NumEnv-1]

	nq := len(t.noise) - 1
	for l := 0; l < g.NumNoise; l++ {
		row := &ch.noise[l]
		copy(row[:nq], cd.noise[l][:nq])
		if cd.dfNoise[l] == 0 {
			for k := 1; k < nq; k++ {
				row[k] += row[k-1]
			}
			continue
		}
		prev := &ch.prevNoise
		if l > 0 {
			prev = &ch.noise[l-1]
		}
		for k := 0; k < nq; k++ {
			row[k] += prev[k]
		}
	}
	ch.prevNoise = ch.noise[g.NumNoise-1]
}

// bandIndex returns the band of table containing subband k. Subbands past
// the last border map to the last band.
func bandIndex(table []int, k int) int {
	n := len(table) - 1
	for i := 0; i < n; i++ {
		if k < table[i+1] {
			return i
		}
	}
	return n - 1
}

// halfExp returns 2*v/a, the exponent of 2^(v/a) in half steps, where a is
// 2 for 1.5 dB and 1 for 3 dB resolution.
func halfExp(v int, ampRes uint8) int {
	if ampRes == 1 {
		return 2 * v
	}
	return v
}

// dequantize computes the reference energies E_orig and noise floors
// Q_orig of an independently coded channel (ISO/IEC 14496-3 4.6.18.3.5).
func (ch *channel) dequantize(cd *channelData, t *freqTables) {
	g := &cd.grid
	for l := 0; l < g.NumEnv; l++ {
		n := len(t.bands(g.FreqRes[l])) - 1
		for k := 0; k < n; k++ {
			// 64 * 2^(E/a)
			ch.eOrig[l][k] = fixed.Pow2Half(halfExp(ch.env[l][k], cd.ampRes) + 12)
		}
	}
	nq := len(t.noise) - 1
	for l := 0; l < g.NumNoise; l++ {
		for k := 0; k < nq; k++ {
			ch.qOrig[l][k] = fixed.Pow2Half(2 * (noiseFloorOffset - ch.noise[l][k]))
		}
	}
}

// dequantizeCoupled computes E_orig and Q_orig of a coupled pair from the
// level data of left and the balance data of right.
func dequantizeCoupled(left, right *channel, cd *channelData, t *freqTables) {
	one := fixed.NewFloat(1, 0)
	g := &cd.grid
	amp := cd.ampRes
	pan := panOffset[amp]

	for l := 0; l < g.NumEnv; l++ {
		n := len(t.bands(g.FreqRes[l])) - 1
		for k := 0; k < n; k++ {
			e0, e1 := left.env[l][k], right.env[l][k]
			// 64 * 2^(E0/a + 1)
			level := fixed.Pow2Half(halfExp(e0, amp) + 14)
			dl := one.Add(fixed.Pow2Half(halfExp(pan-e1, amp)))
			dr := one.Add(fixed.Pow2Half(halfExp(e1-pan, amp)))
			left.eOrig[l][k] = level.Div(dl)
			right.eOrig[l][k] = level.Div(dr)
		}
	}

	nq := len(t.noise) - 1
	for l := 0; l < g.NumNoise; l++ {
		for k := 0; k < nq; k++ {
			q0, q1 := left.noise[l][k], right.noise[l][k]
			level := fixed.Pow2Half(2 * (noiseFloorOffset + 1 - q0))
			dl := one.Add(fixed.Pow2Half(2 * (noisePanOffset - q1)))
			dr := one.Add(fixed.Pow2Half(2 * (q1 - noisePanOffset)))
			left.qOrig[l][k] = level.Div(dl)
			right.qOrig[l][k] = level.Div(dr)
		}
	}
}
