package sbr

import (
	"math"
	"testing"

	"github.com/llehouerou/go-heaac/internal/fixed"
)

func TestNoiseTable_UnitPower(t *testing.T) {
	var p float64
	for _, v := range noiseTable {
		re, im := float64(v[0])/(1<<29), float64(v[1])/(1<<29)
		p += re*re + im*im
	}
	if got := p / noiseTableLen; math.Abs(got-1) > 1e-3 {
		t.Errorf("mean complex power = %.4f, want 1", got)
	}
}

func TestAdjustHF_ReachesReferenceEnergy(t *testing.T) {
	const amp = 4096
	for _, gains := range []uint8{0, 1, 2, 3} {
		ft := mustTables(t)
		ch := newChannel()
		for s := tHFAdj; s < numSlots+tHFAdj; s++ {
			for k := ft.kx; k < ft.kx+ft.m; k++ {
				ch.buf.re[s][k] = amp
			}
		}
		// four times the current energy of amp^2/64 per subband
		target := fixed.NewFloat(amp*amp/16, 0)
		for j := range ch.eOrig[0] {
			ch.eOrig[0][j] = target
		}
		for j := range ch.qOrig[0] {
			ch.qOrig[0][j] = fixed.Pow2Half(-48)
		}

		h := testHeader()
		h.LimiterGains = gains
		cd := oneEnvelope(0)
		ch.adjustHF(&cd, ft, &h)

		for s := tHFAdj; s < numSlots+tHFAdj; s++ {
			for k := ft.kx; k < ft.kx+ft.m; k++ {
				if got := float64(ch.buf.re[s][k]) / amp; math.Abs(got-2) > 0.02 {
					t.Fatalf("limiter gains %d: slot %d band %d gain %.4f, want 2", gains, s, k, got)
				}
			}
		}
	}
}

func TestAdjustHF_SmoothingFillsHistoryAfterReset(t *testing.T) {
	ch := newChannel()
	for k := range ch.gains.g {
		ch.gains.g[k] = fixed.NewFloat(3, 0)
	}
	ch.pushGains()
	g, _ := ch.smoothed(0)
	if got := toFloat64(g); math.Abs(got-3) > 1e-3 {
		t.Errorf("smoothed gain after reset = %.4f, want 3", got)
	}

	for k := range ch.gains.g {
		ch.gains.g[k] = fixed.NewFloat(1, 0)
	}
	ch.pushGains()
	g, _ = ch.smoothed(0)
	want := 1*0.33333333333333 + 3*(1-0.33333333333333)
	if got := toFloat64(g); math.Abs(got-want) > 1e-3 {
		t.Errorf("smoothed gain = %.4f, want %.4f", got, want)
	}
}
