package sbr

import (
	"math"
	"slices"
	"testing"

	"github.com/llehouerou/go-heaac/internal/fixed"
)

func toFloat64(f fixed.Float) float64 {
	return math.Ldexp(float64(f.M), f.E)
}

func mustTables(t *testing.T) *freqTables {
	t.Helper()
	h := testHeader()
	ft, err := newFreqTables(&h, 44100)
	if err != nil {
		t.Fatalf("newFreqTables: %v", err)
	}
	return ft
}

func oneEnvelope(res uint8) channelData {
	var cd channelData
	cd.grid = Grid{Class: FixFix, NumEnv: 1, NumNoise: 1, TE: [6]int{0, 16}, TQ: [3]int{0, 16}, Transient: -1}
	cd.grid.FreqRes[0] = res
	return cd
}

func TestDecodeDeltas_Envelope(t *testing.T) {
	ft := mustTables(t)
	ch := newChannel()

	// frequency deltas at low resolution
	cd := oneEnvelope(0)
	copy(cd.env[0][:], []int{10, 1, -1, 2, 0, 0, 0, 0})
	ch.decodeDeltas(&cd, ft)
	if want := []int{10, 11, 10, 12, 12, 12, 12, 12}; !slices.Equal(ch.env[0][:8], want) {
		t.Errorf("low res = %v, want %v", ch.env[0][:8], want)
	}

	// time deltas at high resolution against the low resolution frame
	cd = oneEnvelope(1)
	cd.dfEnv[0] = 1
	ch.decodeDeltas(&cd, ft)
	want := []int{10, 10, 11, 11, 10, 10, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12}
	if !slices.Equal(ch.env[0][:16], want) {
		t.Errorf("high res after low = %v, want %v", ch.env[0][:16], want)
	}

	// and back to low resolution
	cd = oneEnvelope(0)
	cd.dfEnv[0] = 1
	cd.env[0][7] = -2
	ch.decodeDeltas(&cd, ft)
	if want := []int{10, 11, 10, 12, 12, 12, 12, 10}; !slices.Equal(ch.env[0][:8], want) {
		t.Errorf("low res after high = %v, want %v", ch.env[0][:8], want)
	}
}

func TestDecodeDeltas_Noise(t *testing.T) {
	ft := mustTables(t)
	ch := newChannel()

	cd := oneEnvelope(0)
	copy(cd.noise[0][:], []int{3, 1, -2})
	ch.decodeDeltas(&cd, ft)
	if want := []int{3, 4, 2}; !slices.Equal(ch.noise[0][:3], want) {
		t.Errorf("frequency coded noise = %v, want %v", ch.noise[0][:3], want)
	}

	cd = oneEnvelope(0)
	cd.dfNoise[0] = 1
	copy(cd.noise[0][:], []int{1, 1, 1})
	ch.decodeDeltas(&cd, ft)
	if want := []int{4, 5, 3}; !slices.Equal(ch.noise[0][:3], want) {
		t.Errorf("time coded noise = %v, want %v", ch.noise[0][:3], want)
	}
}

func TestDequantize(t *testing.T) {
	ft := mustTables(t)
	tests := []struct {
		ampRes   uint8
		env      int
		noise    int
		wantE    float64
		wantQ    float64
		describe string
	}{
		{0, 0, 6, 64, 1, "zero envelope"},
		{0, 10, 0, 64 * 32, 64, "1.5 dB steps"},
		{1, 3, 8, 64 * 8, 0.25, "3 dB steps"},
		{0, 1, 6, 64 * math.Sqrt2, 1, "odd half step"},
	}
	for _, tt := range tests {
		ch := newChannel()
		cd := oneEnvelope(0)
		cd.ampRes = tt.ampRes
		for k := range ch.env[0] {
			ch.env[0][k] = tt.env
		}
		for k := range ch.noise[0] {
			ch.noise[0][k] = tt.noise
		}
		ch.dequantize(&cd, ft)
		if got := toFloat64(ch.eOrig[0][3]); math.Abs(got/tt.wantE-1) > 1e-6 {
			t.Errorf("%s: E_orig = %g, want %g", tt.describe, got, tt.wantE)
		}
		if got := toFloat64(ch.qOrig[0][2]); math.Abs(got/tt.wantQ-1) > 1e-6 {
			t.Errorf("%s: Q_orig = %g, want %g", tt.describe, got, tt.wantQ)
		}
	}
}

func TestDequantizeCoupled_CentredBalanceSplitsEvenly(t *testing.T) {
	ft := mustTables(t)
	left, right := newChannel(), newChannel()
	cd := oneEnvelope(0)
	for k := 0; k < 8; k++ {
		left.env[0][k] = 10
		right.env[0][k] = panOffset[0]
	}
	for k := 0; k < 3; k++ {
		left.noise[0][k] = 6
		right.noise[0][k] = noisePanOffset
	}
	dequantizeCoupled(left, right, &cd, ft)

	for k := 0; k < 8; k++ {
		l, r := toFloat64(left.eOrig[0][k]), toFloat64(right.eOrig[0][k])
		if math.Abs(l-2048) > 1e-3 || math.Abs(r-2048) > 1e-3 {
			t.Errorf("band %d: E_orig = %g, %g, want 2048 each", k, l, r)
		}
	}
	for k := 0; k < 3; k++ {
		l, r := toFloat64(left.qOrig[0][k]), toFloat64(right.qOrig[0][k])
		if math.Abs(l-1) > 1e-6 || math.Abs(r-1) > 1e-6 {
			t.Errorf("noise band %d: Q_orig = %g, %g, want 1 each", k, l, r)
		}
	}

	// a balance of zero pans fully to the right
	for k := 0; k < 8; k++ {
		right.env[0][k] = 0
	}
	dequantizeCoupled(left, right, &cd, ft)
	if l, r := toFloat64(left.eOrig[0][0]), toFloat64(right.eOrig[0][0]); r <= 1000*l {
		t.Errorf("panned right: E_orig = %g, %g", l, r)
	}
}
