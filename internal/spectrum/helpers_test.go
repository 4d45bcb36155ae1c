package spectrum

import (
	"testing"

	"github.com/llehouerou/go-heaac/internal/fixed"
	"github.com/llehouerou/go-heaac/internal/huffman"
	"github.com/llehouerou/go-heaac/internal/syntax"
)

// longStream returns a long-window stream at 44.1 kHz with every band
// up to maxSFB using cb and scalefactor sf.
func longStream(t *testing.T, maxSFB uint8, cb huffman.Codebook, sf int16) *syntax.ICStream {
	t.Helper()
	ics := &syntax.ICStream{WindowSequence: syntax.OnlyLongSequence, MaxSFB: maxSFB}
	if err := syntax.WindowGroupingInfo(ics, 4); err != nil {
		t.Fatal(err)
	}
	fillBands(ics, cb, sf)
	return ics
}

// shortStream returns an eight-short stream at 44.1 kHz.
func shortStream(t *testing.T, maxSFB, grouping uint8, cb huffman.Codebook, sf int16) *syntax.ICStream {
	t.Helper()
	ics := &syntax.ICStream{
		WindowSequence:      syntax.EightShortSequence,
		MaxSFB:              maxSFB,
		ScaleFactorGrouping: grouping,
	}
	if err := syntax.WindowGroupingInfo(ics, 4); err != nil {
		t.Fatal(err)
	}
	fillBands(ics, cb, sf)
	return ics
}

func fillBands(ics *syntax.ICStream, cb huffman.Codebook, sf int16) {
	for g := uint8(0); g < ics.NumWindowGroups; g++ {
		for sfb := uint8(0); sfb < ics.MaxSFB; sfb++ {
			ics.SFBCB[g][sfb] = uint8(cb)
			ics.ScaleFactors[g][sfb] = sf
		}
	}
	ics.NoiseUsed = cb == huffman.NoiseHCB
	ics.IsUsed = cb.IsIntensity()
}

// checkGuardBits fails when mask claims more headroom than buf has.
func checkGuardBits(t *testing.T, buf []int32, mask uint32) {
	t.Helper()
	if got, want := fixed.GuardBits(mask), fixed.CountGuardBits(buf); got > want {
		t.Errorf("guard bits from mask = %d, actual %d", got, want)
	}
}

func TestIsIntensity(t *testing.T) {
	tests := []struct {
		cb   huffman.Codebook
		want int8
	}{
		{huffman.IntensityHCB, 1},
		{huffman.IntensityHCB2, -1},
		{huffman.NoiseHCB, 0},
		{huffman.EscHCB, 0},
		{huffman.ZeroHCB, 0},
	}
	for _, tt := range tests {
		if got := IsIntensity(tt.cb); got != tt.want {
			t.Errorf("IsIntensity(%d) = %d, want %d", tt.cb, got, tt.want)
		}
	}
	if !IsNoise(huffman.NoiseHCB) || IsNoise(huffman.IntensityHCB) {
		t.Error("IsNoise mismatch")
	}
}

func TestForEachWindowBand_Short(t *testing.T) {
	ics := shortStream(t, 14, 0b1011011, huffman.EscHCB, 100)
	seen := make([]int, syntax.FrameLength)
	wins := map[int]bool{}
	forEachWindowBand(ics, func(g, sfb uint8, win, start, end int) {
		wins[win] = true
		for i := start; i < end; i++ {
			seen[i]++
		}
	})
	if len(wins) != 8 {
		t.Errorf("visited %d windows, want 8", len(wins))
	}
	for i, n := range seen {
		if n != 1 {
			t.Fatalf("line %d visited %d times", i, n)
		}
	}
}
