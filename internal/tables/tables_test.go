package tables

import (
	"math"
	"testing"
)

func TestSWBOffsets_CoverWindow(t *testing.T) {
	for sr := uint8(0); sr < NumSampleRates; sr++ {
		for _, short := range []bool{false, true} {
			offsets, err := SWBOffsets(sr, short)
			if err != nil {
				t.Fatalf("SWBOffsets(%d, %v): %v", sr, short, err)
			}
			want := uint16(FrameLength)
			if short {
				want = ShortFrameLength
			}
			if offsets[0] != 0 {
				t.Errorf("sr %d short %v: first offset = %d", sr, short, offsets[0])
			}
			if last := offsets[len(offsets)-1]; last != want {
				t.Errorf("sr %d short %v: last offset = %d, want %d", sr, short, last, want)
			}
			for b := 1; b < len(offsets); b++ {
				if offsets[b] <= offsets[b-1] || (offsets[b]-offsets[b-1])%4 != 0 {
					t.Errorf("sr %d short %v: band %d width %d", sr, short, b-1, offsets[b]-offsets[b-1])
				}
			}
		}
	}
}

func TestNumSWB(t *testing.T) {
	tests := []struct {
		sr          uint8
		long, short uint8
	}{
		{0, 41, 12},
		{2, 47, 12},
		{3, 49, 14},
		{4, 49, 14},
		{5, 51, 14},
		{6, 47, 15},
		{8, 43, 15},
		{11, 40, 15},
		{12, 40, 15},
	}
	for _, tt := range tests {
		long, _ := NumSWB(tt.sr, false)
		short, _ := NumSWB(tt.sr, true)
		if long != tt.long || short != tt.short {
			t.Errorf("NumSWB(%d) = %d/%d, want %d/%d", tt.sr, long, short, tt.long, tt.short)
		}
	}
	if _, err := NumSWB(13, false); err != ErrInvalidSRIndex {
		t.Errorf("NumSWB(13) error = %v, want ErrInvalidSRIndex", err)
	}
}

func TestGetSRIndex(t *testing.T) {
	tests := []struct {
		rate uint32
		want uint8
	}{
		{96000, 0}, {88200, 1}, {64000, 2}, {48000, 3}, {44100, 4},
		{32000, 5}, {24000, 6}, {22050, 7}, {16000, 8}, {12000, 9},
		{11025, 10}, {8000, 11}, {7350, 11}, {50000, 3}, {1000, 11},
	}
	for _, tt := range tests {
		if got := GetSRIndex(tt.rate); got != tt.want {
			t.Errorf("GetSRIndex(%d) = %d, want %d", tt.rate, got, tt.want)
		}
	}
}

func TestExactSRIndex(t *testing.T) {
	if i, ok := ExactSRIndex(7350); !ok || i != 12 {
		t.Errorf("ExactSRIndex(7350) = %d, %v", i, ok)
	}
	if _, ok := ExactSRIndex(50000); ok {
		t.Error("ExactSRIndex(50000) reported a match")
	}
	if GetSampleRate(13) != 0 || GetSampleRate(4) != 44100 {
		t.Error("GetSampleRate mismatch")
	}
}

func TestTNSMaxBands(t *testing.T) {
	tests := []struct {
		sr    uint8
		short bool
		want  uint8
	}{
		{0, false, 31}, {0, true, 9}, {2, true, 10}, {4, false, 42},
		{5, false, 51}, {11, false, 39}, {12, true, 14}, {15, false, 0},
	}
	for _, tt := range tests {
		if got := TNSMaxBands(tt.sr, tt.short); got != tt.want {
			t.Errorf("TNSMaxBands(%d, %v) = %d, want %d", tt.sr, tt.short, got, tt.want)
		}
	}
}

func TestTNSCoefficients_AreQuantizedSines(t *testing.T) {
	// 4-bit, uncompressed: index i >= 0 maps to sin(i * pi / (2 * 7.5)).
	tab := TNSCoefficients(false, 4)
	for i := 0; i < 8; i++ {
		want := math.Sin(float64(i) * math.Pi / 15)
		got := float64(tab[i]) / (1 << 31)
		if math.Abs(got-want) > 1e-8 {
			t.Errorf("res4[%d] = %f, want %f", i, got, want)
		}
	}
	// negative half uses pi / (2 * 8.5)
	for i := 8; i < 16; i++ {
		want := math.Sin(float64(i-16) * math.Pi / 17)
		got := float64(tab[i]) / (1 << 31)
		if math.Abs(got-want) > 1e-8 {
			t.Errorf("res4[%d] = %f, want %f", i, got, want)
		}
	}
	if TNSCoefficients(true, 3)[2] != TNSCoefficients(false, 3)[6] {
		t.Error("compressed 3-bit table should reuse the sign-extended entries")
	}
}

func TestPow43Small(t *testing.T) {
	for x := 0; x < Pow43SmallSize; x++ {
		want := math.Pow(float64(x), 4.0/3.0) * (1 << 23)
		if math.Abs(float64(Pow43Small[x])-want) > 0.5 {
			t.Errorf("Pow43Small[%d] = %d, want %.1f", x, Pow43Small[x], want)
		}
	}
}

func TestPow43Poly(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		x := 0.5 + 0.5*float64(i)/1000
		c := Pow43Poly[0]
		if x >= 0.75 {
			c = Pow43Poly[1]
		}
		y := 0.0
		for _, k := range c {
			y = y*x + float64(k)/(1<<28)
		}
		want := math.Pow(x, 4.0/3.0)
		if math.Abs(y-want)/want > 1e-6 {
			t.Fatalf("poly(%f) = %f, want %f", x, y, want)
		}
	}
}

func TestPowFractions(t *testing.T) {
	for r, v := range Pow14 {
		if want := math.Pow(2, float64(r)/4) * (1 << 30); math.Abs(float64(v)-want) > 0.5 {
			t.Errorf("Pow14[%d] = %d, want %.1f", r, v, want)
		}
	}
	for f, v := range Pow2Frac {
		if want := math.Pow(2, float64(f)/3) * (1 << 30); math.Abs(float64(v)-want) > 0.5 {
			t.Errorf("Pow2Frac[%d] = %d, want %.1f", f, v, want)
		}
	}
}
