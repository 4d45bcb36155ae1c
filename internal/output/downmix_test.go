package output

import (
	"slices"
	"testing"
)

func TestMix(t *testing.T) {
	tests := []struct {
		l, r, want int32
	}{
		{0, 0, 0},
		{8, 16, 12},
		{1, 2, 2},
		{-8, 8, 0},
		{0x7fffffff, 0x7fffffff, 0x7fffffff},
		{-0x80000000, -0x80000000, -0x80000000},
	}
	for _, tt := range tests {
		if got := Mix(tt.l, tt.r); got != tt.want {
			t.Errorf("Mix(%d, %d) = %d, want %d", tt.l, tt.r, got, tt.want)
		}
	}
}

func TestDownmixMono_InPlace(t *testing.T) {
	l := []int32{8, 16, -24, 0}
	r := []int32{8, 0, 24, 100}
	DownmixMono(l, r, l)
	if want := []int32{8, 8, 0, 50}; !slices.Equal(l, want) {
		t.Errorf("got %v, want %v", l, want)
	}
}
