package spectrum

import (
	"math"
	"testing"

	"github.com/llehouerou/go-heaac/internal/huffman"
	"github.com/llehouerou/go-heaac/internal/syntax"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// levinsonRef is the floating-point step-up recursion.
func levinsonRef(k []float64) []float64 {
	a := make([]float64, len(k)+1)
	a[0] = 1
	b := make([]float64, len(k)+1)
	for m := 1; m <= len(k); m++ {
		a[m] = k[m-1]
		for i := 1; i < m; i++ {
			b[i] = a[i] + a[m]*a[m-i]
		}
		copy(a[1:m], b[1:m])
	}
	return a
}

func TestTNSDecodeCoef_MatchesFloat(t *testing.T) {
	coef := []uint8{7, 1, 12, 3, 9, 0, 15, 5, 2, 11, 4, 6}
	for _, res := range []uint8{0, 1} {
		for _, compress := range []uint8{0, 1} {
			bitsPer := res + 3 - compress
			idx := make([]uint8, len(coef))
			for i, c := range coef {
				idx[i] = c & (1<<bitsPer - 1)
			}
			table := tables.TNSCoefficients(compress != 0, res+3)
			k := make([]float64, len(idx))
			for i, c := range idx {
				k[i] = float64(table[c]) / (1 << 31)
			}
			want := levinsonRef(k)

			lpc := make([]int32, syntax.MaxTNSOrder+1)
			tnsDecodeCoef(uint8(len(idx)), res, compress, idx, lpc)
			for i := range want {
				got := float64(lpc[i]) / (1 << lpcFracBits)
				if math.Abs(got-want[i]) > 1e-4 {
					t.Errorf("res %d compress %d: lpc[%d] = %.6f, want %.6f", res, compress, i, got, want[i])
				}
			}
		}
	}
}

func tnsStream(t *testing.T, short bool) *syntax.ICStream {
	t.Helper()
	var ics *syntax.ICStream
	if short {
		ics = shortStream(t, 14, 0, huffman.EscHCB, 100)
	} else {
		ics = longStream(t, 49, huffman.EscHCB, 100)
	}
	ics.TNSDataPresent = true
	for w := uint8(0); w < ics.NumWindows; w++ {
		tns := &ics.TNS
		if short {
			tns.NFilt[w] = 1
			tns.CoefRes[w] = 1
			tns.Length[w][0] = 10
			tns.Order[w][0] = 4
			tns.Direction[w][0] = w & 1
			tns.Coef[w][0] = [syntax.MaxTNSOrder]uint8{5, 13, 2, 9}
			continue
		}
		tns.NFilt[w] = 2
		tns.CoefRes[w] = 1
		tns.Length[w] = [syntax.MaxTNSFilters]uint8{20, 25}
		tns.Order[w] = [syntax.MaxTNSFilters]uint8{12, 6}
		tns.Direction[w] = [syntax.MaxTNSFilters]uint8{1, 0}
		tns.CoefCompress[w] = [syntax.MaxTNSFilters]uint8{0, 1}
		tns.Coef[w][0] = [syntax.MaxTNSOrder]uint8{6, 14, 3, 9, 1, 12, 4, 15, 2, 7, 11, 0}
		tns.Coef[w][1] = [syntax.MaxTNSOrder]uint8{3, 5, 1, 6, 2, 4}
	}
	return ics
}

func TestTNS_InverseReconstructs(t *testing.T) {
	for _, short := range []bool{false, true} {
		ics := tnsStream(t, short)
		coef := make([]int32, syntax.FrameLength)
		for i := range coef {
			coef[i] = int32(math.Sin(float64(i)*0.37)*20000) + int32(i%7)*100
		}
		orig := append([]int32(nil), coef...)

		TNSEncode(ics, 4, coef)
		changed := 0
		for i := range coef {
			if coef[i] != orig[i] {
				changed++
			}
		}
		if changed == 0 {
			t.Fatalf("short=%v: analysis filter changed nothing", short)
		}

		mask := TNSDecode(ics, 4, coef)
		for i := range coef {
			if coef[i] != orig[i] {
				t.Fatalf("short=%v: coef[%d] = %d, want %d", short, i, coef[i], orig[i])
			}
		}
		if mask == 0 {
			t.Errorf("short=%v: empty mask", short)
		}
	}
}

func TestTNSDecode_RegionLimits(t *testing.T) {
	ics := longStream(t, 20, huffman.EscHCB, 100)
	ics.TNSDataPresent = true
	ics.TNS.NFilt[0] = 1
	ics.TNS.Length[0][0] = 40
	ics.TNS.Order[0][0] = 1
	ics.TNS.Coef[0][0][0] = 3

	coef := make([]int32, syntax.FrameLength)
	for i := range coef {
		coef[i] = 1 << 12
	}
	TNSDecode(ics, 4, coef)

	// bands 9..19 are filtered: the filter spans [num_swb-40, num_swb)
	// clipped to max_sfb
	lo, hi := int(ics.SWBOffset[9]), int(ics.SWBOffset[20])
	for i := range coef {
		inside := i >= lo && i < hi
		if changed := coef[i] != 1<<12; changed != inside && i != lo {
			t.Fatalf("coef[%d] changed = %v, inside = %v", i, changed, inside)
		}
	}
}

func TestTNSDecode_NotPresent(t *testing.T) {
	ics := tnsStream(t, false)
	ics.TNSDataPresent = false
	coef := []int32{1, 2, 3}
	coef = append(coef, make([]int32, syntax.FrameLength-3)...)
	if mask := TNSDecode(ics, 4, coef); mask != 0 || coef[1] != 2 {
		t.Error("filters applied without tns data")
	}
}
