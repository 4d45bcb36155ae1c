package filterbank

import "math"

// Window shapes as signalled by window_shape.
const (
	SineWindow = 0
	KBDWindow  = 1
)

// Window sizes for 1024-sample frames.
const (
	LongWindowSize  = 1024
	ShortWindowSize = 128
)

// Kaiser alpha of the KBD windows (ISO/IEC 14496-3 4.6.11.3.2).
const (
	kbdAlphaLong  = 4
	kbdAlphaShort = 6
)

// Rising window halves in Q31. The falling half of a window of size N is
// w[N-1-n].
var (
	sineLong  [LongWindowSize]int32
	kbdLong   [LongWindowSize]int32
	sineShort [ShortWindowSize]int32
	kbdShort  [ShortWindowSize]int32
)

func init() {
	sineWindow(sineLong[:])
	sineWindow(sineShort[:])
	kbdWindow(kbdLong[:], kbdAlphaLong)
	kbdWindow(kbdShort[:], kbdAlphaShort)
}

// GetLongWindow returns the rising half of the long window for shape.
//
// Ported from: fb->long_window[window_shape] in ~/dev/faad2/libfaad/filtbank.c:197
func GetLongWindow(shape uint8) []int32 {
	if shape == KBDWindow {
		return kbdLong[:]
	}
	return sineLong[:]
}

// GetShortWindow returns the rising half of the short window for shape.
//
// Ported from: fb->short_window[window_shape] in ~/dev/faad2/libfaad/filtbank.c:199
func GetShortWindow(shape uint8) []int32 {
	if shape == KBDWindow {
		return kbdShort[:]
	}
	return sineShort[:]
}

// sineWindow fills w with sin(pi/N * (n + 1/2)), N = 2*len(w).
func sineWindow(w []int32) {
	n := float64(2 * len(w))
	for i := range w {
		w[i] = q31(math.Sin(math.Pi / n * (float64(i) + 0.5)))
	}
}

// kbdWindow fills w with the Kaiser-Bessel derived window of length
// 2*len(w).
func kbdWindow(w []int32, alpha float64) {
	half := len(w)
	kaiser := make([]float64, half+1)
	var total float64
	for i := range kaiser {
		r := float64(i-half/2) / float64(half/2)
		kaiser[i] = besselI0(math.Pi * alpha * math.Sqrt(1-r*r))
		total += kaiser[i]
	}
	var sum float64
	for i := range w {
		sum += kaiser[i]
		w[i] = q31(math.Sqrt(sum / total))
	}
}

// besselI0 evaluates the zeroth order modified Bessel function of the
// first kind by its power series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	q := x * x / 4
	for k := 1; k < 64; k++ {
		term *= q / float64(k*k)
		sum += term
		if term < sum*1e-17 {
			break
		}
	}
	return sum
}

func q31(v float64) int32 {
	r := math.Round(v * (1 << 31))
	return int32(min(r, math.MaxInt32))
}
