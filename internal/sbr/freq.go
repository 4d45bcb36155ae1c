package sbr

import (
	"math"
	"slices"

	"github.com/llehouerou/go-heaac/internal/tables"
)

const (
	maxPatches     = 5
	maxNoiseBands  = 5
	maxPatchRounds = 64
)

// Lowest start subband and offset row per output rate index
// (ISO/IEC 14496-3 4.6.18.3.2).
var (
	startMinTable    = [12]int{7, 7, 10, 11, 12, 16, 16, 17, 24, 32, 35, 48}
	offsetIndexTable = [12]int{5, 5, 4, 4, 4, 3, 2, 1, 0, 6, 6, 6}
	startOffsets     = [7][16]int{
		{-8, -7, -6, -5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5, 6, 7},
		{-5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5, 6, 7, 9, 11, 13},
		{-5, -3, -2, -1, 0, 1, 2, 3, 4, 5, 6, 7, 9, 11, 13, 16},
		{-6, -4, -2, -1, 0, 1, 2, 3, 4, 5, 6, 7, 9, 11, 13, 16},
		{-4, -2, -1, 0, 1, 2, 3, 4, 5, 6, 7, 9, 11, 13, 16, 20},
		{-2, -1, 0, 1, 2, 3, 4, 5, 6, 7, 9, 11, 13, 16, 20, 24},
		{0, 1, 2, 3, 4, 5, 6, 7, 9, 11, 13, 16, 20, 24, 28, 33},
	}
)

// limiterBandsPerOctave is indexed by bs_limiter_bands - 1.
var limiterBandsPerOctave = [3]float64{1.2, 2, 3}

// freqTables are the subband tables derived from a header. Band borders
// are absolute QMF subband indices; a table of n bands has n+1 entries.
type freqTables struct {
	k0, k2 int
	kx, m  int

	master []int
	high   []int
	low    []int
	noise  []int
	lim    []int

	patchNum   []int
	patchStart []int
}

// bands returns the envelope band table for frequency resolution res.
func (t *freqTables) bands(res uint8) []int {
	if res == 1 {
		return t.high
	}
	return t.low
}

// newFreqTables derives every band table for a header at the given SBR
// output rate.
func newFreqTables(h *Header, outRate uint32) (*freqTables, error) {
	sr := int(tables.GetSRIndex(outRate))
	if sr >= len(startMinTable) {
		return nil, ErrFreqTables
	}
	t := &freqTables{}

	t.k0 = startMinTable[sr] + startOffsets[offsetIndexTable[sr]][h.StartFreq]
	t.k2 = stopChannel(t.k0, h.StopFreq, outRate)
	if t.k0 < 1 || t.k2 <= t.k0 || t.k2 > numBands {
		return nil, ErrFreqTables
	}
	maxSpan := 32
	switch {
	case outRate <= 32000:
		maxSpan = 48
	case outRate == 44100:
		maxSpan = 35
	}
	if t.k2-t.k0 > maxSpan {
		return nil, ErrFreqTables
	}

	var err error
	if h.FreqScale == 0 {
		t.master, err = masterArithmetic(t.k0, t.k2, h.AlterScale)
	} else {
		t.master, err = masterGeometric(t.k0, t.k2, h.FreqScale, h.AlterScale)
	}
	if err != nil {
		return nil, err
	}

	nMaster := len(t.master) - 1
	if int(h.XoverBand) >= nMaster {
		return nil, ErrFreqTables
	}
	t.high = t.master[h.XoverBand:]
	nHigh := len(t.high) - 1
	nLow := nHigh/2 + nHigh%2
	odd := nHigh % 2
	t.low = make([]int, nLow+1)
	t.low[0] = t.high[0]
	for k := 1; k <= nLow; k++ {
		t.low[k] = t.high[2*k-odd]
	}

	t.kx = t.high[0]
	t.m = t.high[nHigh] - t.kx
	if t.kx > lowBands || t.kx+t.m > numBands || t.m <= 0 {
		return nil, ErrFreqTables
	}

	nq := 1
	if h.NoiseBands > 0 {
		v := float64(h.NoiseBands) * math.Log2(float64(t.k2)/float64(t.kx))
		nq = max(1, int(math.Round(v)))
	}
	if nq > maxNoiseBands {
		return nil, ErrFreqTables
	}
	t.noise = make([]int, nq+1)
	t.noise[0] = t.low[0]
	i := 0
	for k := 1; k <= nq; k++ {
		i += (nLow - i) / (nq + 1 - k)
		t.noise[k] = t.low[i]
	}

	if err := t.buildPatches(outRate); err != nil {
		return nil, err
	}
	t.buildLimiter(h.LimiterBands)
	return t, nil
}

// stopChannel returns k2 for bs_stop_freq.
func stopChannel(k0 int, stopFreq uint8, outRate uint32) int {
	switch stopFreq {
	case 14:
		return min(numBands, 2*k0)
	case 15:
		return min(numBands, 3*k0)
	}

	base := 6000.0
	switch {
	case outRate >= 64000:
		base = 10000
	case outRate >= 32000:
		base = 8000
	}
	stopMin := int(math.Round(base * 128 / float64(outRate)))

	var vk [14]int
	for i := range vk {
		vk[i] = int(math.Round(float64(stopMin) * math.Pow(64/float64(stopMin), float64(i)/13)))
	}
	var dk [13]int
	for i := range dk {
		dk[i] = vk[i+1] - vk[i]
	}
	slices.Sort(dk[:])

	k2 := stopMin
	for i := 0; i < int(stopFreq); i++ {
		k2 += dk[i]
	}
	return min(numBands, k2)
}

// masterArithmetic builds the master table for bs_freq_scale 0.
func masterArithmetic(k0, k2 int, alterScale uint8) ([]int, error) {
	dk, n := 1, 2*((k2-k0)/2)
	if alterScale != 0 {
		dk = 2
		n = 2 * int(math.Round(float64(k2-k0)/4))
	}
	if n < 1 {
		return nil, ErrFreqTables
	}

	diff := make([]int, n)
	for i := range diff {
		diff[i] = dk
	}
	rest := (k2 - k0) - n*dk
	k, step := n-1, -1
	if rest < 0 {
		k, step = 0, 1
	}
	for rest != 0 {
		if k < 0 || k >= n {
			return nil, ErrFreqTables
		}
		diff[k] -= step
		k += step
		rest += step
	}
	return cumulative(k0, diff)
}

// masterGeometric builds the master table for bs_freq_scale 1 to 3: one or
// two logarithmically spaced regions.
func masterGeometric(k0, k2 int, freqScale, alterScale uint8) ([]int, error) {
	bands := [3]float64{12, 10, 8}[freqScale-1]
	warp := 1.0
	if alterScale != 0 {
		warp = 1.3
	}

	twoRegions := float64(k2)/float64(k0) > 2.2449
	k1 := k2
	if twoRegions {
		k1 = 2 * k0
	}

	n0 := 2 * int(math.Round(bands*math.Log2(float64(k1)/float64(k0))/2))
	if n0 < 1 {
		return nil, ErrFreqTables
	}
	diff0 := geometricDiffs(k0, k1, n0)
	if !twoRegions {
		return cumulative(k0, diff0)
	}

	n1 := 2 * int(math.Round(bands*math.Log2(float64(k2)/float64(k1))/(2*warp)))
	if n1 < 1 {
		return nil, ErrFreqTables
	}
	diff1 := geometricDiffs(k1, k2, n1)
	if diff1[0] < diff0[n0-1] {
		change := diff0[n0-1] - diff1[0]
		change = min(change, (diff1[n1-1]-diff1[0])/2)
		diff1[0] += change
		diff1[n1-1] -= change
		slices.Sort(diff1)
	}
	return cumulative(k0, append(diff0, diff1...))
}

// geometricDiffs returns the sorted widths of n bands spaced
// logarithmically between a and b.
func geometricDiffs(a, b, n int) []int {
	diff := make([]int, n)
	prev := a
	for k := 1; k <= n; k++ {
		cur := int(math.Round(float64(a) * math.Pow(float64(b)/float64(a), float64(k)/float64(n))))
		diff[k-1] = cur - prev
		prev = cur
	}
	slices.Sort(diff)
	return diff
}

// cumulative turns band widths into borders starting at start. Empty bands
// invalidate the table.
func cumulative(start int, diff []int) ([]int, error) {
	out := make([]int, len(diff)+1)
	out[0] = start
	for i, d := range diff {
		if d <= 0 {
			return nil, ErrFreqTables
		}
		out[i+1] = out[i] + d
	}
	return out, nil
}

// buildPatches maps the high band onto copies of the low band
// (ISO/IEC 14496-3 4.6.18.6.3).
func (t *freqTables) buildPatches(outRate uint32) error {
	t.patchNum = t.patchNum[:0]
	t.patchStart = t.patchStart[:0]

	nMaster := len(t.master) - 1
	msb, usb := t.k0, t.kx
	goalSb := int(math.Round(2.048e6 / float64(outRate)))

	k := nMaster
	if goalSb < t.kx+t.m {
		k = 0
		for i := 0; i < nMaster && t.master[i] < goalSb; i++ {
			k = i + 1
		}
	}

	for round := 0; ; round++ {
		if round == maxPatchRounds {
			return ErrFreqTables
		}
		var sb, odd int
		j := k + 1
		for {
			j--
			if j < 0 {
				return ErrFreqTables
			}
			sb = t.master[j]
			odd = (sb - 2 + t.k0) % 2
			if sb <= t.k0-1+msb-odd {
				break
			}
		}

		num := max(sb-usb, 0)
		if num > 0 {
			t.patchNum = append(t.patchNum, num)
			t.patchStart = append(t.patchStart, t.k0-odd-num)
			usb = sb
			msb = sb
		} else {
			msb = t.kx
		}
		if t.master[k]-sb < 3 {
			k = nMaster
		}
		if sb == t.kx+t.m {
			break
		}
	}

	if n := len(t.patchNum); n > 1 && t.patchNum[n-1] < 3 {
		t.patchNum = t.patchNum[:n-1]
		t.patchStart = t.patchStart[:n-1]
	}
	if len(t.patchNum) == 0 || len(t.patchNum) > maxPatches {
		return ErrFreqTables
	}
	for i, p := range t.patchStart {
		if p < 0 || p+t.patchNum[i] > t.k0 {
			return ErrFreqTables
		}
	}
	return nil
}

// buildLimiter derives the limiter band table from the low resolution
// table and the patch borders (ISO/IEC 14496-3 4.6.18.3.2.3).
func (t *freqTables) buildLimiter(limiterBands uint8) {
	nLow := len(t.low) - 1
	if limiterBands == 0 {
		t.lim = []int{t.low[0], t.low[nLow]}
		return
	}

	borders := make([]int, len(t.patchNum)+1)
	borders[0] = t.kx
	for i, n := range t.patchNum {
		borders[i+1] = borders[i] + n
	}
	isBorder := func(v int) bool {
		return v == t.low[nLow] || slices.Contains(borders, v)
	}

	lim := slices.Clone(t.low)
	lim = append(lim, borders[1:len(borders)-1]...)
	slices.Sort(lim)

	perOctave := limiterBandsPerOctave[limiterBands-1]
	for k := 1; k < len(lim); {
		octaves := math.Log2(float64(lim[k]) / float64(lim[k-1]))
		if octaves*perOctave >= 0.49 {
			k++
			continue
		}
		if lim[k] != lim[k-1] && isBorder(lim[k]) {
			if isBorder(lim[k-1]) {
				k++
				continue
			}
			lim = slices.Delete(lim, k-1, k)
			continue
		}
		lim = slices.Delete(lim, k, k+1)
	}
	t.lim = lim
}
