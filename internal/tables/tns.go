package tables

// TNSMaxOrderLong and TNSMaxOrderShort bound the LC filter order.
const (
	TNSMaxOrderLong  = 12
	TNSMaxOrderShort = 7
)

// tnsMaxBands lists the highest band TNS may cover for long and short
// windows, per sample rate index (ISO/IEC 14496-3 Table 4.157).
var tnsMaxBands = [NumSampleRates][2]uint8{
	{31, 9},  // 96000
	{31, 9},  // 88200
	{34, 10}, // 64000
	{40, 14}, // 48000
	{42, 14}, // 44100
	{51, 14}, // 32000
	{46, 14}, // 24000
	{46, 14}, // 22050
	{42, 14}, // 16000
	{42, 14}, // 12000
	{42, 14}, // 11025
	{39, 14}, // 8000
	{39, 14}, // 7350
}

// TNSMaxBands returns the TNS band limit for srIndex.
func TNSMaxBands(srIndex uint8, short bool) uint8 {
	if int(srIndex) >= NumSampleRates {
		return 0
	}
	if short {
		return tnsMaxBands[srIndex][1]
	}
	return tnsMaxBands[srIndex][0]
}

// TNS reflection coefficients in Q31, indexed by the raw coefficient bits.
// The table is chosen by coef_compress and coef_res (3 or 4 bits); the
// sign extension of the transmitted value is folded into the entries.
var tnsCoefRes3 = [16]int32{
	0, 931758235, 1678970324, 2093641749,
	-2114858546, -1859775393, -1380375881, -734482665,
	-931758235, -1678970324, -2093641749, -2093641749,
	-2114858546, -1859775393, -1380375881, -734482665,
}

var tnsCoefRes4 = [16]int32{
	0, 446486956, 873460290, 1262259218,
	1595891361, 1859775393, 2042378317, 2135719508,
	-2138322861, -2065504841, -1922348531, -1713728946,
	-1446750378, -1130504462, -775760571, -394599085,
}

var tnsCoefRes3Compressed = [16]int32{
	0, 931758235, -1380375881, -734482665,
	2093641749, 1678970324, -1380375881, -734482665,
	-931758235, -1678970324, -1380375881, -734482665,
	-1678970324, -931758235, -1380375881, -734482665,
}

var tnsCoefRes4Compressed = [16]int32{
	0, 446486956, 873460290, 1262259218,
	-1446750378, -1130504462, -775760571, -394599085,
	2135719508, 2042378317, 1859775393, 1595891361,
	-1446750378, -1130504462, -775760571, -394599085,
}

// TNSCoefficients returns the coefficient table for a filter.
func TNSCoefficients(compress bool, resBits uint8) *[16]int32 {
	switch {
	case !compress && resBits == 3:
		return &tnsCoefRes3
	case !compress:
		return &tnsCoefRes4
	case resBits == 3:
		return &tnsCoefRes3Compressed
	}
	return &tnsCoefRes4Compressed
}
