package huffman

// Encoder-side lookups. The decoder never uses them; they let tests and
// tools build bitstreams from the same books.

// ScaleFactorCodeword returns the codeword for a scalefactor delta in
// [-60, 60].
func ScaleFactorCodeword(delta int) (code uint32, length uint8) {
	i := delta + 60
	return scaleFactorCodes.codes[i], scaleFactorCodes.lengths[i]
}

// SBRCodeword returns the codeword of value v in SBR table t.
func SBRCodeword(t SBRTable, v int) (code uint32, length uint8) {
	i := v + sbrCodes[t].offset
	return sbrCodes[t].codes[i], sbrCodes[t].lengths[i]
}

// SpectralCodeword returns the codeword of codebook cb for vals. Unsigned
// books take magnitudes (sign bits follow the codeword); codebook 11 maps
// magnitudes of 16 and above to the escape value.
func SpectralCodeword(cb Codebook, vals []int16) (code uint32, length uint8) {
	s := codebookShape[cb]
	idx := 0
	for i := 0; i < cb.Width(); i++ {
		v := int(vals[i])
		if cb.unsigned() && v < 0 {
			v = -v
		}
		if cb == EscHCB && v > 16 {
			v = 16
		}
		idx = idx*s.base + v + s.off
	}
	ct := spectralCodes[cb-1]
	return ct.codes[idx], ct.lengths[idx]
}

// Unsigned reports whether sign bits follow codewords of cb.
func (cb Codebook) Unsigned() bool {
	return cb.unsigned()
}
