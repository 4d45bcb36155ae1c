// Package huffman decodes the AAC spectral, scalefactor and SBR Huffman codes.
//
// Lookup structures are generated once at package initialization from the
// (codeword, length) lists of ISO/IEC 14496-3: spectral books use two-step
// tables indexed by the first 5 (codebook 10: 6) bits, scalefactor and SBR
// books use a binary tree walked one bit at a time.
package huffman

// Codebook represents a section codebook identifier.
type Codebook uint8

// Section codebook identifiers.
const (
	ZeroHCB       Codebook = 0  // No spectral data
	FirstPairHCB  Codebook = 5  // First pair codebook
	EscHCB        Codebook = 11 // Escape codebook
	ReservedHCB   Codebook = 12
	NoiseHCB      Codebook = 13 // Perceptual Noise Substitution
	IntensityHCB2 Codebook = 14 // Intensity stereo (out of phase)
	IntensityHCB  Codebook = 15 // Intensity stereo (in phase)
)

// Number of coefficients produced by one codeword.
const (
	QuadLen = 4
	PairLen = 2
)

// IsSpectral reports whether cb carries Huffman-coded spectral values.
func (cb Codebook) IsSpectral() bool {
	return cb > ZeroHCB && cb <= EscHCB
}

// IsIntensity reports whether cb signals intensity stereo.
func (cb Codebook) IsIntensity() bool {
	return cb == IntensityHCB || cb == IntensityHCB2
}

// Width returns the number of coefficients one codeword of cb decodes to.
func (cb Codebook) Width() int {
	if cb < FirstPairHCB {
		return QuadLen
	}
	return PairLen
}

// unsigned reports whether sign bits follow the codeword.
func (cb Codebook) unsigned() bool {
	switch cb {
	case 3, 4, 7, 8, 9, 10, 11:
		return true
	}
	return false
}

// codebookShape gives, per spectral codebook, the base and offset used to
// map a codeword index to its values: for quads index = sum(v_i+off)*base^i,
// for pairs index = (x+off)*base + (y+off).
var codebookShape = [12]struct{ base, off int }{
	1: {3, 1}, 2: {3, 1}, 3: {3, 0}, 4: {3, 0},
	5: {9, 4}, 6: {9, 4}, 7: {8, 0}, 8: {8, 0},
	9: {13, 0}, 10: {13, 0}, 11: {17, 0},
}
