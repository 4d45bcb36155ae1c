package huffman

// HCB is a first-step table entry for 2-step Huffman decoding.
// It maps the root bits to an offset in the second-step table and
// indicates how many additional bits to peek.
//
// Ported from: hcb struct in ~/dev/faad2/libfaad/codebook/hcb.h:85-89
type HCB struct {
	Offset    uint16 // Index into second-step table
	ExtraBits uint8  // Number of additional bits to read
}

// HCB2Quad is a second-step table entry for quadruple codebooks 1-4.
//
// Ported from: hcb_2_quad struct in ~/dev/faad2/libfaad/codebook/hcb.h:99-106
type HCB2Quad struct {
	Bits uint8 // Total codeword length
	X    int8
	Y    int8
	V    int8
	W    int8
}

// HCB2Pair is a second-step table entry for pair codebooks 5-11.
//
// Ported from: hcb_2_pair struct in ~/dev/faad2/libfaad/codebook/hcb.h:92-97
type HCB2Pair struct {
	Bits uint8 // Total codeword length
	X    int8
	Y    int8
}
