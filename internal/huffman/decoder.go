package huffman

import (
	"errors"

	"github.com/llehouerou/go-heaac/internal/bits"
)

var (
	// ErrEscapeSequence indicates a malformed escape sequence in spectral data.
	ErrEscapeSequence = errors.New("huffman: invalid escape sequence")

	// ErrInvalidCodebook indicates spectral data requested for a codebook
	// that carries none.
	ErrInvalidCodebook = errors.New("huffman: invalid spectral codebook")
)

// maxEscapeBits bounds the escape word: 2^13 - 1 = 8191 is the largest
// quantized magnitude AAC can carry.
const maxEscapeBits = 12

// ScaleFactor decodes a scalefactor delta in the range [-60, 60].
//
// Ported from: huffman_scale_factor() in ~/dev/faad2/libfaad/huffman.c:60-72
func ScaleFactor(r *bits.Reader) int8 {
	return int8(scaleFactorTree.decode(r) - 60)
}

// SBR decodes one SBR envelope or noise floor delta with table t.
func SBR(r *bits.Reader, t SBRTable) int {
	return sbrTrees[t].decode(r) - sbrCodes[t].offset
}

// decode walks the tree. The books are complete prefix codes, so every
// bit pattern reaches a leaf.
func (t tree) decode(r *bits.Reader) int {
	node := 0
	for {
		next := t[node][r.Get1Bit()]
		if next < 0 {
			return int(-next - 1)
		}
		if next == 0 {
			return 0
		}
		node = int(next)
	}
}

// SpectralData decodes one codeword of codebook cb into sp, which must hold
// cb.Width() values, then applies sign bits and escape sequences.
func SpectralData(cb Codebook, r *bits.Reader, sp []int16) error {
	if !cb.IsSpectral() {
		return ErrInvalidCodebook
	}
	decodeCodeword(cb, r, sp)
	if !cb.unsigned() {
		return nil
	}
	signBits(r, sp[:cb.Width()])
	if cb == EscHCB {
		if err := getEscape(r, &sp[0]); err != nil {
			return err
		}
		if err := getEscape(r, &sp[1]); err != nil {
			return err
		}
	}
	return nil
}

// decodeCodeword performs the two-step lookup and stores the raw
// (unsigned books: magnitude) values.
func decodeCodeword(cb Codebook, r *bits.Reader, sp []int16) {
	b := spectralBooks[cb]
	cw := r.ShowBits(uint(b.rootBits))
	e := b.root[cw]
	offset := int(e.Offset)

	length := func(off int) uint8 {
		if b.quads != nil {
			return b.quads[off].Bits
		}
		return b.pairs[off].Bits
	}

	if e.ExtraBits != 0 {
		r.FlushBits(uint(b.rootBits))
		offset += int(r.ShowBits(uint(e.ExtraBits)))
		r.FlushBits(uint(length(offset) - b.rootBits))
	} else {
		r.FlushBits(uint(length(offset)))
	}

	if b.quads != nil {
		q := b.quads[offset]
		sp[0], sp[1], sp[2], sp[3] = int16(q.X), int16(q.Y), int16(q.V), int16(q.W)
		return
	}
	p := b.pairs[offset]
	sp[0], sp[1] = int16(p.X), int16(p.Y)
}

// signBits reads one sign bit per non-zero value; a set bit negates it.
//
// Ported from: huffman_sign_bits() in ~/dev/faad2/libfaad/huffman.c:93-108
func signBits(r *bits.Reader, sp []int16) {
	for i := range sp {
		if sp[i] != 0 && r.Get1Bit() != 0 {
			sp[i] = -sp[i]
		}
	}
}

// getEscape replaces a value of ±16 with its escape sequence: N ones and a
// zero, then an (N+4)-bit word w, giving 2^(N+4) + w.
//
// Ported from: huffman_getescape() in ~/dev/faad2/libfaad/huffman.c:110-148
func getEscape(r *bits.Reader, sp *int16) error {
	x := *sp
	if x != 16 && x != -16 {
		return nil
	}

	var i uint
	for i = 4; i <= maxEscapeBits; i++ {
		if r.Get1Bit() == 0 {
			break
		}
	}
	if i > maxEscapeBits {
		return ErrEscapeSequence
	}

	j := int16(r.GetBits(i)) | int16(1)<<i
	if x < 0 {
		j = -j
	}
	*sp = j
	return nil
}
