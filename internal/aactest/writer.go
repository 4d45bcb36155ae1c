// Package aactest builds AAC-LC bitstreams for tests: a bit writer that
// knows the Huffman books, element writers for silent or sparse channels,
// and ADTS framing.
package aactest

import (
	"bytes"

	"github.com/icza/bitio"

	"github.com/llehouerou/go-heaac/internal/huffman"
)

// Writer accumulates an MSB-first bitstream and counts the bits written.
type Writer struct {
	buf bytes.Buffer
	bw  *bitio.Writer
	n   int
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	w := &Writer{}
	w.bw = bitio.NewWriter(&w.buf)
	return w
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int {
	return w.n
}

// Bits writes the n low bits of v.
func (w *Writer) Bits(v uint64, n uint8) {
	if n == 0 {
		return
	}
	w.bw.TryWriteBits(v, n)
	w.n += int(n)
}

// Flag writes one bit.
func (w *Writer) Flag(b bool) {
	w.bw.TryWriteBool(b)
	w.n++
}

// Align pads with zero bits to the next byte boundary.
func (w *Writer) Align() {
	if r := w.n % 8; r != 0 {
		w.Bits(0, uint8(8-r))
	}
}

// Append copies the bits of src into w.
func (w *Writer) Append(src *Writer) {
	data, n := src.Bytes(), src.Len()
	for i := 0; n > 0; i++ {
		k := min(n, 8)
		w.Bits(uint64(data[i]>>(8-k)), uint8(k))
		n -= k
	}
}

// Bytes flushes the writer, padding the last byte with zeros, and returns
// the stream. Writing after Bytes is not supported.
func (w *Writer) Bytes() []byte {
	if err := w.bw.Close(); err != nil {
		panic(err)
	}
	if w.bw.TryError != nil {
		panic(w.bw.TryError)
	}
	return w.buf.Bytes()
}

// ScaleFactor writes a scalefactor delta codeword.
func (w *Writer) ScaleFactor(delta int) {
	code, n := huffman.ScaleFactorCodeword(delta)
	w.Bits(uint64(code), n)
}

// Spectral writes one codeword of cb for vals, followed by sign bits and
// escape sequences where the book needs them.
func (w *Writer) Spectral(cb huffman.Codebook, vals ...int16) {
	code, n := huffman.SpectralCodeword(cb, vals)
	w.Bits(uint64(code), n)
	if !cb.Unsigned() {
		return
	}
	for _, v := range vals {
		if v != 0 {
			w.Flag(v < 0)
		}
	}
	if cb != huffman.EscHCB {
		return
	}
	for _, v := range vals {
		if a := abs(int(v)); a >= 16 {
			w.Escape(a)
		}
	}
}

// Escape writes the escape sequence of magnitude v (16..8191).
func (w *Writer) Escape(v int) {
	n := uint8(4)
	for v >= 1<<(n+1) {
		n++
	}
	for i := uint8(4); i < n; i++ {
		w.Flag(true)
	}
	w.Flag(false)
	w.Bits(uint64(v-1<<n), n)
}

// SBR writes an SBR Huffman codeword.
func (w *Writer) SBR(t huffman.SBRTable, v int) {
	code, n := huffman.SBRCodeword(t, v)
	w.Bits(uint64(code), n)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
