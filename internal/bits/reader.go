// Package bits implements the big-endian bit cursor shared by every AAC parser.
package bits

// Reader reads bits MSB-first from a byte buffer.
//
// Two 32-bit words are cached: bufa holds the bits being consumed and bufb
// the look-ahead word. Reading past the end of the buffer yields zero bits;
// callers detect exhaustion with Overrun or BitsRemaining instead of failing
// mid-element.
//
// Ported from: bitfile struct in ~/dev/faad2/libfaad/bits.h:48-60
type Reader struct {
	buffer   []byte
	bufa     uint32
	bufb     uint32
	bitsLeft uint32 // unread bits in bufa (1-32)
	pos      int    // next byte to load into bufb
}

// NewReader creates a Reader positioned at the first bit of data.
//
// Ported from: faad_initbits() in ~/dev/faad2/libfaad/bits.c:55-99
func NewReader(data []byte) *Reader {
	r := &Reader{}
	r.Reset(data)
	return r
}

// Reset repositions the reader at the start of data, reusing the Reader.
func (r *Reader) Reset(data []byte) {
	r.buffer = data
	r.bufa = r.loadWord(0)
	r.bufb = r.loadWord(4)
	r.pos = 8
	r.bitsLeft = 32
}

// loadWord loads up to 4 bytes at offset as a big-endian word, zero-padded.
//
// Ported from: getdword() in bits.h:96-100 and getdword_n() in bits.c:38-52
func (r *Reader) loadWord(offset int) uint32 {
	if offset >= len(r.buffer) {
		return 0
	}
	if len(r.buffer)-offset >= 4 {
		b := r.buffer[offset : offset+4]
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}
	var w uint32
	for i, shift := offset, 24; i < len(r.buffer); i, shift = i+1, shift-8 {
		w |= uint32(r.buffer[i]) << uint(shift)
	}
	return w
}

// Len returns the size of the underlying buffer in bytes.
func (r *Reader) Len() int {
	return len(r.buffer)
}

// ShowBits returns the next n bits (0-32) without consuming them.
//
// Ported from: faad_showbits() in ~/dev/faad2/libfaad/bits.h:102-113
func (r *Reader) ShowBits(n uint) uint32 {
	if n == 0 {
		return 0
	}
	if n <= uint(r.bitsLeft) {
		return (r.bufa << (32 - r.bitsLeft)) >> (32 - n)
	}
	fromB := n - uint(r.bitsLeft)
	var hi uint32
	if r.bitsLeft > 0 {
		hi = (r.bufa & (1<<r.bitsLeft - 1)) << fromB
	}
	return hi | r.bufb>>(32-fromB)
}

// FlushBits discards n bits (0-32).
//
// Ported from: faad_flushbits() in ~/dev/faad2/libfaad/bits.h:115-127
func (r *Reader) FlushBits(n uint) {
	if n < uint(r.bitsLeft) {
		r.bitsLeft -= uint32(n)
		return
	}
	r.bufa = r.bufb
	r.bufb = r.loadWord(r.pos)
	r.pos += 4
	r.bitsLeft += 32 - uint32(n)
}

// GetBits reads n bits (0-32), MSB first, zero-extended.
//
// Ported from: faad_getbits() in ~/dev/faad2/libfaad/bits.h:130-146
func (r *Reader) GetBits(n uint) uint32 {
	if n == 0 {
		return 0
	}
	v := r.ShowBits(n)
	r.FlushBits(n)
	return v
}

// Get1Bit reads a single bit.
//
// Ported from: faad_get1bit() in ~/dev/faad2/libfaad/bits.h:148-167
func (r *Reader) Get1Bit() uint8 {
	if r.bitsLeft > 1 {
		r.bitsLeft--
		return uint8(r.bufa>>r.bitsLeft) & 1
	}
	return uint8(r.GetBits(1))
}

// Get1Flag reads a single bit as a boolean.
func (r *Reader) Get1Flag() bool {
	return r.Get1Bit() != 0
}

// ByteAlign skips to the next byte boundary and returns the number of bits skipped.
func (r *Reader) ByteAlign() uint {
	rem := uint(r.GetProcessedBits() & 7)
	if rem == 0 {
		return 0
	}
	r.FlushBits(8 - rem)
	return 8 - rem
}

// GetProcessedBits returns the number of bits consumed since the start.
func (r *Reader) GetProcessedBits() int {
	return (r.pos-8)*8 + int(32-r.bitsLeft)
}

// BitsRemaining returns the unread bits inside the buffer. It is negative
// once the reader has run past the end.
func (r *Reader) BitsRemaining() int {
	return len(r.buffer)*8 - r.GetProcessedBits()
}

// Overrun reports whether more bits were consumed than the buffer holds.
func (r *Reader) Overrun() bool {
	return r.BitsRemaining() < 0
}

// Error is kept for parsers that poll the reader after an element.
func (r *Reader) Error() bool {
	return r.Overrun()
}

// SkipBits discards an arbitrary number of bits.
func (r *Reader) SkipBits(n int) {
	for n > 32 {
		r.FlushBits(32)
		n -= 32
	}
	if n > 0 {
		r.FlushBits(uint(n))
	}
}

// ResetBits repositions the reader at an absolute bit offset.
func (r *Reader) ResetBits(bit int) {
	if bit < 0 {
		bit = 0
	}
	word := bit / 32
	r.bufa = r.loadWord(word * 4)
	r.bufb = r.loadWord(word*4 + 4)
	r.pos = word*4 + 8
	r.bitsLeft = 32 - uint32(bit%32)
}

// GetBitBuffer reads n bits into a new byte slice, left-aligned.
func (r *Reader) GetBitBuffer(n int) []byte {
	out := make([]byte, (n+7)/8)
	i := 0
	for ; n >= 8; n -= 8 {
		out[i] = byte(r.GetBits(8))
		i++
	}
	if n > 0 {
		out[i] = byte(r.GetBits(uint(n)) << (8 - uint(n)))
	}
	return out
}
