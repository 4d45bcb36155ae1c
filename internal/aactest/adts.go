package aactest

// ADTSConfig selects the ADTS header fields of generated frames.
type ADTSConfig struct {
	SFIndex   uint8
	Channels  uint8
	Protected bool
	// ObjectType is written as the profile field (object type - 1); LC
	// when zero.
	ObjectType uint8
}

// ADTS wraps one to four raw data blocks into an ADTS frame. Protected
// frames carry raw_data_block_position words and zero CRC words, one after
// each block when there are several.
func ADTS(cfg ADTSConfig, blocks ...[]byte) []byte {
	n := len(blocks)
	size := 7
	if cfg.Protected {
		size += 2 + 2*(n-1)
		if n > 1 {
			size += 2 * n
		}
	}
	for _, b := range blocks {
		size += len(b)
	}
	profile := cfg.ObjectType - 1
	if cfg.ObjectType == 0 {
		profile = 1
	}

	w := NewWriter()
	w.Bits(0xFFF, 12)
	w.Bits(1, 1) // MPEG-2
	w.Bits(0, 2)
	w.Flag(!cfg.Protected)
	w.Bits(uint64(profile), 2)
	w.Bits(uint64(cfg.SFIndex), 4)
	w.Bits(0, 1)
	w.Bits(uint64(cfg.Channels), 3)
	w.Bits(0, 4) // original, home, copyright bits
	w.Bits(uint64(size), 13)
	w.Bits(0x7FF, 11)
	w.Bits(uint64(n-1), 2)

	if cfg.Protected {
		pos := 0
		for i := 1; i < n; i++ {
			pos += len(blocks[i-1]) + 2
			w.Bits(uint64(pos), 16)
		}
		w.Bits(0, 16)
	}
	for _, b := range blocks {
		for _, x := range b {
			w.Bits(uint64(x), 8)
		}
		if cfg.Protected && n > 1 {
			w.Bits(0, 16)
		}
	}
	return w.Bytes()
}

// SilentStream returns frames ADTS frames of silent raw blocks.
func SilentStream(cfg ADTSConfig, frames int) []byte {
	var out []byte
	block := SilentBlock(cfg.SFIndex, int(cfg.Channels))
	for i := 0; i < frames; i++ {
		out = append(out, ADTS(cfg, block)...)
	}
	return out
}
