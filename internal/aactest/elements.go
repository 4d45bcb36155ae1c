package aactest

import (
	"github.com/llehouerou/go-heaac/internal/huffman"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// Channel describes the individual_channel_stream of one channel. Every
// transmitted band uses codebook 11 with scalefactor global_gain, or
// codebook 0 when Quant is nil.
type Channel struct {
	GlobalGain  uint8
	Short       bool // eight short windows, one window per group
	WindowShape uint8
	MaxSFB      uint8
	// Quant holds quantized lines in bitstream order: window after window
	// for short blocks, 128 lines each.
	Quant []int16
}

func (c *Channel) layout() (groups, winLen int) {
	if c.Short {
		return 8, tables.ShortFrameLength
	}
	return 1, tables.FrameLength
}

func (c *Channel) codebook() huffman.Codebook {
	if c.Quant == nil {
		return huffman.ZeroHCB
	}
	return huffman.EscHCB
}

// ICSInfo writes ics_info().
func (w *Writer) ICSInfo(c Channel) {
	w.Bits(0, 1)
	if c.Short {
		w.Bits(2, 2)
		w.Bits(uint64(c.WindowShape), 1)
		w.Bits(uint64(c.MaxSFB), 4)
		w.Bits(0, 7)
		return
	}
	w.Bits(0, 2)
	w.Bits(uint64(c.WindowShape), 1)
	w.Bits(uint64(c.MaxSFB), 6)
	w.Bits(0, 1)
}

// Sections writes section_data() with one section per group.
func (w *Writer) Sections(c Channel) {
	groups, _ := c.layout()
	sectBits, esc := uint8(5), uint8(31)
	if c.Short {
		sectBits, esc = 3, 7
	}
	for g := 0; g < groups; g++ {
		if c.MaxSFB == 0 {
			continue
		}
		w.Bits(uint64(c.codebook()), 4)
		n := c.MaxSFB
		for n >= esc {
			w.Bits(uint64(esc), sectBits)
			n -= esc
		}
		w.Bits(uint64(n), sectBits)
	}
}

// ICS writes individual_channel_stream(). withInfo is false inside a
// channel pair with a common window.
func (w *Writer) ICS(srIndex uint8, c Channel, withInfo bool) {
	w.Bits(uint64(c.GlobalGain), 8)
	if withInfo {
		w.ICSInfo(c)
	}
	w.Sections(c)

	groups, winLen := c.layout()
	cb := c.codebook()
	if cb != huffman.ZeroHCB {
		for i := 0; i < groups*int(c.MaxSFB); i++ {
			w.ScaleFactor(0)
		}
	}

	w.Flag(false) // pulse_data_present
	w.Flag(false) // tns_data_present
	w.Flag(false) // gain_control_data_present

	if cb == huffman.ZeroHCB {
		return
	}
	offsets, err := tables.SWBOffsets(srIndex, c.Short)
	if err != nil {
		panic(err)
	}
	top := int(offsets[c.MaxSFB])
	for g := 0; g < groups; g++ {
		for k := 0; k < top; k += 2 {
			w.Spectral(cb, c.line(g*winLen+k), c.line(g*winLen+k+1))
		}
	}
}

func (c *Channel) line(i int) int16 {
	if i < len(c.Quant) {
		return c.Quant[i]
	}
	return 0
}

// SCE writes a single_channel_element().
func (w *Writer) SCE(tag, srIndex uint8, c Channel) {
	w.Bits(0, 3)
	w.Bits(uint64(tag), 4)
	w.ICS(srIndex, c, true)
}

// LFE writes an lfe_channel_element().
func (w *Writer) LFE(tag, srIndex uint8, c Channel) {
	w.Bits(3, 3)
	w.Bits(uint64(tag), 4)
	w.ICS(srIndex, c, true)
}

// CPE writes a channel_pair_element() with a common window taken from l.
// ms is ms_mask_present; for 1 every band's flag is set.
func (w *Writer) CPE(tag, srIndex uint8, l, r Channel, ms uint8) {
	w.Bits(1, 3)
	w.Bits(uint64(tag), 4)
	w.Flag(true)
	w.ICSInfo(l)
	w.Bits(uint64(ms), 2)
	if ms == 1 {
		groups, _ := l.layout()
		for i := 0; i < groups*int(l.MaxSFB); i++ {
			w.Flag(true)
		}
	}
	r.Short, r.MaxSFB, r.WindowShape = l.Short, l.MaxSFB, l.WindowShape
	w.ICS(srIndex, l, false)
	w.ICS(srIndex, r, false)
}

// Fill writes a fill_element() carrying one extension payload of type ext
// whose body is the content of body.
func (w *Writer) Fill(ext uint8, body *Writer) {
	total := 4 + body.Len()
	count := (total + 7) / 8
	w.Bits(6, 3)
	if count >= 15 {
		w.Bits(15, 4)
		w.Bits(uint64(count-14), 8)
	} else {
		w.Bits(uint64(count), 4)
	}
	w.Bits(uint64(ext), 4)
	w.Append(body)
	for pad := count*8 - total; pad > 0; pad -= min(pad, 32) {
		w.Bits(0, uint8(min(pad, 32)))
	}
}

// DSE writes a data_stream_element() with the given bytes.
func (w *Writer) DSE(tag uint8, data []byte, aligned bool) {
	w.Bits(4, 3)
	w.Bits(uint64(tag), 4)
	w.Flag(aligned)
	n := len(data)
	if n >= 255 {
		w.Bits(255, 8)
		w.Bits(uint64(n-255), 8)
	} else {
		w.Bits(uint64(n), 8)
	}
	if aligned {
		w.Align()
	}
	for _, b := range data {
		w.Bits(uint64(b), 8)
	}
}

// End writes ID_END and byte aligns.
func (w *Writer) End() {
	w.Bits(7, 3)
	w.Align()
}

// SilentBlock returns a raw_data_block() of silent long-window channels:
// one SCE for mono, one CPE for stereo.
func SilentBlock(srIndex uint8, channels int) []byte {
	w := NewWriter()
	c := Channel{GlobalGain: 100}
	if channels == 1 {
		w.SCE(0, srIndex, c)
	} else {
		w.CPE(0, srIndex, c, c, 0)
	}
	w.End()
	return w.Bytes()
}
