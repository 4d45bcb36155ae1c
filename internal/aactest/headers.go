package aactest

// PCELayout describes a program_config_element() with front and LFE
// elements only.
type PCELayout struct {
	ObjectType uint8 // profile field, object type - 1
	SFIndex    uint8
	Front      []bool // isCPE per front element
	LFE        int
	CC         int
	Comment    string
}

// PCE writes a program_config_element() body. Alignment is relative to
// the start of w.
func (w *Writer) PCE(p PCELayout) {
	w.Bits(0, 4) // element_instance_tag
	w.Bits(uint64(p.ObjectType), 2)
	w.Bits(uint64(p.SFIndex), 4)
	w.Bits(uint64(len(p.Front)), 4)
	w.Bits(0, 4) // side
	w.Bits(0, 4) // back
	w.Bits(uint64(p.LFE), 2)
	w.Bits(0, 3) // assoc data
	w.Bits(uint64(p.CC), 4)
	w.Flag(false) // mono mixdown
	w.Flag(false) // stereo mixdown
	w.Flag(false) // matrix mixdown
	for i, cpe := range p.Front {
		w.Flag(cpe)
		w.Bits(uint64(i), 4)
	}
	for i := 0; i < p.LFE; i++ {
		w.Bits(uint64(i), 4)
	}
	for i := 0; i < p.CC; i++ {
		w.Flag(false)
		w.Bits(uint64(i), 4)
	}
	w.Align()
	w.Bits(uint64(len(p.Comment)), 8)
	for i := 0; i < len(p.Comment); i++ {
		w.Bits(uint64(p.Comment[i]), 8)
	}
}

// ADIF returns a variable rate adif_header() with a single program
// configuration.
func ADIF(bitrate uint32, p PCELayout) []byte {
	w := NewWriter()
	for _, b := range []byte("ADIF") {
		w.Bits(uint64(b), 8)
	}
	w.Flag(false) // copyright_id_present
	w.Flag(true)  // original_copy
	w.Flag(false) // home
	w.Bits(1, 1)  // variable rate
	w.Bits(uint64(bitrate), 23)
	w.Bits(0, 4) // one PCE
	w.PCE(p)
	w.Align()
	return w.Bytes()
}

// ASC returns an AudioSpecificConfig for an LC core. A non-negative
// extIndex adds explicit SBR signalling (object type 5) with that
// extension sampling frequency index.
func ASC(sfIndex, channels uint8, extIndex int) []byte {
	w := NewWriter()
	if extIndex >= 0 {
		w.Bits(5, 5)
		w.Bits(uint64(sfIndex), 4)
		w.Bits(uint64(channels), 4)
		w.Bits(uint64(extIndex), 4)
		w.Bits(2, 5)
	} else {
		w.Bits(2, 5)
		w.Bits(uint64(sfIndex), 4)
		w.Bits(uint64(channels), 4)
	}
	w.Bits(0, 3) // frame_length_flag, depends_on_core_coder, extension_flag
	return w.Bytes()
}
