package syntax

import (
	"errors"
	"testing"

	"github.com/llehouerou/go-heaac/internal/aactest"
	"github.com/llehouerou/go-heaac/internal/bits"
)

type pceLayout struct {
	objectType uint8 // profile field
	sfIndex    uint8
	front      []bool // isCPE per front element
	lfe        int
	cc         int
	comment    string
}

// writePCE writes a program_config_element() body; alignment is relative
// to the start of w.
func writePCE(w *aactest.Writer, p pceLayout) {
	w.Bits(0, 4) // element_instance_tag
	w.Bits(uint64(p.objectType), 2)
	w.Bits(uint64(p.sfIndex), 4)
	w.Bits(uint64(len(p.front)), 4)
	w.Bits(0, 4) // side
	w.Bits(0, 4) // back
	w.Bits(uint64(p.lfe), 2)
	w.Bits(0, 3) // assoc data
	w.Bits(uint64(p.cc), 4)
	w.Flag(false) // mono mixdown
	w.Flag(false) // stereo mixdown
	w.Flag(false) // matrix mixdown
	for i, cpe := range p.front {
		w.Flag(cpe)
		w.Bits(uint64(i), 4)
	}
	for i := 0; i < p.lfe; i++ {
		w.Bits(uint64(i), 4)
	}
	for i := 0; i < p.cc; i++ {
		w.Flag(false)
		w.Bits(uint64(i), 4)
	}
	w.Align()
	w.Bits(uint64(len(p.comment)), 8)
	for i := 0; i < len(p.comment); i++ {
		w.Bits(uint64(p.comment[i]), 8)
	}
}

func TestParsePCE(t *testing.T) {
	tests := []struct {
		name     string
		layout   pceLayout
		channels uint8
		valid    error
	}{
		{"stereo", pceLayout{objectType: 1, sfIndex: 4, front: []bool{true}, comment: "hi"}, 2, nil},
		{"mono", pceLayout{objectType: 1, sfIndex: 3, front: []bool{false}}, 1, nil},
		{"5.1", pceLayout{objectType: 1, sfIndex: 3, front: []bool{false, true, true}, lfe: 1}, 6, ErrPCEUnsupported},
		{"main profile", pceLayout{objectType: 0, sfIndex: 3, front: []bool{true}}, 2, ErrPCEUnsupported},
		{"coupling", pceLayout{objectType: 1, sfIndex: 3, front: []bool{true}, cc: 1}, 2, ErrPCEUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := aactest.NewWriter()
			writePCE(w, tt.layout)
			pce, err := ParsePCE(bits.NewReader(w.Bytes()))
			if err != nil {
				t.Fatalf("ParsePCE: %v", err)
			}
			if pce.Channels != tt.channels {
				t.Errorf("Channels = %d, want %d", pce.Channels, tt.channels)
			}
			if pce.SFIndex != tt.layout.sfIndex {
				t.Errorf("SFIndex = %d, want %d", pce.SFIndex, tt.layout.sfIndex)
			}
			if got := string(pce.CommentFieldData[:pce.CommentFieldBytes]); got != tt.layout.comment {
				t.Errorf("comment = %q, want %q", got, tt.layout.comment)
			}
			if err := pce.Validate(); !errors.Is(err, tt.valid) {
				t.Errorf("Validate() = %v, want %v", err, tt.valid)
			}
		})
	}
}

func writeADIF(w *aactest.Writer, p pceLayout) {
	for _, b := range []byte("ADIF") {
		w.Bits(uint64(b), 8)
	}
	w.Flag(false) // copyright_id_present
	w.Flag(true)  // original_copy
	w.Flag(false) // home
	w.Bits(1, 1)  // variable rate
	w.Bits(128000, 23)
	w.Bits(0, 4) // one PCE
	writePCE(w, p)
	w.Align()
}

func TestParseADIFHeader(t *testing.T) {
	w := aactest.NewWriter()
	writeADIF(w, pceLayout{objectType: 1, sfIndex: 4, front: []bool{true}})
	headerBits := w.Len()
	w.Bits(0xAB, 8)
	data := w.Bytes()

	if !IsADIF(data) {
		t.Fatal("IsADIF = false")
	}
	r := bits.NewReader(data)
	h, err := ParseADIFHeader(r)
	if err != nil {
		t.Fatalf("ParseADIFHeader: %v", err)
	}
	if h.Bitrate != 128000 || h.BitstreamType != 1 || !h.OriginalCopy {
		t.Errorf("header = %+v", h)
	}
	if h.PCE[0] == nil || h.PCE[0].Channels != 2 || h.PCE[0].SFIndex != 4 {
		t.Errorf("PCE[0] = %+v", h.PCE[0])
	}
	if got := r.GetProcessedBits(); got != headerBits {
		t.Errorf("consumed %d bits, want %d", got, headerBits)
	}
}

func TestParseADIFHeader_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		layout pceLayout
		want   error
	}{
		{"coupling channel", pceLayout{objectType: 1, sfIndex: 4, front: []bool{true}, cc: 1}, ErrPCEUnsupported},
		{"reserved rate", pceLayout{objectType: 1, sfIndex: 14, front: []bool{true}}, ErrInvalidSRIndex},
		{"too many channels", pceLayout{objectType: 1, sfIndex: 4, front: []bool{true, true}}, ErrPCEUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := aactest.NewWriter()
			writeADIF(w, tt.layout)
			if _, err := ParseADIFHeader(bits.NewReader(w.Bytes())); !errors.Is(err, tt.want) {
				t.Errorf("ParseADIFHeader() = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ParseADIFHeader(bits.NewReader([]byte("ADIX0000"))); !errors.Is(err, ErrADIFMagic) {
		t.Errorf("bad magic: %v", err)
	}
}

func TestParseASC(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *aactest.Writer)
		check func(t *testing.T, asc *AudioSpecificConfig)
	}{
		{
			name: "lc stereo 44.1k",
			write: func(w *aactest.Writer) {
				w.Bits(2, 5)
				w.Bits(4, 4)
				w.Bits(2, 4)
				w.Bits(0, 3)
			},
			check: func(t *testing.T, asc *AudioSpecificConfig) {
				if asc.ObjectType != ObjectTypeLC || asc.SampleRate != 44100 || asc.ChannelConfiguration != 2 || asc.SBRPresent {
					t.Errorf("asc = %+v", asc)
				}
			},
		},
		{
			name: "explicit sbr",
			write: func(w *aactest.Writer) {
				w.Bits(5, 5)
				w.Bits(7, 4) // 22050
				w.Bits(2, 4)
				w.Bits(4, 4) // 44100
				w.Bits(2, 5)
				w.Bits(0, 3)
			},
			check: func(t *testing.T, asc *AudioSpecificConfig) {
				if !asc.SBRPresent || asc.DownSampledSBR {
					t.Errorf("SBRPresent = %v, DownSampledSBR = %v", asc.SBRPresent, asc.DownSampledSBR)
				}
				if asc.SampleRate != 22050 || asc.ExtSampleRate != 44100 || asc.ObjectType != ObjectTypeLC {
					t.Errorf("asc = %+v", asc)
				}
			},
		},
		{
			name: "backward compatible sbr",
			write: func(w *aactest.Writer) {
				w.Bits(2, 5)
				w.Bits(6, 4) // 24000
				w.Bits(1, 4)
				w.Bits(0, 3)
				w.Bits(0x2b7, 11)
				w.Bits(5, 5)
				w.Flag(true)
				w.Bits(3, 4) // 48000
			},
			check: func(t *testing.T, asc *AudioSpecificConfig) {
				if !asc.SBRPresent || asc.ExtSampleRate != 48000 || asc.DownSampledSBR {
					t.Errorf("asc = %+v", asc)
				}
			},
		},
		{
			name: "downsampled sbr",
			write: func(w *aactest.Writer) {
				w.Bits(5, 5)
				w.Bits(4, 4)
				w.Bits(2, 4)
				w.Bits(4, 4)
				w.Bits(2, 5)
				w.Bits(0, 3)
			},
			check: func(t *testing.T, asc *AudioSpecificConfig) {
				if !asc.DownSampledSBR {
					t.Error("DownSampledSBR = false")
				}
			},
		},
		{
			name: "explicit sampling frequency",
			write: func(w *aactest.Writer) {
				w.Bits(2, 5)
				w.Bits(15, 4)
				w.Bits(44100, 24)
				w.Bits(1, 4)
				w.Bits(0, 3)
			},
			check: func(t *testing.T, asc *AudioSpecificConfig) {
				if !asc.ExplicitSRSignal || asc.SFIndex != 4 || asc.SampleRate != 44100 {
					t.Errorf("asc = %+v", asc)
				}
			},
		},
		{
			name: "pce channel layout",
			write: func(w *aactest.Writer) {
				w.Bits(2, 5)
				w.Bits(3, 4)
				w.Bits(0, 4)
				w.Bits(0, 3)
				sub := aactest.NewWriter()
				writePCE(sub, pceLayout{objectType: 1, sfIndex: 3, front: []bool{true}})
				// the PCE starts at bit 16, so its alignment matches
				w.Append(sub)
			},
			check: func(t *testing.T, asc *AudioSpecificConfig) {
				if asc.PCE == nil || asc.PCE.Channels != 2 {
					t.Errorf("PCE = %+v", asc.PCE)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := aactest.NewWriter()
			tt.write(w)
			asc, err := ParseASC(w.Bytes())
			if err != nil {
				t.Fatalf("ParseASC: %v", err)
			}
			tt.check(t, asc)
		})
	}
}

func TestParseASC_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *aactest.Writer)
		want  error
	}{
		{"main", func(w *aactest.Writer) { w.Bits(1, 5); w.Bits(4, 4); w.Bits(2, 4); w.Bits(0, 3) }, ErrASCUnsupportedObjectType},
		{"escaped object type", func(w *aactest.Writer) { w.Bits(31, 5); w.Bits(7, 6); w.Bits(4, 4); w.Bits(2, 4); w.Bits(0, 3) }, ErrASCUnsupportedObjectType},
		{"960 frame", func(w *aactest.Writer) { w.Bits(2, 5); w.Bits(4, 4); w.Bits(2, 4); w.Bits(4, 3) }, ErrASCFrameLength},
		{"reserved rate", func(w *aactest.Writer) { w.Bits(2, 5); w.Bits(13, 4); w.Bits(2, 4); w.Bits(0, 3) }, ErrInvalidSRIndex},
		{"six channels", func(w *aactest.Writer) { w.Bits(2, 5); w.Bits(4, 4); w.Bits(6, 4); w.Bits(0, 3) }, ErrInvalidChannelConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := aactest.NewWriter()
			tt.write(w)
			if _, err := ParseASC(w.Bytes()); !errors.Is(err, tt.want) {
				t.Errorf("ParseASC() = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := ParseASC([]byte{0x12}); !errors.Is(err, ErrASCTruncated) {
		t.Errorf("one byte: %v", err)
	}
}
