package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/cobra"

	"github.com/llehouerou/go-heaac"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// decodeFlags holds the decoder options shared by decode and info.
type decodeFlags struct {
	noSBR       bool
	mono        bool
	oldADTS     bool
	rawRate     uint32
	rawChannels uint8
	asc         string
	drcCut      uint8
	drcBoost    uint8
}

func (f *decodeFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVar(&f.noSBR, "no-sbr", false, "Ignore SBR and decode the core at its own rate")
	fl.BoolVar(&f.mono, "mono", false, "Downmix stereo to mono")
	fl.BoolVar(&f.oldADTS, "old-adts", false, "Read the emphasis field of early ADTS encoders")
	fl.Uint32Var(&f.rawRate, "raw-rate", 44100, "Core sample rate of headerless input")
	fl.Uint8Var(&f.rawChannels, "raw-channels", 2, "Channels of headerless input")
	fl.StringVar(&f.asc, "asc", "", "Hex AudioSpecificConfig describing headerless input")
	fl.Uint8Var(&f.drcCut, "drc-cut", 0, "Dynamic range compression cut factor, 0-128")
	fl.Uint8Var(&f.drcBoost, "drc-boost", 0, "Dynamic range compression boost factor, 0-128")
}

func (f *decodeFlags) options() (streamOptions, error) {
	idx, ok := tables.ExactSRIndex(f.rawRate)
	if !ok {
		return streamOptions{}, fmt.Errorf("unsupported raw sample rate %d", f.rawRate)
	}
	opts := streamOptions{
		config: aac.Config{
			RawSampleRateIndex: idx,
			RawChannels:        f.rawChannels,
			DisableSBR:         f.noSBR,
			DownmixMono:        f.mono,
			DRCCut:             f.drcCut,
			DRCBoost:           f.drcBoost,
			UseOldADTSFormat:   f.oldADTS,
		},
	}
	if f.asc != "" {
		asc, err := hex.DecodeString(f.asc)
		if err != nil {
			return streamOptions{}, fmt.Errorf("invalid --asc: %w", err)
		}
		opts.asc = asc
	}
	return opts, nil
}

var decodeOpts decodeFlags

var decodeCmd = &cobra.Command{
	Use:   "decode <input-file> [output.wav]",
	Short: "Decode an AAC stream to a 16-bit WAV file",
	Long:  "Decode an ADTS, ADIF or raw AAC stream to a 16-bit WAV file. Raw streams are described by --raw-rate and --raw-channels, or by --asc. The output defaults to the input name with a .wav extension.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := decodeOpts.options()
		if err != nil {
			return err
		}
		output := wavName(args[0])
		if len(args) == 2 {
			output = args[1]
		}
		st, err := decodeFile(args[0], output, opts)
		if err != nil {
			return err
		}
		logger.Info(output,
			"frames", st.frames,
			"rate", st.sampleRate,
			"channels", st.channels,
			"duration", fmt.Sprintf("%.2fs", st.duration()),
			"dropped", st.dropped)
		return nil
	},
}

func init() {
	decodeOpts.register(decodeCmd)
	rootCmd.AddCommand(decodeCmd)
}

// wavName replaces the extension of input with .wav.
func wavName(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".wav"
}

// wavSink writes decoded frames to a WAV encoder created on the first
// frame.
type wavSink struct {
	out  *os.File
	enc  *wav.Encoder
	buf  audio.IntBuffer
	rate uint32
}

func (s *wavSink) write(samples []int16, fi *aac.FrameInfo) error {
	if s.enc == nil {
		s.rate = fi.SampleRate
		s.enc = wav.NewEncoder(s.out, int(fi.SampleRate), 16, int(fi.Channels), 1)
		s.buf.Format = &audio.Format{SampleRate: int(fi.SampleRate), NumChannels: int(fi.Channels)}
		s.buf.SourceBitDepth = 16
	}
	if int(fi.Channels) != s.buf.Format.NumChannels {
		return fmt.Errorf("channel count changed from %d to %d", s.buf.Format.NumChannels, fi.Channels)
	}
	if fi.SampleRate != s.rate {
		logger.Warn("sample rate changed, the WAV header keeps the first rate", "rate", fi.SampleRate, "wav_rate", s.rate)
		s.rate = fi.SampleRate
	}

	s.buf.Data = s.buf.Data[:0]
	for _, v := range samples {
		s.buf.Data = append(s.buf.Data, int(v))
	}
	return s.enc.Write(&s.buf)
}

func (s *wavSink) close() error {
	if s.enc == nil {
		return nil
	}
	return s.enc.Close()
}

// decodeFile decodes input into a WAV file at output.
func decodeFile(input, output string, opts streamOptions) (*streamStats, error) {
	in, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	out, err := os.Create(output)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	sink := &wavSink{out: out}
	st, err := decodeStream(in, opts, sink.write)
	if cerr := sink.close(); err == nil {
		err = cerr
	}
	if err != nil {
		return st, err
	}
	if st.frames == 0 {
		return st, fmt.Errorf("%s: no audio decoded", input)
	}
	return st, out.Close()
}
