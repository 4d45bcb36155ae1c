//go:build ignore

// This script generates reference streams for the decoder tests.
// Run with: go run testdata/generate.go
//
// Requirements: FFmpeg in PATH. HE-AAC streams need an FFmpeg built with
// libfdk_aac and are skipped otherwise.
//
// Layout:
//
//	testdata/generated/<profile>/<rate>_<channels>_<kbps>k/<signal>.aac
//	testdata/generated/<profile>/<rate>_<channels>_<kbps>k/<signal>.wav
//
// The .wav next to each ADTS stream is FFmpeg's decode of it.
package main

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

type streamConfig struct {
	Profile    string // "aac_lc" or "aac_he"
	SampleRate int
	Channels   int
	Bitrate    int // kbit/s
}

var configs = []streamConfig{
	{"aac_lc", 44100, 1, 64},
	{"aac_lc", 44100, 2, 128},
	{"aac_lc", 48000, 2, 128},
	{"aac_lc", 22050, 1, 32},
	{"aac_lc", 16000, 1, 24},
	{"aac_he", 44100, 2, 48},
	{"aac_he", 44100, 1, 32},
	{"aac_he", 48000, 2, 64},
}

var signals = []string{"silence", "sine1k", "sweep", "noise", "impulse"}

func main() {
	if err := exec.Command("ffmpeg", "-version").Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ffmpeg not found: %v\n", err)
		os.Exit(1)
	}
	fdk := hasEncoder("libfdk_aac")

	base := filepath.Join("testdata", "generated")
	for _, cfg := range configs {
		if cfg.Profile == "aac_he" && !fdk {
			fmt.Fprintf(os.Stderr, "skipping %s %d Hz: libfdk_aac not available\n", cfg.Profile, cfg.SampleRate)
			continue
		}
		dir := filepath.Join(base, cfg.Profile, fmt.Sprintf("%d_%d_%dk", cfg.SampleRate, cfg.Channels, cfg.Bitrate))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, sig := range signals {
			if err := generate(dir, sig, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "%s/%s: %v\n", dir, sig, err)
				continue
			}
			fmt.Printf("generated %s/%s\n", dir, sig)
		}
	}
}

func generate(dir, signal string, cfg streamConfig) error {
	src := filepath.Join(dir, signal+".src.wav")
	aacPath := filepath.Join(dir, signal+".aac")
	refPath := filepath.Join(dir, signal+".wav")
	defer os.Remove(src)

	if err := writeSource(src, signal, cfg); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	encoder, profile := "aac", "aac_low"
	if cfg.Profile == "aac_he" {
		encoder, profile = "libfdk_aac", "aac_he"
	}
	if err := ffmpeg("-i", src, "-c:a", encoder, "-profile:a", profile,
		"-b:a", fmt.Sprintf("%dk", cfg.Bitrate), "-f", "adts", aacPath); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := ffmpeg("-i", aacPath, "-c:a", "pcm_s16le", refPath); err != nil {
		return fmt.Errorf("reference decode: %w", err)
	}
	return nil
}

// writeSource writes one second of signal as a 16-bit WAV.
func writeSource(path, signal string, cfg streamConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n := cfg.SampleRate
	buf := &audio.IntBuffer{
		Data:           make([]int, 0, n*cfg.Channels),
		Format:         &audio.Format{SampleRate: cfg.SampleRate, NumChannels: cfg.Channels},
		SourceBitDepth: 16,
	}
	for i := 0; i < n; i++ {
		for ch := 0; ch < cfg.Channels; ch++ {
			v := sample(signal, i, ch, cfg)
			if ch == 1 {
				v *= 0.95
			}
			buf.Data = append(buf.Data, int(math.Max(-1, math.Min(1, v))*32767))
		}
	}

	enc := wav.NewEncoder(f, cfg.SampleRate, 16, cfg.Channels, 1)
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

func sample(signal string, i, ch int, cfg streamConfig) float64 {
	t := float64(i) / float64(cfg.SampleRate)
	switch signal {
	case "sine1k":
		return 0.8 * math.Sin(2*math.Pi*1000*t)
	case "sweep":
		top := float64(cfg.SampleRate) / 4
		freq := 20 * math.Pow(top/20, float64(i)/float64(cfg.SampleRate))
		return 0.7 * math.Sin(2*math.Pi*freq*t)
	case "noise":
		seed := uint32(i*cfg.Channels+ch+12345)*1103515245 + 12345
		return float64(int32(seed)) / math.MaxInt32 * 0.5
	case "impulse":
		if i%(cfg.SampleRate/10) == 0 {
			return 0.9
		}
	}
	return 0
}

func ffmpeg(args ...string) error {
	cmd := exec.Command("ffmpeg", append([]string{"-y", "-loglevel", "error"}, args...)...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func hasEncoder(name string) bool {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").Output()
	return err == nil && strings.Contains(string(out), name)
}
