package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/llehouerou/go-heaac"
)

// readChunk is how much input is read at a time. It is larger than the
// biggest ADTS frame.
const readChunk = 16 << 10

// streamOptions selects how the input is interpreted.
type streamOptions struct {
	config aac.Config
	asc    []byte // AudioSpecificConfig for raw input, nil to detect
}

// streamStats summarizes a decoded stream.
type streamStats struct {
	info       aac.Info
	frames     int
	samples    uint64 // per channel, at the output rate
	sampleRate uint32
	channels   uint8
	profile    aac.ObjectType
	bitrate    uint32
	sbrFrames  int
	tns, pns   bool
	dropped    int
	truncated  bool
}

// frameSink receives the PCM of every decoded access unit.
type frameSink func(samples []int16, fi *aac.FrameInfo) error

// feeder buffers the input so that every Decode call sees at least one
// whole frame while input remains.
type feeder struct {
	r   io.Reader
	buf []byte
	eof bool
}

func (f *feeder) fill(want int) error {
	for !f.eof && len(f.buf) < want {
		if cap(f.buf)-len(f.buf) < readChunk {
			grown := make([]byte, len(f.buf), len(f.buf)+2*readChunk)
			copy(grown, f.buf)
			f.buf = grown
		}
		n, err := f.r.Read(f.buf[len(f.buf):cap(f.buf)])
		f.buf = f.buf[:len(f.buf)+n]
		if errors.Is(err, io.EOF) {
			f.eof = true
		} else if err != nil {
			return err
		}
	}
	return nil
}

func (f *feeder) skip(n int) {
	f.buf = f.buf[n:]
}

// decodeStream decodes r until the input ends, passing every frame to
// sink. Corrupt frames are dropped and counted.
func decodeStream(r io.Reader, opts streamOptions, sink frameSink) (*streamStats, error) {
	dec := aac.NewDecoder()
	defer dec.Close()
	cfg := opts.config
	cfg.Logger = decoderLogger()
	dec.SetConfiguration(cfg)

	f := &feeder{r: r}
	if err := f.fill(readChunk); err != nil {
		return nil, err
	}

	var (
		info aac.Info
		err  error
	)
	if opts.asc != nil {
		info, err = dec.InitASC(opts.asc)
	} else {
		info, err = dec.Init(f.buf)
	}
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	f.skip(int(info.BytesRead))
	logger.Debug("stream", "format", info.HeaderType, "rate", info.SampleRate, "channels", info.Channels, "sbr", info.SBR)

	st := &streamStats{info: info}
	for {
		if err := f.fill(readChunk); err != nil {
			return st, err
		}
		if len(f.buf) == 0 {
			break
		}

		samples, fi, err := dec.Decode(f.buf)
		switch {
		case err == nil:
		case aac.IsNeedMoreData(err) && !f.eof:
			if err := f.fill(len(f.buf) + readChunk); err != nil {
				return st, err
			}
			continue
		case aac.IsNeedMoreData(err):
			logger.Warn("input ends inside a frame", "bytes", len(f.buf))
			st.truncated = true
			return st.finish(dec), nil
		case errors.Is(err, aac.ErrSyncwordNotFound):
			logger.Warn("lost sync, skipping", "bytes", aac.MinStreamSize)
			f.skip(aac.MinStreamSize)
			st.dropped++
			continue
		case aac.IsRecoverable(err):
			logger.Warn("dropping corrupt frame", "frame", st.frames+st.dropped, "err", err)
			f.skip(resyncOffset(f.buf, fi))
			st.dropped++
			continue
		default:
			return st, err
		}

		f.skip(int(fi.BytesConsumed))
		if fi.Samples == 0 {
			continue
		}
		st.frames++
		st.samples += uint64(fi.Samples) / uint64(fi.Channels)
		st.sampleRate, st.channels = fi.SampleRate, fi.Channels
		if fi.SBR == aac.SBRUpsampled {
			st.sbrFrames++
		}
		if err := sink(samples, fi); err != nil {
			return st, err
		}
	}
	return st.finish(dec), nil
}

// resyncOffset returns how far to skip after a frame error: past the
// frame when its size is known, otherwise to the next sync word.
func resyncOffset(buf []byte, fi *aac.FrameInfo) int {
	if fi != nil && fi.BytesConsumed > 0 {
		return int(fi.BytesConsumed)
	}
	if off := aac.FindSyncWord(buf[1:]); off >= 0 {
		return off + 1
	}
	return len(buf)
}

func (st *streamStats) finish(dec *aac.Decoder) *streamStats {
	st.profile = dec.Profile()
	st.bitrate = dec.Bitrate()
	st.tns, st.pns = dec.TNSUsed(), dec.PNSUsed()
	return st
}

// duration returns the decoded length in seconds.
func (st *streamStats) duration() float64 {
	if st.sampleRate == 0 {
		return 0
	}
	return float64(st.samples) / float64(st.sampleRate)
}
