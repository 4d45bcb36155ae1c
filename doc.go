// Package aac decodes AAC-LC and HE-AAC (SBR) streams to 16-bit PCM using
// fixed-point arithmetic only.
//
// # Basic Usage
//
//	dec := aac.NewDecoder()
//	defer dec.Close()
//
//	info, err := dec.Init(data)
//	if err != nil {
//	    return err
//	}
//	data = data[info.BytesRead:]
//
//	for len(data) > 0 {
//	    samples, fi, err := dec.Decode(data)
//	    switch {
//	    case aac.IsNeedMoreData(err):
//	        // append more input and retry at the same position
//	    case aac.IsRecoverable(err):
//	        data = data[fi.BytesConsumed:]
//	        continue
//	    case err != nil:
//	        return err
//	    }
//	    data = data[fi.BytesConsumed:]
//	    // samples are interleaved at fi.SampleRate, fi.Channels
//	}
//
// # Stream Formats
//
// Init recognizes ADIF and ADTS headers. Anything else is a raw stream
// whose sample rate and channel count come from Config, or from an MPEG-4
// AudioSpecificConfig passed to InitASC.
//
// # SBR
//
// Streams with a core rate of 24 kHz or less are decoded at twice the
// core rate from the first frame, since SBR is usually signalled only
// implicitly. Above that rate the output switches to twice the rate when
// the first SBR payload is found. FrameInfo.SBR tells whether a frame was
// actually upsampled. Parametric stereo and downsampled SBR are not
// supported.
//
// # Errors
//
// Every error returned by a Decoder wraps an Error code. KindOf groups
// codes into underflow, fatal, frame and SBR errors.
//
// # Thread Safety
//
// A Decoder is not safe for concurrent use. Use one per goroutine.
package aac
