package sbr

import (
	"math"
	"testing"
)

// fitSine returns the amplitude of the sinusoid of frequency f (cycles per
// sample) that best fits y, and the rms of the residual.
func fitSine(y []int32, f float64) (amp, residual float64) {
	var sss, scc, ssc, sys, syc float64
	for m, v := range y {
		s, c := math.Sin(2*math.Pi*f*float64(m)), math.Cos(2*math.Pi*f*float64(m))
		sss += s * s
		scc += c * c
		ssc += s * c
		sys += float64(v) * s
		syc += float64(v) * c
	}
	det := sss*scc - ssc*ssc
	a := (sys*scc - syc*ssc) / det
	b := (syc*sss - sys*ssc) / det
	var e float64
	for m, v := range y {
		d := float64(v) - a*math.Sin(2*math.Pi*f*float64(m)) - b*math.Cos(2*math.Pi*f*float64(m))
		e += d * d
	}
	return math.Hypot(a, b), math.Sqrt(e / float64(len(y)))
}

func TestQMFProto_Shape(t *testing.T) {
	const mid = protoLen / 2
	if got := float64(qmfProto[mid]) / (1 << 31); math.Abs(got-0.8266) > 1e-3 {
		t.Errorf("prototype peak = %.4f, want 0.8266", got)
	}
	abs := func(v int32) int32 { return max(v, -v) }
	for m := 1; m < mid; m++ {
		if abs(qmfProto[mid-m]) != abs(qmfProto[mid+m]) {
			t.Fatalf("|c[%d]| != |c[%d]|", mid-m, mid+m)
		}
		if abs(qmfProto[mid+m]) > qmfProto[mid] {
			t.Fatalf("c[%d] exceeds the centre tap", mid+m)
		}
	}
}

func TestQMF_AnalysisSynthesisReproducesSine(t *testing.T) {
	const (
		amp    = 8000 * 8
		frames = 3
	)
	for _, f := range []float64{0.01, 0.11, 0.31} {
		var (
			ana analysisBank
			buf qmfBuffer
			syn = newSynthesisBank()
			out = make([]int32, frames*OutputSamples)
			in  = make([]int32, numSlots*lowBands)
		)
		for fr := 0; fr < frames; fr++ {
			for n := range in {
				i := fr*len(in) + n
				in[n] = int32(amp * math.Sin(2*math.Pi*f*float64(i)))
			}
			buf.shift()
			ana.process(in, &buf)
			var re, im [numBands]int32
			for l := 0; l < numSlots; l++ {
				copy(re[:lowBands], buf.re[l+tHFAdj][:lowBands])
				copy(im[:lowBands], buf.im[l+tHFAdj][:lowBands])
				o := fr*OutputSamples + l*numBands
				syn.slot(&re, &im, out[o:o+numBands])
			}
		}

		// output runs at twice the input rate
		got, res := fitSine(out[OutputSamples:2*OutputSamples+OutputSamples/2], f/2)
		if math.Abs(got/amp-1) > 0.02 {
			t.Errorf("f=%.2f: gain %.4f, want 1 within 2%%", f, got/amp)
		}
		if res/amp > 0.01 {
			t.Errorf("f=%.2f: residual %.4f of amplitude", f, res/amp)
		}
	}
}

func TestQMF_SilenceStaysSilent(t *testing.T) {
	var (
		ana analysisBank
		buf qmfBuffer
		syn = newSynthesisBank()
		in  = make([]int32, numSlots*lowBands)
		out = make([]int32, numBands)
	)
	ana.process(in, &buf)
	for s := 0; s < bufSlots; s++ {
		syn.slot(&buf.re[s], &buf.im[s], out)
		for j, v := range out {
			if v != 0 {
				t.Fatalf("slot %d sample %d = %d, want 0", s, j, v)
			}
		}
	}
}

func TestQMFBuffer_ShiftKeepsHistory(t *testing.T) {
	var b qmfBuffer
	for s := 0; s < bufSlots; s++ {
		b.re[s][0] = int32(s + 1)
		b.im[s][1] = int32(-s - 1)
	}
	b.shift()
	for s := 0; s < tHFGen; s++ {
		if want := int32(numSlots + s + 1); b.re[s][0] != want || b.im[s][1] != -want {
			t.Errorf("slot %d = (%d, %d), want (%d, %d)", s, b.re[s][0], b.im[s][1], want, -want)
		}
	}
	for s := tHFGen; s < bufSlots; s++ {
		if b.re[s][0] != 0 || b.im[s][1] != 0 {
			t.Errorf("slot %d not cleared", s)
		}
	}
}
