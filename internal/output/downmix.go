package output

// Output channel positions. A channel pair decodes to ChannelLeft and
// ChannelRight; a single channel element with an LFE puts the LFE in the
// second slot.
const (
	ChannelLeft  uint8 = 0
	ChannelRight uint8 = 1
	ChannelLFE   uint8 = 1
)

// Mix returns the rounded average of two wide samples.
func Mix(l, r int32) int32 {
	return int32((int64(l) + int64(r) + 1) >> 1)
}

// DownmixMono averages l and r into out, which may alias l.
func DownmixMono(l, r, out []int32) {
	_ = r[len(l)-1]
	_ = out[len(l)-1]
	for i := range l {
		out[i] = Mix(l[i], r[i])
	}
}
