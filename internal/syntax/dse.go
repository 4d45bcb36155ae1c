package syntax

import "github.com/llehouerou/go-heaac/internal/bits"

// ParseDataStreamElement skips data_stream_element() and returns the number
// of data bytes it carried.
//
// Ported from: data_stream_element() in ~/dev/faad2/libfaad/syntax.c:1080-1107
func ParseDataStreamElement(r *bits.Reader) uint16 {
	_ = r.GetBits(LenTag)
	byteAligned := r.Get1Flag()

	count := uint16(r.GetBits(8))
	if count == 255 {
		count += uint16(r.GetBits(8))
	}
	if byteAligned {
		r.ByteAlign()
	}
	r.SkipBits(int(count) * LenByte)
	return count
}
