package syntax

import "github.com/llehouerou/go-heaac/internal/bits"

// ExtensionPayload is an SBR extension payload captured from a fill
// element. Data starts after the 4-bit extension type and holds Bits bits,
// left aligned.
type ExtensionPayload struct {
	Type ExtensionType
	Data []byte
	Bits int
}

// CRC reports whether the payload starts with an SBR CRC word.
func (p *ExtensionPayload) CRC() bool {
	return p.Type == ExtSBRDataCRC
}

// FillResult collects what a fill element carried.
type FillResult struct {
	SBR *ExtensionPayload // nil when no SBR payload was present
}

// ParseFillElement parses fill_element(). Dynamic range data updates drc;
// an SBR payload is copied into sbr (reusing its buffer) and returned.
func ParseFillElement(r *bits.Reader, drc *DRCInfo, sbr *ExtensionPayload) (FillResult, error) {
	var res FillResult

	count := int(r.GetBits(4))
	if count == 15 {
		count += int(r.GetBits(8)) - 1
	}

	for count > 0 {
		if r.Overrun() {
			return res, ErrBitstreamOverrun
		}
		used, isSBR := parseExtensionPayload(r, count, drc, sbr)
		if isSBR {
			res.SBR = sbr
		}
		count -= used
	}
	return res, nil
}

// parseExtensionPayload parses extension_payload(cnt) and returns the
// number of bytes consumed.
func parseExtensionPayload(r *bits.Reader, count int, drc *DRCInfo, sbr *ExtensionPayload) (int, bool) {
	typ := ExtensionType(r.GetBits(4))

	switch typ {
	case ExtSBRData, ExtSBRDataCRC:
		n := count*8 - 4
		sbr.Type = typ
		sbr.Bits = n
		sbr.Data = readBitsInto(r, sbr.Data[:0], n)
		return count, true

	case ExtDynamicRange:
		return parseDynamicRangeInfo(r, drc), false

	case ExtFillData:
		// fill_nibble, then fill bytes
		r.FlushBits(4)
		r.SkipBits((count - 1) * 8)
		return count, false
	}

	// EXT_FILL, EXT_DATA_ELEMENT and unknown types: skip the remainder.
	r.SkipBits(count*8 - 4)
	return count, false
}

// readBitsInto appends n bits read from r to dst, left aligned.
func readBitsInto(r *bits.Reader, dst []byte, n int) []byte {
	for ; n >= 8; n -= 8 {
		dst = append(dst, byte(r.GetBits(8)))
	}
	if n > 0 {
		dst = append(dst, byte(r.GetBits(uint(n))<<(8-uint(n))))
	}
	return dst
}
