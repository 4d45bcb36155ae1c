package syntax

import (
	"github.com/llehouerou/go-heaac/internal/bits"
	"github.com/llehouerou/go-heaac/internal/tables"
)

// TNSInfo holds the TNS filters of every window. Short windows carry at most
// one filter each.
//
// Ported from: tns_info in ~/dev/faad2/libfaad/structs.h:218-227
type TNSInfo struct {
	NFilt        [8]uint8
	CoefRes      [8]uint8 // 1 selects 4-bit coefficients
	Length       [8][MaxTNSFilters]uint8
	Order        [8][MaxTNSFilters]uint8
	Direction    [8][MaxTNSFilters]uint8 // 1 filters downward
	CoefCompress [8][MaxTNSFilters]uint8
	Coef         [8][MaxTNSFilters][MaxTNSOrder]uint8
}

// ParseTNSData parses tns_data() and rejects orders above the LC limit.
//
// Ported from: tns_data() in ~/dev/faad2/libfaad/syntax.c:2019-2089
func ParseTNSData(r *bits.Reader, ics *ICStream, tns *TNSInfo) error {
	var nFiltBits, lengthBits, orderBits uint
	maxOrder := uint8(tables.TNSMaxOrderLong)
	if ics.WindowSequence == EightShortSequence {
		nFiltBits, lengthBits, orderBits = 1, 4, 3
		maxOrder = tables.TNSMaxOrderShort
	} else {
		nFiltBits, lengthBits, orderBits = 2, 6, 5
	}

	for w := uint8(0); w < ics.NumWindows; w++ {
		startCoefBits := uint(3)
		tns.NFilt[w] = uint8(r.GetBits(nFiltBits))
		if tns.NFilt[w] != 0 {
			tns.CoefRes[w] = r.Get1Bit()
			if tns.CoefRes[w] != 0 {
				startCoefBits = 4
			}
		}

		for f := uint8(0); f < tns.NFilt[w]; f++ {
			tns.Length[w][f] = uint8(r.GetBits(lengthBits))
			tns.Order[w][f] = uint8(r.GetBits(orderBits))
			if tns.Order[w][f] > maxOrder {
				return ErrTNSOrder
			}
			if tns.Order[w][f] == 0 {
				continue
			}
			tns.Direction[w][f] = r.Get1Bit()
			tns.CoefCompress[w][f] = r.Get1Bit()
			coefBits := startCoefBits - uint(tns.CoefCompress[w][f])
			for i := uint8(0); i < tns.Order[w][f]; i++ {
				tns.Coef[w][f][i] = uint8(r.GetBits(coefBits))
			}
		}
	}
	return nil
}
