package syntax

import "github.com/llehouerou/go-heaac/internal/bits"

// skipGainControlData consumes gain_control_data(). Gain control belongs to
// the SSR object type; LC streams that carry it are decoded without it.
func skipGainControlData(r *bits.Reader, ics *ICStream) {
	maxBand := r.GetBits(2)

	var windows int
	var locBits [2]uint // aloccode width for window 0 and the others
	switch ics.WindowSequence {
	case OnlyLongSequence:
		windows, locBits = 1, [2]uint{5, 5}
	case LongStartSequence:
		windows, locBits = 2, [2]uint{4, 2}
	case EightShortSequence:
		windows, locBits = 8, [2]uint{2, 2}
	case LongStopSequence:
		windows, locBits = 2, [2]uint{4, 5}
	}

	for bd := uint32(1); bd <= maxBand; bd++ {
		for wd := 0; wd < windows; wd++ {
			adjustNum := r.GetBits(3)
			loc := locBits[1]
			if wd == 0 {
				loc = locBits[0]
			}
			for ad := uint32(0); ad < adjustNum; ad++ {
				r.FlushBits(4 + loc)
			}
		}
	}
}
