package syntax

import "github.com/llehouerou/go-heaac/internal/bits"

// Frame is the reusable parse state of one raw_data_block(). The decoder
// owns one Frame per session so parsing a block does not allocate.
type Frame struct {
	Elements     [MaxOutputChannels]Element
	NumElements  int
	NumChannels  int
	FirstElement ElementID
	HasLFE       bool
	CCECount     int
	PCE          *ProgramConfig

	// DRC keeps the last dynamic range data seen; it is not cleared
	// between blocks.
	DRC DRCInfo

	spec        [MaxOutputChannels][FrameLength]int16
	sbr         [MaxOutputChannels]ExtensionPayload
	scratchICS  ICStream
	scratchSpec [FrameLength]int16
	scratchSBR  ExtensionPayload
}

func (f *Frame) reset() {
	f.NumElements = 0
	f.NumChannels = 0
	f.FirstElement = InvalidElementID
	f.HasLFE = false
	f.CCECount = 0
	f.PCE = nil
}

// newElement claims the next element slot and its spectrum buffers.
func (f *Frame) newElement(id ElementID) (*Element, error) {
	n := 1
	if id == IDCPE {
		n = 2
	}
	if f.NumElements >= len(f.Elements) || f.NumChannels+n > MaxOutputChannels {
		return nil, ErrTooManyChannels
	}
	el := &f.Elements[f.NumElements]
	el.ID = id
	el.index = f.NumElements
	el.Channel = uint8(f.NumChannels)
	el.SBR = nil
	el.Spec[0] = f.spec[f.NumChannels][:]
	el.Spec[1] = nil
	if n == 2 {
		el.Spec[1] = f.spec[f.NumChannels+1][:]
	}
	f.NumElements++
	f.NumChannels += n
	return el, nil
}

// RawDataBlockConfig holds configuration for raw data block parsing.
//
// Ported from: raw_data_block() parameters in ~/dev/faad2/libfaad/syntax.c:449-450
type RawDataBlockConfig struct {
	SFIndex uint8
}

// ParseRawDataBlock parses a raw_data_block() into f. Elements are read
// until ID_END; the reader is byte aligned afterwards. SBR payloads of a
// FIL element are attached to the channel element that precedes it.
//
// Ported from: raw_data_block() in ~/dev/faad2/libfaad/syntax.c:449-648
func ParseRawDataBlock(r *bits.Reader, cfg *RawDataBlockConfig, f *Frame) error {
	f.reset()

	var last *Element
	count := 0
	for {
		id := ElementID(r.GetBits(LenSEID))
		if id == IDEND {
			break
		}
		count++
		if f.FirstElement == InvalidElementID {
			f.FirstElement = id
		}

		switch id {
		case IDSCE, IDLFE, IDCPE:
			el, err := f.newElement(id)
			if err != nil {
				return err
			}
			if id == IDCPE {
				err = ParseChannelPairElement(r, el, cfg.SFIndex)
			} else {
				err = ParseSingleChannelElement(r, el, cfg.SFIndex)
			}
			if err != nil {
				return err
			}
			if id == IDLFE {
				f.HasLFE = true
			}
			last = el

		case IDCCE:
			if _, err := ParseCouplingChannelElement(r, &f.scratchICS, f.scratchSpec[:], cfg.SFIndex); err != nil {
				return err
			}
			f.CCECount++

		case IDDSE:
			ParseDataStreamElement(r)

		case IDPCE:
			if count != 1 {
				return ErrPCENotFirst
			}
			pce, err := ParsePCE(r)
			if err != nil {
				return err
			}
			f.PCE = pce

		case IDFIL:
			payload := &f.scratchSBR
			if last != nil && last.SBR == nil {
				payload = &f.sbr[last.index]
			}
			res, err := ParseFillElement(r, &f.DRC, payload)
			if err != nil {
				return err
			}
			if res.SBR != nil && payload != &f.scratchSBR {
				last.SBR = res.SBR
			}
		}

		if r.Overrun() {
			return ErrBitstreamOverrun
		}
	}

	r.ByteAlign()
	return nil
}
