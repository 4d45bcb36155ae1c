// Package syntax parses the AAC-LC bitstream: transport headers (ADTS, ADIF,
// AudioSpecificConfig), program configuration, and the syntax elements of a
// raw_data_block down to quantized spectral values.
//
// Parsing never reconstructs audio; it fills ICStream structures and int16
// spectra that the spectrum package turns into coefficients.
package syntax

// ElementID represents a syntax element identifier.
type ElementID uint8

// Syntax Element IDs (ISO/IEC 14496-3 Table 4.85).
const (
	IDSCE            ElementID = 0x0 // Single Channel Element
	IDCPE            ElementID = 0x1 // Channel Pair Element
	IDCCE            ElementID = 0x2 // Coupling Channel Element
	IDLFE            ElementID = 0x3 // LFE Channel Element
	IDDSE            ElementID = 0x4 // Data Stream Element
	IDPCE            ElementID = 0x5 // Program Config Element
	IDFIL            ElementID = 0x6 // Fill Element
	IDEND            ElementID = 0x7 // Terminating Element
	InvalidElementID ElementID = 255
)

func (id ElementID) String() string {
	switch id {
	case IDSCE:
		return "SCE"
	case IDCPE:
		return "CPE"
	case IDCCE:
		return "CCE"
	case IDLFE:
		return "LFE"
	case IDDSE:
		return "DSE"
	case IDPCE:
		return "PCE"
	case IDFIL:
		return "FIL"
	case IDEND:
		return "END"
	}
	return "invalid"
}

// WindowSequence represents the window sequence type.
type WindowSequence uint8

// Window Sequences.
const (
	OnlyLongSequence   WindowSequence = 0x0
	LongStartSequence  WindowSequence = 0x1
	EightShortSequence WindowSequence = 0x2
	LongStopSequence   WindowSequence = 0x3
)

// ExtensionType represents a fill element extension payload type.
type ExtensionType uint8

// Extension Types (ISO/IEC 14496-3 Table 4.121).
const (
	ExtFil          ExtensionType = 0x0
	ExtFillData     ExtensionType = 0x1
	ExtDataElement  ExtensionType = 0x2
	ExtDynamicRange ExtensionType = 0xB
	ExtSBRData      ExtensionType = 0xD
	ExtSBRDataCRC   ExtensionType = 0xE
)

// Bit length constants for parsing.
const (
	LenSEID = 3 // Syntax element identifier length in bits
	LenTag  = 4 // Element instance tag length in bits
	LenByte = 8 // Byte length in bits
)

// ObjectType is an MPEG-4 audio object type.
type ObjectType uint8

// Audio object types referenced by the transport headers.
const (
	ObjectTypeMain ObjectType = 1
	ObjectTypeLC   ObjectType = 2
	ObjectTypeSSR  ObjectType = 3
	ObjectTypeLTP  ObjectType = 4
	ObjectTypeSBR  ObjectType = 5
	ObjectTypePS   ObjectType = 29
)
