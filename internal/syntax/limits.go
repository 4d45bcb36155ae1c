package syntax

const (
	MaxChannels        = 64 // Channel slots addressed by DRC exclude masks
	MaxOutputChannels  = 2  // Channels this decoder renders
	MaxWindowGroups    = 8  // Maximum number of window groups
	MaxSFB             = 51 // Maximum number of scalefactor bands
	MaxSections        = 8 * 15
	MaxPulses          = 4
	MaxTNSFilters      = 4
	MaxTNSOrder        = 20 // Largest order the syntax can carry
	MaxCoupledElements = 8
	MaxPCEs            = 16
	FrameLength        = 1024
)
