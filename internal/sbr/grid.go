package sbr

import "github.com/llehouerou/go-heaac/internal/bits"

// Frame classes of sbr_grid().
const (
	FixFix = 0
	FixVar = 1
	VarFix = 2
	VarVar = 3
)

const (
	maxEnvelopes      = 5
	maxNoiseEnvelopes = 2
)

// Grid is the time/frequency grid of one channel and frame. Borders are
// in time slots of numTimeSlots per frame; the last border may reach into
// the next frame.
type Grid struct {
	Class     uint8
	NumEnv    int
	NumNoise  int
	FreqRes   [maxEnvelopes]uint8
	TE        [maxEnvelopes + 1]int
	TQ        [maxNoiseEnvelopes + 1]int
	Transient int // l_A, -1 when no envelope starts at a transient
}

// ptrBits returns ceil(log2(numEnv + 1)).
func ptrBits(numEnv int) uint {
	n := uint(0)
	for (1 << n) < numEnv+1 {
		n++
	}
	return n
}

// parseGrid reads sbr_grid() and derives the envelope and noise floor
// borders (ISO/IEC 14496-3 4.6.18.3.3).
func parseGrid(r *bits.Reader, g *Grid) error {
	var (
		absLead, absTrail   int
		relLead, relTrail   [4]int
		nRelLead, nRelTrail int
		pointer             int
	)
	absTrail = numTimeSlots

	g.Class = uint8(r.GetBits(2))
	switch g.Class {
	case FixFix:
		g.NumEnv = 1 << r.GetBits(2)
		res := r.Get1Bit()
		if g.NumEnv > maxEnvelopes {
			return ErrGrid
		}
		for l := 0; l < g.NumEnv; l++ {
			g.FreqRes[l] = res
		}
		nRelLead = g.NumEnv - 1
		for l := 0; l < nRelLead; l++ {
			relLead[l] = numTimeSlots / g.NumEnv
		}

	case FixVar:
		absTrail += int(r.GetBits(2))
		nRelTrail = int(r.GetBits(2))
		for l := 0; l < nRelTrail; l++ {
			relTrail[l] = 2*int(r.GetBits(2)) + 2
		}
		g.NumEnv = nRelTrail + 1
		pointer = int(r.GetBits(ptrBits(g.NumEnv)))
		for l := 0; l < g.NumEnv; l++ {
			g.FreqRes[g.NumEnv-1-l] = r.Get1Bit()
		}

	case VarFix:
		absLead = int(r.GetBits(2))
		nRelLead = int(r.GetBits(2))
		for l := 0; l < nRelLead; l++ {
			relLead[l] = 2*int(r.GetBits(2)) + 2
		}
		g.NumEnv = nRelLead + 1
		pointer = int(r.GetBits(ptrBits(g.NumEnv)))
		for l := 0; l < g.NumEnv; l++ {
			g.FreqRes[l] = r.Get1Bit()
		}

	case VarVar:
		absLead = int(r.GetBits(2))
		absTrail += int(r.GetBits(2))
		nRelLead = int(r.GetBits(2))
		nRelTrail = int(r.GetBits(2))
		g.NumEnv = nRelLead + nRelTrail + 1
		if g.NumEnv > maxEnvelopes {
			return ErrGrid
		}
		for l := 0; l < nRelLead; l++ {
			relLead[l] = 2*int(r.GetBits(2)) + 2
		}
		for l := 0; l < nRelTrail; l++ {
			relTrail[l] = 2*int(r.GetBits(2)) + 2
		}
		pointer = int(r.GetBits(ptrBits(g.NumEnv)))
		for l := 0; l < g.NumEnv; l++ {
			g.FreqRes[l] = r.Get1Bit()
		}
	}
	if pointer > g.NumEnv+1 {
		return ErrGrid
	}

	g.TE[0] = absLead
	g.TE[g.NumEnv] = absTrail
	for l := 1; l <= nRelLead; l++ {
		g.TE[l] = g.TE[l-1] + relLead[l-1]
	}
	for l := 1; l <= nRelTrail; l++ {
		g.TE[g.NumEnv-l] = g.TE[g.NumEnv-l+1] - relTrail[l-1]
	}
	for l := 0; l < g.NumEnv; l++ {
		if g.TE[l] >= g.TE[l+1] {
			return ErrGrid
		}
	}

	g.Transient = transientEnvelope(g.Class, g.NumEnv, pointer)

	g.NumNoise = 1
	g.TQ[0] = g.TE[0]
	if g.NumEnv == 1 {
		g.TQ[1] = g.TE[1]
		return nil
	}
	g.NumNoise = 2
	g.TQ[1] = g.TE[middleBorder(g.Class, g.NumEnv, pointer)]
	g.TQ[2] = g.TE[g.NumEnv]
	if g.TQ[1] <= g.TQ[0] || g.TQ[1] >= g.TQ[2] {
		return ErrGrid
	}
	return nil
}

// transientEnvelope returns l_A.
func transientEnvelope(class uint8, numEnv, pointer int) int {
	switch class {
	case FixVar, VarVar:
		if pointer > 0 {
			return numEnv + 1 - pointer
		}
	case VarFix:
		if pointer > 1 {
			return pointer - 1
		}
	}
	return -1
}

// middleBorder returns the envelope border splitting two noise floors.
func middleBorder(class uint8, numEnv, pointer int) int {
	switch class {
	case FixFix:
		return numEnv / 2
	case VarFix:
		switch pointer {
		case 0:
			return 1
		case 1:
			return numEnv - 1
		}
		return pointer - 1
	}
	if pointer > 1 {
		return numEnv + 1 - pointer
	}
	return numEnv - 1
}
