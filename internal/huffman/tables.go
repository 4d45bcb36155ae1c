package huffman

// twoStep is the generated two-step lookup for one spectral codebook.
type twoStep struct {
	rootBits uint8
	root     []HCB
	quads    []HCB2Quad // codebooks 1-4
	pairs    []HCB2Pair // codebooks 5-11
}

// spectralBooks is indexed by codebook number; entry 0 is unused.
var spectralBooks = buildSpectralBooks()

func buildSpectralBooks() [12]*twoStep {
	var books [12]*twoStep
	for cb := 1; cb <= 11; cb++ {
		rootBits := uint8(5)
		if cb == 10 {
			rootBits = 6
		}
		books[cb] = buildTwoStep(Codebook(cb), spectralCodes[cb-1], rootBits)
	}
	return books
}

// codewordValues maps a codeword index of cb to its coefficients.
func codewordValues(cb Codebook, idx int) [4]int8 {
	s := codebookShape[cb]
	var v [4]int8
	if cb.Width() == QuadLen {
		for i := 3; i >= 0; i-- {
			v[i] = int8(idx%s.base - s.off)
			idx /= s.base
		}
		return v
	}
	v[0] = int8(idx/s.base - s.off)
	v[1] = int8(idx%s.base - s.off)
	return v
}

// buildTwoStep lays out the tables the way the classic decoders do: every
// root prefix either resolves a codeword of at most rootBits bits, or points
// at a block of 2^extra entries covering all longer codewords under it.
func buildTwoStep(cb Codebook, ct codeTable, rootBits uint8) *twoStep {
	b := &twoStep{rootBits: rootBits, root: make([]HCB, 1<<rootBits)}
	n := 0
	add := func(idx int) {
		v := codewordValues(cb, idx)
		bits := ct.lengths[idx]
		if cb.Width() == QuadLen {
			b.quads = append(b.quads, HCB2Quad{Bits: bits, X: v[0], Y: v[1], V: v[2], W: v[3]})
		} else {
			b.pairs = append(b.pairs, HCB2Pair{Bits: bits, X: v[0], Y: v[1]})
		}
		n++
	}

	last := -1
	for p := uint32(0); p < 1<<rootBits; p++ {
		if i := ct.match(p, rootBits, 0, rootBits); i >= 0 {
			if i != last {
				add(i)
				last = i
			}
			b.root[p] = HCB{Offset: uint16(n - 1)}
			continue
		}
		last = -1

		var maxLen uint8
		for i, l := range ct.lengths {
			if l > rootBits && ct.codes[i]>>(l-rootBits) == p && l > maxLen {
				maxLen = l
			}
		}
		if maxLen == 0 {
			continue
		}
		extra := maxLen - rootBits
		b.root[p] = HCB{Offset: uint16(n), ExtraBits: extra}
		for s := uint32(0); s < 1<<extra; s++ {
			i := ct.match(p<<extra|s, maxLen, rootBits+1, maxLen)
			if i < 0 {
				i = 0
			}
			add(i)
		}
	}
	return b
}

// match returns the index of the codeword with length in [minLen, maxLen]
// that prefixes the n-bit word w, or -1.
func (ct codeTable) match(w uint32, n, minLen, maxLen uint8) int {
	for i, l := range ct.lengths {
		if l < minLen || l > maxLen || l > n {
			continue
		}
		if ct.codes[i] == w>>(n-l) {
			return i
		}
	}
	return -1
}

// tree is a binary decoding tree. Each node holds its two children:
// a positive value is the index of the next node, a negative value v
// is a leaf for codeword index -v-1. Zero marks an unused branch.
type tree [][2]int32

func buildTree(ct codeTable) tree {
	t := tree{{0, 0}}
	for i, l := range ct.lengths {
		node := 0
		for k := int(l) - 1; k >= 0; k-- {
			bit := (ct.codes[i] >> uint(k)) & 1
			if k == 0 {
				t[node][bit] = int32(-i - 1)
				break
			}
			next := t[node][bit]
			if next <= 0 {
				t = append(t, [2]int32{})
				next = int32(len(t) - 1)
				t[node][bit] = next
			}
			node = int(next)
		}
	}
	return t
}

var (
	scaleFactorTree = buildTree(scaleFactorCodes)
	sbrTrees        = buildSBRTrees()
)

func buildSBRTrees() [numSBRTables]tree {
	var trees [numSBRTables]tree
	for i := range sbrCodes {
		trees[i] = buildTree(sbrCodes[i].codeTable)
	}
	return trees
}
