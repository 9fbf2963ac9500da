package hwio

// AddrSet is a set of CPU addresses. The zero value is empty.
type AddrSet struct {
	words [0x10000 / 64]uint64
}

// span calls fn with the index and the mask of each word covering the
// addresses [begin, end], stopping early if fn returns false.
func span(begin, end uint16, fn func(w int, mask uint64) bool) {
	if end < begin {
		return
	}
	first, last := int(begin/64), int(end/64)
	for w := first; w <= last; w++ {
		mask := ^uint64(0)
		if w == first {
			mask <<= begin % 64
		}
		if w == last {
			mask &= ^uint64(0) >> (63 - end%64)
		}
		if !fn(w, mask) {
			return
		}
	}
}

// Add adds the addresses [begin, end].
func (s *AddrSet) Add(begin, end uint16) {
	span(begin, end, func(w int, mask uint64) bool {
		s.words[w] |= mask
		return true
	})
}

// Overlaps reports whether any address of [begin, end] is in the set.
func (s *AddrSet) Overlaps(begin, end uint16) bool {
	found := false
	span(begin, end, func(w int, mask uint64) bool {
		found = s.words[w]&mask != 0
		return !found
	})
	return found
}
