package hwio

import "fmt"

// addrTable maps every address of the 64K space to the Handler serving it.
// Ranges are remapped at each bank switch but looked up far more often, so
// the table is flat.
type addrTable struct {
	slots [0x10000]Handler
}

func (t *addrTable) insertRange(begin, end uint16, h Handler) error {
	if end < begin {
		return fmt.Errorf("invalid range $%04X-$%04X", begin, end)
	}
	for a := uint32(begin); a <= uint32(end); a++ {
		if t.slots[a] != nil {
			return fmt.Errorf("$%04X already mapped", a)
		}
	}
	for a := uint32(begin); a <= uint32(end); a++ {
		t.slots[a] = h
	}
	return nil
}

func (t *addrTable) removeRange(begin, end uint16) {
	for a := uint32(begin); a <= uint32(end); a++ {
		t.slots[a] = nil
	}
}

func (t *addrTable) search(addr uint16) Handler {
	return t.slots[addr]
}
