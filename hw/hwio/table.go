package hwio

import (
	"fmt"

	"koala64/emu/log"
)

// OpenBus is the value read at addresses where nothing is mapped.
const OpenBus = 0xFF

// Handler serves the CPU accesses to the addresses it's mapped at.
type Handler interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

// A Table dispatches 8-bit accesses over the 64K CPU address space to the
// memories and registers mapped into it.
type Table struct {
	Name string

	slots addrTable
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

// MapBank maps the Reg8 and Mem fields of the structure pointed to by bank,
// each at addr plus the offset given by its "hwio" tag. Fields without
// offset are not part of the bank. See InitRegs for the tag syntax.
func (t *Table) MapBank(addr uint16, bank any) {
	t.MapMirrored(addr, addr, 1, bank)
}

// MapMirrored maps bank at begin, then again every stride bytes up to end.
// Chips decoding only the low address lines appear this way, the VIC-II
// every $40 bytes over $D000-$D3FF for example.
func (t *Table) MapMirrored(begin, end, stride uint16, bank any) {
	regs, err := bankRegs(bank)
	if err != nil {
		panic(fmt.Errorf("bus %s: %w", t.Name, err))
	}
	for base := uint32(begin); base <= uint32(end); base += uint32(stride) {
		for _, reg := range regs {
			addr := uint16(base) + reg.offset
			switch r := reg.ptr.(type) {
			case *Reg8:
				t.insert(addr, addr, r)
			case *Mem:
				t.MapMem(addr, r)
			}
		}
	}
}

func (t *Table) MapMem(addr uint16, mem *Mem) {
	size := mem.size()
	log.ModHwIo.DebugZ("map mem").
		String("bus", t.Name).
		String("area", mem.Name).
		Hex16("addr", addr).
		Hex16("end", addr+uint16(size-1)).
		End()

	t.insert(addr, addr+uint16(size-1), newMemView(mem))
}

func (t *Table) insert(begin, end uint16, h Handler) {
	if err := t.slots.insertRange(begin, end, h); err != nil {
		panic(fmt.Errorf("bus %s: %w", t.Name, err))
	}
}

// Unmap frees the range [begin, end], so that another mapping can take it.
func (t *Table) Unmap(begin, end uint16) {
	t.slots.removeRange(begin, end)
}

func (t *Table) Read8(addr uint16) uint8 {
	h := t.slots.search(addr)
	if h == nil {
		return OpenBus
	}
	return h.Read8(addr)
}

func (t *Table) Write8(addr uint16, val uint8) {
	h := t.slots.search(addr)
	if h == nil {
		log.ModHwIo.DebugZ("unmapped write").
			String("bus", t.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	h.Write8(addr, val)
}
