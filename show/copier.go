// Package show implements the slideshow: it renders Koala containers into the
// memory of an emulated C64, programs the display and sequences the pictures
// found on a disk.
package show

import (
	"koala64/emu/log"
	"koala64/hw"
	"koala64/koala"
)

// Bus is the CPU view of memory the copier and display write through.
type Bus interface {
	Write8(addr uint16, val uint8)
}

// Banker selects the bank mode of the CPU bus.
type Banker interface {
	Mode() hw.BankMode
	Acquire(mode hw.BankMode) (release func())
}

// Copier transfers containers into memory, following a layout.
type Copier struct {
	bus    Bus
	banker Banker
	layout *Layout
}

func NewCopier(bus Bus, banker Banker, layout *Layout) *Copier {
	return &Copier{bus: bus, banker: banker, layout: layout}
}

// Render copies the bitmap, screen, color map and background of c to their
// destination, then sets the layout border color. Regions requiring another
// bank mode are copied with that mode selected, the previous mode is restored
// right after, even if the copy panics.
func (cp *Copier) Render(c *koala.Container) {
	for r := koala.Bitmap; r < koala.NumRegions; r++ {
		cp.copyRegion(cp.layout.RegionFor(r), c.Slice(r))
	}
	cp.bus.Write8(hw.RegBORDER, uint8(cp.layout.Border))
}

func (cp *Copier) copyRegion(rd RegionDescriptor, src []byte) {
	if rd.Bank != hw.BankUnchanged && rd.Bank != cp.banker.Mode() {
		release := cp.banker.Acquire(rd.Bank)
		defer release()
	}

	log.ModShow.DebugZ("copy region").
		Stringer("region", rd.Region).
		Hex16("addr", rd.Addr).
		Int("size", len(src)).
		Stringer("mode", cp.banker.Mode()).
		End()

	for i, b := range src {
		cp.bus.Write8(rd.Addr+uint16(i), b)
	}
}
