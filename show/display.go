package show

import (
	"koala64/emu/log"
	"koala64/hw"
)

const (
	ctrl1Bitmap     = 0x3B // bitmap mode, display enabled, 25 rows, yscroll 3
	ctrl2Multicolor = 0x18 // multicolor, 40 columns
	cia2PRAHigh     = 0x94 // serial lines idle, RS232 TXD high
)

// Display programs the VIC-II (and the CIA2 port selecting its bank) to show
// the pictures rendered with a layout.
type Display struct {
	bus         Bus
	activations int
}

func NewDisplay(bus Bus) *Display {
	return &Display{bus: bus}
}

// Activate sets multicolor bitmap mode and points the VIC at the layout
// screen and bitmap. The background color isn't touched: it's part of the
// picture. Activating again re-applies the same state.
func (d *Display) Activate(l *Layout) {
	d.bus.Write8(hw.RegCTRL1, ctrl1Bitmap)
	d.bus.Write8(hw.RegCTRL2, ctrl2Multicolor)
	d.bus.Write8(hw.RegMEMPTR, l.MemPtr())
	d.bus.Write8(hw.CIA2PRA, cia2PRAHigh|hw.VICBankBits(l.VICBank))
	d.bus.Write8(hw.RegBORDER, uint8(l.Border))
	d.activations++

	log.ModShow.InfoZ("display activated").
		String("layout", l.Name).
		Hex8("memptr", l.MemPtr()).
		Uint8("bank", l.VICBank).
		End()
}

// Activations returns the number of times Activate has been called.
func (d *Display) Activations() int {
	return d.activations
}
