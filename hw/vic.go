package hw

import (
	"image"

	"koala64/emu/log"
	"koala64/hw/hwio"
)

// Bus addresses of the VIC-II registers driven by the slideshow. The 47
// registers are mirrored every 64 bytes over $D000-$D3FF.
const (
	VICBase   = 0xD000
	RegCTRL1  = 0xD011
	RegCTRL2  = 0xD016
	RegMEMPTR = 0xD018
	RegBORDER = 0xD020
	RegBG0    = 0xD021
)

// Control bits.
const (
	CTRL1_DEN = 1 << 4 // display enable
	CTRL1_BMM = 1 << 5 // bitmap mode
	CTRL1_ECM = 1 << 6 // extended color mode
	CTRL2_MCM = 1 << 4 // multicolor mode
)

// Frame geometry (PAL, visible area).
const (
	FrameWidth   = 384
	FrameHeight  = 272
	BorderLeft   = 32
	BorderTop    = 36
	ScreenWidth  = 320
	ScreenHeight = 200
)

// VIC is the MOS 6569 video chip. Only the registers and the display modes
// needed to show bitmap pictures are emulated: no sprites, no raster
// interrupts, no badlines. The picture is rendered in a single pass from the
// current state of the registers and memory.
type VIC struct {
	CTRL1  hwio.Reg8 `hwio:"offset=0x11,reset=0x1B,onwrite"`
	RASTER hwio.Reg8 `hwio:"offset=0x12,readonly"`
	CTRL2  hwio.Reg8 `hwio:"offset=0x16,reset=0xC8,unused=0xC0,onwrite"`
	MEMPTR hwio.Reg8 `hwio:"offset=0x18,reset=0x15,unused=0x01,onwrite"`
	BORDER hwio.Reg8 `hwio:"offset=0x20,reset=0xFE,unused=0xF0,onwrite"`
	BG0    hwio.Reg8 `hwio:"offset=0x21,reset=0xF6,unused=0xF0,onwrite"`
	BG1    hwio.Reg8 `hwio:"offset=0x22,reset=0xF0,unused=0xF0"`
	BG2    hwio.Reg8 `hwio:"offset=0x23,reset=0xF0,unused=0xF0"`
	BG3    hwio.Reg8 `hwio:"offset=0x24,reset=0xF0,unused=0xF0"`

	ram      *[0x10000]byte
	charROM  []byte
	colorRAM []byte
	cia2     *CIA2

	frame *image.RGBA
}

func newVIC(ram *[0x10000]byte, charROM, colorRAM []byte, cia2 *CIA2) *VIC {
	v := &VIC{
		ram:      ram,
		charROM:  charROM,
		colorRAM: colorRAM,
		cia2:     cia2,
		frame:    image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight)),
	}
	hwio.MustInitRegs(v)
	return v
}

func (v *VIC) logWrite(reg string, old, val uint8) {
	if old == val {
		return
	}
	log.ModVIC.DebugZ("write").
		String("reg", reg).
		Hex8("old", old).
		Hex8("val", val).
		End()
}

func (v *VIC) WriteCTRL1(old, val uint8)  { v.logWrite("ctrl1", old, val) }
func (v *VIC) WriteCTRL2(old, val uint8)  { v.logWrite("ctrl2", old, val) }
func (v *VIC) WriteMEMPTR(old, val uint8) { v.logWrite("memptr", old, val) }
func (v *VIC) WriteBORDER(old, val uint8) { v.logWrite("border", old, val) }
func (v *VIC) WriteBG0(old, val uint8)    { v.logWrite("bg0", old, val) }

// Bank returns the 16K bank the VIC fetches from, as selected by CIA2.
func (v *VIC) Bank() uint8 {
	return v.cia2.VICBank()
}

// BankBase returns the CPU address of the current VIC bank.
func (v *VIC) BankBase() uint16 {
	return uint16(v.Bank()) << 14
}

// ScreenAddr returns the CPU address of the screen matrix.
func (v *VIC) ScreenAddr() uint16 {
	return v.BankBase() | uint16(v.MEMPTR.Value>>4)<<10
}

// BitmapAddr returns the CPU address of the bitmap (bitmap mode only).
func (v *VIC) BitmapAddr() uint16 {
	return v.BankBase() | uint16(v.MEMPTR.Value&0x08)<<10
}

// fetch reads memory as seen by the VIC. The character ROM shadows RAM at
// $1000-$1FFF of banks 0 and 2.
func (v *VIC) fetch(addr uint16) uint8 {
	bank := v.Bank()
	if bank&1 == 0 && addr&0x3000 == 0x1000 {
		return v.charROM[addr&0x0FFF]
	}
	return v.ram[addr]
}

// Frame renders the visible area, borders included, and returns it. The
// returned image is reused by the next call.
func (v *VIC) Frame() *image.RGBA {
	border := Color(v.BORDER.Value).RGBA()
	for y := range FrameHeight {
		row := v.frame.Pix[y*v.frame.Stride : y*v.frame.Stride+FrameWidth*4]
		for x := 0; x < len(row); x += 4 {
			row[x], row[x+1], row[x+2], row[x+3] = border.R, border.G, border.B, border.A
		}
	}
	if v.CTRL1.Value&CTRL1_DEN == 0 {
		return v.frame
	}

	bg0 := Color(v.BG0.Value)
	bmm := v.CTRL1.Value&CTRL1_BMM != 0
	mcm := v.CTRL2.Value&CTRL2_MCM != 0
	if !bmm || v.CTRL1.Value&CTRL1_ECM != 0 {
		// Only the bitmap modes are supported, other modes show the
		// background color.
		v.fillScreen(bg0)
		return v.frame
	}

	screen, bitmap := v.ScreenAddr(), v.BitmapAddr()
	for cell := range 1000 {
		cx, cy := cell%40, cell/40
		scr := v.fetch(screen + uint16(cell))
		col := Color(v.colorRAM[cell] & 0x0F)
		for line := range 8 {
			b := v.fetch(bitmap + uint16(cell*8+line))
			x0, y := BorderLeft+cx*8, BorderTop+cy*8+line
			if mcm {
				for px := range 4 {
					var c Color
					switch (b >> (6 - 2*px)) & 3 {
					case 0:
						c = bg0
					case 1:
						c = Color(scr >> 4)
					case 2:
						c = Color(scr & 0x0F)
					case 3:
						c = col
					}
					v.frame.SetRGBA(x0+px*2, y, c.RGBA())
					v.frame.SetRGBA(x0+px*2+1, y, c.RGBA())
				}
				continue
			}
			for px := range 8 {
				c := Color(scr & 0x0F)
				if b&(0x80>>px) != 0 {
					c = Color(scr >> 4)
				}
				v.frame.SetRGBA(x0+px, y, c.RGBA())
			}
		}
	}
	return v.frame
}

func (v *VIC) fillScreen(c Color) {
	rgba := c.RGBA()
	for y := BorderTop; y < BorderTop+ScreenHeight; y++ {
		for x := BorderLeft; x < BorderLeft+ScreenWidth; x++ {
			v.frame.SetRGBA(x, y, rgba)
		}
	}
}
