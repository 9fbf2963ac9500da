package show

import (
	"errors"
	"fmt"
	"strings"

	"koala64/hw"
	"koala64/hw/hwio"
	"koala64/koala"
)

// Target is the kind of destination a region is copied to.
type Target uint8

const (
	TargetRAM      Target = iota // plain RAM, possibly shadowed by ROM or I/O
	TargetColorRAM               // color RAM nibbles, I/O area
	TargetVICReg                 // a VIC-II register, I/O area
)

func (t Target) String() string {
	switch t {
	case TargetRAM:
		return "RAM"
	case TargetColorRAM:
		return "color RAM"
	case TargetVICReg:
		return "VIC register"
	}
	return fmt.Sprintf("Target(%d)", uint8(t))
}

// A RegionDescriptor maps a container region to its destination.
type RegionDescriptor struct {
	Region koala.Region
	Addr   uint16
	Size   int
	Bank   hw.BankMode // hw.BankUnchanged to write with the current mode
	Target Target
}

func (rd RegionDescriptor) end() uint32 {
	return uint32(rd.Addr) + uint32(rd.Size) - 1
}

func (rd RegionDescriptor) String() string {
	return fmt.Sprintf("%s [$%04X-$%04X] bank=%s %s", rd.Region, rd.Addr, rd.end(), rd.Bank, rd.Target)
}

// A Layout tells where each region of a container goes and how the VIC is
// configured to show it.
type Layout struct {
	Name    string
	Regions [koala.NumRegions]RegionDescriptor
	VICBank uint8
	Border  hw.Color
}

// RegionFor returns the descriptor of region r.
func (l *Layout) RegionFor(r koala.Region) RegionDescriptor {
	return l.Regions[r]
}

// MemPtr returns the value of the VIC memory pointers register selecting the
// layout screen and bitmap.
func (l *Layout) MemPtr() uint8 {
	base := uint16(l.VICBank) << 14
	scr := l.Regions[koala.Screen].Addr - base
	bmp := l.Regions[koala.Bitmap].Addr - base
	v := uint8(scr/0x400) << 4
	if bmp >= 0x2000 {
		v |= 0x08
	}
	return v | 0x07
}

func ramRegion(r koala.Region, addr uint16, bank hw.BankMode) RegionDescriptor {
	return RegionDescriptor{Region: r, Addr: addr, Size: r.Size(), Bank: bank, Target: TargetRAM}
}

// LayoutLow is the classic layout: bitmap at $2000 and screen at $0400 in
// VIC bank 0. No bank switching is needed.
var LayoutLow = Layout{
	Name: "low",
	Regions: [koala.NumRegions]RegionDescriptor{
		koala.Bitmap:     ramRegion(koala.Bitmap, 0x2000, hw.BankUnchanged),
		koala.Screen:     ramRegion(koala.Screen, 0x0400, hw.BankUnchanged),
		koala.ColorMap:   {Region: koala.ColorMap, Addr: hw.ColorRAMBase, Size: koala.ColorMap.Size(), Bank: hw.BankUnchanged, Target: TargetColorRAM},
		koala.Background: {Region: koala.Background, Addr: hw.RegBG0, Size: 1, Bank: hw.BankUnchanged, Target: TargetVICReg},
	},
	VICBank: 0,
	Border:  hw.Black,
}

// LayoutHigh keeps the lower 48K free: bitmap under the KERNAL at $E000 and
// screen in the RAM under I/O at $D000, in VIC bank 3. The screen can only be
// written with all RAM visible.
var LayoutHigh = Layout{
	Name: "high",
	Regions: [koala.NumRegions]RegionDescriptor{
		koala.Bitmap:     ramRegion(koala.Bitmap, 0xE000, hw.BankUnchanged),
		koala.Screen:     ramRegion(koala.Screen, 0xD000, hw.ModeAllRAM),
		koala.ColorMap:   {Region: koala.ColorMap, Addr: hw.ColorRAMBase, Size: koala.ColorMap.Size(), Bank: hw.BankUnchanged, Target: TargetColorRAM},
		koala.Background: {Region: koala.Background, Addr: hw.RegBG0, Size: 1, Bank: hw.BankUnchanged, Target: TargetVICReg},
	},
	VICBank: 3,
	Border:  hw.Black,
}

var layouts = []*Layout{&LayoutLow, &LayoutHigh}

// LayoutByName returns the predefined layout with the given name.
func LayoutByName(name string) (*Layout, error) {
	for _, l := range layouts {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("unknown layout %q (want one of %s)", name, strings.Join(LayoutNames(), ", "))
}

// LayoutNames returns the names of the predefined layouts.
func LayoutNames() []string {
	names := make([]string, len(layouts))
	for i, l := range layouts {
		names[i] = l.Name
	}
	return names
}

// Validate checks, once and for all, that the layout can be rendered on m:
// every region is reachable with the bank view it's written under, RAM
// regions don't overlap, and the VIC can display the bitmap and screen from
// where they are.
func (l *Layout) Validate(m *hw.Machine) error {
	var errs []error
	var used hwio.AddrSet

	for r := koala.Bitmap; r < koala.NumRegions; r++ {
		rd := l.Regions[r]
		if rd.Region != r {
			errs = append(errs, fmt.Errorf("%s: descriptor is for %s", r, rd.Region))
			continue
		}
		if rd.Size != r.Size() {
			errs = append(errs, fmt.Errorf("%s: size %d, want %d", r, rd.Size, r.Size()))
			continue
		}
		if rd.end() > 0xFFFF {
			errs = append(errs, fmt.Errorf("%s: $%04X+%d exceeds the address space", r, rd.Addr, rd.Size))
			continue
		}

		mode := rd.Bank
		if mode == hw.BankUnchanged {
			mode = m.Port.Mode()
		}
		for a := uint32(rd.Addr); a <= rd.end(); a++ {
			area := mode.View(uint16(a))
			var ok bool
			switch rd.Target {
			case TargetRAM:
				ok = mode.WritesRAM(uint16(a))
			case TargetColorRAM:
				ok = area == hw.AreaIO && a >= hw.ColorRAMBase && a < hw.ColorRAMBase+0x400
			case TargetVICReg:
				ok = area == hw.AreaIO && a >= hw.VICBase && a < hw.VICBase+0x400
			}
			if !ok {
				errs = append(errs, fmt.Errorf("%s: $%04X shows %s with bank %s, can't reach %s", r, a, area, mode, rd.Target))
				break
			}
		}

		if rd.Target == TargetRAM {
			if used.Overlaps(rd.Addr, uint16(rd.end())) {
				errs = append(errs, fmt.Errorf("%s: overlaps another region", rd))
			}
			used.Add(rd.Addr, uint16(rd.end()))
		}
	}

	if l.VICBank > 3 {
		errs = append(errs, fmt.Errorf("invalid VIC bank %d", l.VICBank))
		return errors.Join(errs...)
	}
	base := uint32(l.VICBank) << 14
	checkVIC := func(r koala.Region, align uint32) {
		rd := l.Regions[r]
		off := uint32(rd.Addr) - base
		switch {
		case uint32(rd.Addr) < base || rd.end() >= base+0x4000:
			errs = append(errs, fmt.Errorf("%s: $%04X is outside VIC bank %d", r, rd.Addr, l.VICBank))
		case off%align != 0:
			errs = append(errs, fmt.Errorf("%s: $%04X isn't aligned on $%04X in the VIC bank", r, rd.Addr, align))
		case l.VICBank&1 == 0 && off < 0x2000 && off+uint32(rd.Size) > 0x1000:
			errs = append(errs, fmt.Errorf("%s: $%04X is shadowed by the character ROM", r, rd.Addr))
		}
	}
	checkVIC(koala.Bitmap, 0x2000)
	checkVIC(koala.Screen, 0x400)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("layout %s: %w", l.Name, err)
	}
	return nil
}
