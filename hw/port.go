package hw

import (
	"fmt"

	"koala64/emu/log"
	"koala64/hw/hwio"
)

// BankMode is the effective value of the 3 banking bits of the 6510
// processor port. It selects what the CPU sees at $A000-$BFFF, $D000-$DFFF
// and $E000-$FFFF.
type BankMode uint8

const (
	LORAM  BankMode = 1 << 0 // BASIC ROM at $A000 (with HIRAM)
	HIRAM  BankMode = 1 << 1 // KERNAL ROM at $E000
	CHAREN BankMode = 1 << 2 // I/O rather than character ROM at $D000

	ModeAllRAM   BankMode = 0                       // RAM everywhere
	ModeIO       BankMode = CHAREN | LORAM          // RAM everywhere but I/O
	ModeIOKernal BankMode = CHAREN | HIRAM          // I/O and KERNAL
	ModeDefault  BankMode = CHAREN | HIRAM | LORAM  // BASIC, I/O and KERNAL (power-up)
	modeMask     BankMode = CHAREN | HIRAM | LORAM

	// BankUnchanged is not a mode, it tells a bank-sensitive operation to
	// use whatever mode is currently selected.
	BankUnchanged BankMode = 0xFF
)

func (m BankMode) String() string {
	if m == BankUnchanged {
		return "unchanged"
	}
	return fmt.Sprintf("%%%03b", uint8(m&modeMask))
}

// Area is what an address window shows to the CPU.
type Area uint8

const (
	AreaRAM Area = iota
	AreaBASIC
	AreaKERNAL
	AreaCharROM
	AreaIO
)

func (a Area) String() string {
	switch a {
	case AreaRAM:
		return "RAM"
	case AreaBASIC:
		return "BASIC"
	case AreaKERNAL:
		return "KERNAL"
	case AreaCharROM:
		return "CHARROM"
	case AreaIO:
		return "IO"
	}
	return "?"
}

// View returns what the CPU sees at addr when mode m is selected.
func (m BankMode) View(addr uint16) Area {
	lo, hi := m&LORAM != 0, m&HIRAM != 0
	switch {
	case addr >= 0xA000 && addr < 0xC000:
		if lo && hi {
			return AreaBASIC
		}
	case addr >= 0xD000 && addr < 0xE000:
		if !lo && !hi {
			return AreaRAM
		}
		if m&CHAREN != 0 {
			return AreaIO
		}
		return AreaCharROM
	case addr >= 0xE000:
		if hi {
			return AreaKERNAL
		}
	}
	return AreaRAM
}

// WritesRAM reports whether a CPU write at addr lands in RAM. Writes to
// ROM areas go to the RAM underneath, writes to the I/O area don't.
func (m BankMode) WritesRAM(addr uint16) bool {
	return m.View(addr) != AreaIO
}

// Port is the 6510 on-chip I/O port, mapped at $0000-$0001. Only the bits
// involved in memory banking are emulated.
type Port struct {
	DDR  hwio.Reg8 `hwio:"offset=0x00,reset=0x2F,onwrite"`
	Data hwio.Reg8 `hwio:"offset=0x01,reset=0x37,onwrite"`

	mode  BankMode
	remap func(BankMode)
}

func (p *Port) init(remap func(BankMode)) {
	hwio.MustInitRegs(p)
	p.remap = remap
	p.mode = p.effective()
	p.remap(p.mode)
}

func (p *Port) WriteDDR(old, val uint8)  { p.update() }
func (p *Port) WriteDATA(old, val uint8) { p.update() }

// Lines configured as inputs are pulled up.
func (p *Port) effective() BankMode {
	ddr := p.DDR.Value
	return BankMode((p.Data.Value&ddr)|^ddr) & modeMask
}

func (p *Port) update() {
	mode := p.effective()
	if mode == p.mode {
		return
	}
	log.ModMem.DebugZ("bank switch").
		Stringer("from", p.mode).
		Stringer("to", mode).
		End()
	p.mode = mode
	p.remap(mode)
}

// Mode returns the bank mode currently in effect.
func (p *Port) Mode() BankMode {
	return p.mode
}

// Select drives the banking lines as outputs and writes the data port so
// that mode m is in effect whatever the DDR held.
func (p *Port) Select(m BankMode) {
	p.DDR.Write8(0x00, p.DDR.Value|uint8(modeMask))
	p.Data.Write8(0x01, p.Data.Value&^uint8(modeMask)|uint8(m&modeMask))
}

// Acquire selects mode m and returns the function restoring both port
// registers to their value before the call. Callers should defer the
// release so the mode is restored on every exit path.
func (p *Port) Acquire(m BankMode) (release func()) {
	ddr, data := p.DDR.Value, p.Data.Value
	p.Select(m)
	return func() {
		p.Data.Write8(0x01, data)
		p.DDR.Write8(0x00, ddr)
	}
}
