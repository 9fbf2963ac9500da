// Package hw emulates the parts of the Commodore 64 a picture viewer relies
// on: the 64K CPU bus with its processor port banking, the VIC-II video chip
// in bitmap modes, color RAM and the CIA2 port selecting the VIC bank.
package hw

import (
	"fmt"
	"image"

	"koala64/emu/log"
	"koala64/hw/hwio"
)

// ColorRAMBase is the bus address of color RAM (1000 nibbles used, 1K mapped).
const ColorRAMBase = 0xD800

// Machine is an emulated C64, as seen from the CPU bus.
//
// ROM contents are not bundled. Unless loaded with LoadROMs, ROM areas read
// as zero.
type Machine struct {
	Bus  *hwio.Table
	RAM  [0x10000]byte
	Port Port
	VIC  *VIC
	CIA2 CIA2

	ColorRAM hwio.Mem `hwio:"size=0x400,onwrite"`

	BASIC   [0x2000]byte
	KERNAL  [0x2000]byte
	CharROM [0x1000]byte

	ram, basic, kernal, charROM hwio.Mem
}

// NewMachine returns a powered-up C64 with the default memory configuration.
func NewMachine() *Machine {
	m := &Machine{Bus: hwio.NewTable("cpu")}
	hwio.MustInitRegs(m)
	hwio.MustInitRegs(&m.CIA2)
	m.VIC = newVIC(&m.RAM, m.CharROM[:], m.ColorRAM.Data, &m.CIA2)

	m.ram = hwio.Mem{Name: "ram", Data: m.RAM[:]}
	m.basic = hwio.Mem{Name: "basic", Data: m.BASIC[:], VSize: len(m.BASIC), OnWrite: m.writeRAM}
	m.kernal = hwio.Mem{Name: "kernal", Data: m.KERNAL[:], VSize: len(m.KERNAL), OnWrite: m.writeRAM}
	m.charROM = hwio.Mem{Name: "charrom", Data: m.CharROM[:], VSize: len(m.CharROM), OnWrite: m.writeRAM}

	m.Bus.MapBank(0x0000, &m.Port)
	m.mapRAM(0x0002, 0x9FFF)
	m.mapRAM(0xC000, 0xCFFF)
	m.Port.init(m.remap)
	return m
}

// LoadROMs copies the given ROM images into the machine. Each image must
// have the exact size of its ROM.
func (m *Machine) LoadROMs(basic, kernal, char []byte) error {
	for _, rom := range []struct {
		name string
		dst  []byte
		src  []byte
	}{
		{"basic", m.BASIC[:], basic},
		{"kernal", m.KERNAL[:], kernal},
		{"char", m.CharROM[:], char},
	} {
		if len(rom.src) != len(rom.dst) {
			return fmt.Errorf("%s rom: got %d bytes, want %d", rom.name, len(rom.src), len(rom.dst))
		}
		copy(rom.dst, rom.src)
	}
	return nil
}

// Color RAM is 4 bits wide.
func (m *Machine) WriteCOLORRAM(addr uint16, val uint8) {
	m.ColorRAM.Data[addr&0x3FF] = val & 0x0F
}

func (m *Machine) writeRAM(addr uint16, val uint8) {
	m.RAM[addr] = val
}

// RAM is a 64K buffer, so mapping it anywhere gives an identity mapping.
func (m *Machine) mapRAM(begin, end uint16) {
	m.ram.VSize = int(end) - int(begin) + 1
	m.Bus.MapMem(begin, &m.ram)
}

func (m *Machine) mapIO() {
	m.Bus.MapMirrored(VICBase, VICBase+0x3C0, 0x40, m.VIC)
	m.Bus.MapMem(ColorRAMBase, &m.ColorRAM)
	m.Bus.MapMirrored(CIA2PRA, CIA2PRA+0xF0, 0x10, &m.CIA2)
}

// remap rebuilds the banked windows of the bus for mode.
func (m *Machine) remap(mode BankMode) {
	m.Bus.Unmap(0xA000, 0xBFFF)
	m.Bus.Unmap(0xD000, 0xFFFF)

	if mode.View(0xA000) == AreaBASIC {
		m.Bus.MapMem(0xA000, &m.basic)
	} else {
		m.mapRAM(0xA000, 0xBFFF)
	}

	switch mode.View(0xD000) {
	case AreaIO:
		m.mapIO()
	case AreaCharROM:
		m.Bus.MapMem(0xD000, &m.charROM)
	default:
		m.mapRAM(0xD000, 0xDFFF)
	}

	if mode.View(0xE000) == AreaKERNAL {
		m.Bus.MapMem(0xE000, &m.kernal)
	} else {
		m.mapRAM(0xE000, 0xFFFF)
	}

	log.ModMem.DebugZ("remapped").
		Stringer("mode", mode).
		Stringer("a000", mode.View(0xA000)).
		Stringer("d000", mode.View(0xD000)).
		Stringer("e000", mode.View(0xE000)).
		End()
}

// Frame renders the current picture.
func (m *Machine) Frame() *image.RGBA {
	return m.VIC.Frame()
}
