package hwio

import (
	"fmt"

	"koala64/emu/log"
)

// Reg8 is an 8-bit chip register.
//
// Bits set in Unused are not connected: they always read back as 1 and
// writing them has no effect. Value only holds the connected bits.
type Reg8 struct {
	Name     string
	Value    uint8
	Unused   uint8
	ReadOnly bool // CPU writes are dropped

	// OnWrite, if set, is called after each CPU write with the previous and
	// the new value of the connected bits.
	OnWrite func(old, val uint8)
}

func (reg Reg8) String() string {
	return fmt.Sprintf("%s=$%02X", reg.Name, reg.Get())
}

// Get returns the value seen by the CPU.
func (reg *Reg8) Get() uint8 {
	return reg.Value | reg.Unused
}

// Set changes the value without side effect.
func (reg *Reg8) Set(val uint8) {
	reg.Value = val &^ reg.Unused
}

func (reg *Reg8) Read8(uint16) uint8 {
	return reg.Get()
}

func (reg *Reg8) Write8(addr uint16, val uint8) {
	if reg.ReadOnly {
		log.ModHwIo.DebugZ("write to read-only register").
			String("reg", reg.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	old := reg.Value
	reg.Set(val)
	if reg.OnWrite != nil {
		reg.OnWrite(old, reg.Value)
	}
}
