package hw

import (
	"koala64/emu/log"
	"koala64/hw/hwio"
)

// CIA2PRA is the bus address of CIA2 port A. Its 2 low bits select the VIC
// bank, inverted.
const CIA2PRA = 0xDD00

// CIA2 is the second 6526 complex interface adapter. Only port A and its data
// direction register are emulated. The 16 registers are mirrored every 16
// bytes over $DD00-$DDFF.
type CIA2 struct {
	PRA  hwio.Reg8 `hwio:"offset=0x00,reset=0x97,onwrite"`
	DDRA hwio.Reg8 `hwio:"offset=0x02,reset=0x3F"`
}

func (c *CIA2) WritePRA(old, val uint8) {
	if (old^val)&3 != 0 {
		log.ModVIC.DebugZ("vic bank").
			Uint8("bank", c.VICBank()).
			End()
	}
}

// VICBank returns the 16K bank selected for the VIC. Lines configured as
// inputs are pulled up.
func (c *CIA2) VICBank() uint8 {
	ddr := c.DDRA.Value
	pra := c.PRA.Value&ddr | ^ddr
	return 3 - pra&3
}

// VICBankBits returns the value of the 2 low bits of PRA selecting bank.
func VICBankBits(bank uint8) uint8 {
	return 3 - bank&3
}
