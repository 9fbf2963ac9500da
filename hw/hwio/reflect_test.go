package hwio

import "testing"

type port struct {
	DDR  Reg8 `hwio:"offset=0x0,reset=0x2F,onwrite"`
	Data Reg8 `hwio:"offset=0x1,reset=0x37,unused=0xC0,onwrite=DataWritten"`
	RAM  Mem  `hwio:"size=0x100,vsize=0x400,onwrite"`

	ddrWrites, dataWrites, ramWrites int
}

func (p *port) WriteDDR(old, val uint8)         { p.ddrWrites++ }
func (p *port) DataWritten(old, val uint8)      { p.dataWrites++ }
func (p *port) WriteRAM(addr uint16, val uint8) { p.ramWrites++ }

func TestInitRegs(t *testing.T) {
	p := &port{}
	if err := InitRegs(p); err != nil {
		t.Fatal(err)
	}

	if p.DDR.Name != "DDR" || p.Data.Name != "Data" || p.RAM.Name != "RAM" {
		t.Errorf("names = %q %q %q", p.DDR.Name, p.Data.Name, p.RAM.Name)
	}
	if p.DDR.Get() != 0x2F {
		t.Errorf("DDR = $%02X, want $2F", p.DDR.Get())
	}
	if p.Data.Value != 0x37 || p.Data.Unused != 0xC0 || p.Data.Get() != 0xF7 {
		t.Errorf("Data = %+v", p.Data)
	}

	p.DDR.Write8(0, 0)
	p.RAM.OnWrite(0, 0)
	if p.ddrWrites != 1 || p.ramWrites != 1 {
		t.Errorf("handlers called %d, %d times, want 1, 1", p.ddrWrites, p.ramWrites)
	}

	if len(p.RAM.Data) != 0x100 || p.RAM.size() != 0x400 {
		t.Errorf("RAM: len(Data)=%x size=%x, want 100, 400", len(p.RAM.Data), p.RAM.size())
	}
}

type unexported struct {
	Data Reg8 `hwio:"offset=0x1,onwrite=dataWritten"`
}

func (u *unexported) dataWritten(old, val uint8) {}

type badHandler struct {
	Reg Reg8 `hwio:"offset=0,onwrite"`
}

func (b *badHandler) WriteREG(addr uint16, val uint8) {}

func TestBankRegs(t *testing.T) {
	p := &port{}
	regs, err := bankRegs(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(regs) != 2 {
		t.Fatalf("got %d regs in bank, want 2", len(regs))
	}
	if regs[1].offset != 1 || regs[1].ptr != &p.Data {
		t.Errorf("regs[1] = %+v", regs[1])
	}
}

func TestInitRegsErrors(t *testing.T) {
	type (
		missingHandler struct {
			Reg Reg8 `hwio:"offset=0,onwrite"`
		}
		badOption struct {
			Reg Reg8 `hwio:"offset=0,rwmask=0xF0"`
		}
		badReset struct {
			Reg Reg8 `hwio:"reset=0x100"`
		}
		memNoSize struct {
			M Mem `hwio:"offset=0"`
		}
		badType struct {
			N int `hwio:"offset=0"`
		}
	)
	tests := []struct {
		name string
		bank any
	}{
		{"missing handler", &missingHandler{}},
		{"unexported handler", &unexported{}},
		{"handler type", &badHandler{}},
		{"unknown option", &badOption{}},
		{"reset overflow", &badReset{}},
		{"mem without size", &memNoSize{}},
		{"unsupported type", &badType{}},
		{"not a pointer", missingHandler{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := InitRegs(tt.bank); err == nil {
				t.Errorf("InitRegs succeeded, want error")
			}
		})
	}
}
