package show

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"koala64/hw"
	"koala64/koala"
)

func TestLayoutsValidate(t *testing.T) {
	for _, name := range LayoutNames() {
		t.Run(name, func(t *testing.T) {
			l, err := LayoutByName(name)
			if err != nil {
				t.Fatal(err)
			}
			if err := l.Validate(hw.NewMachine()); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
			for r := koala.Bitmap; r < koala.NumRegions; r++ {
				if got := l.RegionFor(r).Region; got != r {
					t.Errorf("RegionFor(%s).Region = %s", r, got)
				}
			}
		})
	}

	if _, err := LayoutByName("middle"); err == nil {
		t.Errorf("LayoutByName(middle) should fail")
	}
}

func TestLayoutMemPtr(t *testing.T) {
	got := []uint8{LayoutLow.MemPtr(), LayoutHigh.MemPtr()}
	if diff := cmp.Diff([]uint8{0x1F, 0x4F}, got); diff != "" {
		t.Errorf("MemPtr() mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(l *Layout)
	}{
		{
			name: "screen overlaps bitmap",
			modify: func(l *Layout) {
				l.Regions[koala.Screen].Addr = 0x2400
			},
		},
		{
			name: "color map in all-RAM mode",
			modify: func(l *Layout) {
				l.Regions[koala.ColorMap].Bank = hw.ModeAllRAM
			},
		},
		{
			name: "screen under I/O without bank switch",
			modify: func(l *Layout) {
				*l = LayoutHigh
				l.Regions[koala.Screen].Bank = hw.BankUnchanged
			},
		},
		{
			name: "screen shadowed by character ROM",
			modify: func(l *Layout) {
				l.Regions[koala.Screen].Addr = 0x1000
			},
		},
		{
			name: "bitmap not aligned",
			modify: func(l *Layout) {
				l.Regions[koala.Bitmap].Addr = 0x2400
				l.Regions[koala.Screen].Addr = 0x0400
			},
		},
		{
			name: "bitmap outside VIC bank",
			modify: func(l *Layout) {
				l.Regions[koala.Bitmap].Addr = 0x6000
			},
		},
		{
			name: "past the address space",
			modify: func(l *Layout) {
				l.Regions[koala.Bitmap].Addr = 0xF000
			},
		},
		{
			name: "wrong size",
			modify: func(l *Layout) {
				l.Regions[koala.Screen].Size = 1024
			},
		},
		{
			name: "background not on a register",
			modify: func(l *Layout) {
				l.Regions[koala.Background].Addr = 0xDC21
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := LayoutLow
			tt.modify(&l)
			err := l.Validate(hw.NewMachine())
			if err == nil {
				t.Fatalf("Validate() should fail")
			}
			t.Log(err)
		})
	}
}

func TestLayoutValidateWithMachineMode(t *testing.T) {
	// With the I/O area switched out, regions relying on the default view
	// become unreachable.
	m := hw.NewMachine()
	m.Port.Select(hw.ModeAllRAM)
	if err := LayoutLow.Validate(m); err == nil {
		t.Errorf("Validate() should fail with all RAM selected")
	}
}

func TestLayoutValidateWithInputLines(t *testing.T) {
	// Banking lines as inputs read as 1, the default view.
	m := hw.NewMachine()
	m.Bus.Write8(0x0000, 0x28)
	for _, l := range []*Layout{&LayoutLow, &LayoutHigh} {
		if err := l.Validate(m); err != nil {
			t.Errorf("Validate(%s) = %v", l.Name, err)
		}
	}
}
