package show

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"koala64/hw"
)

func vicState(m *hw.Machine) []uint8 {
	return []uint8{
		m.VIC.CTRL1.Value,
		m.VIC.CTRL2.Value & 0x3F,
		m.VIC.MEMPTR.Value & 0xFE,
		m.VIC.BORDER.Value & 0x0F,
		m.VIC.BG0.Value & 0x0F,
		m.VIC.Bank(),
	}
}

func TestActivate(t *testing.T) {
	tests := []struct {
		layout *Layout
		want   []uint8
	}{
		{&LayoutLow, []uint8{0x3B, 0x18, 0x1E, 0, uint8(hw.Blue), 0}},
		{&LayoutHigh, []uint8{0x3B, 0x18, 0x4E, 0, uint8(hw.Blue), 3}},
	}
	for _, tt := range tests {
		t.Run(tt.layout.Name, func(t *testing.T) {
			m := hw.NewMachine()
			d := NewDisplay(m.Bus)

			d.Activate(tt.layout)
			if diff := cmp.Diff(tt.want, vicState(m)); diff != "" {
				t.Errorf("VIC state mismatch (-want +got):\n%s", diff)
			}

			// Activating again changes nothing.
			d.Activate(tt.layout)
			if diff := cmp.Diff(tt.want, vicState(m)); diff != "" {
				t.Errorf("VIC state after 2nd Activate mismatch (-want +got):\n%s", diff)
			}
			if d.Activations() != 2 {
				t.Errorf("Activations() = %d, want 2", d.Activations())
			}
		})
	}
}

func TestActivateKeepsBackground(t *testing.T) {
	m := hw.NewMachine()
	m.Bus.Write8(hw.RegBG0, uint8(hw.Purple))

	NewDisplay(m.Bus).Activate(&LayoutLow)
	if got := hw.Color(m.VIC.BG0.Value & 0x0F); got != hw.Purple {
		t.Errorf("bg0 = %s, want purple", got)
	}
}
