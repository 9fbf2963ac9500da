package hwio

import "testing"

func TestAddrSet(t *testing.T) {
	var s AddrSet
	if s.Overlaps(0, 0xFFFF) {
		t.Fatalf("zero AddrSet isn't empty")
	}

	s.Add(0x6000, 0x7F3F) // bitmap
	s.Add(0x5C00, 0x5FE7) // screen

	tests := []struct {
		begin, end uint16
		want       bool
	}{
		{0x0000, 0x5BFF, false},
		{0x5FE8, 0x5FFF, false},
		{0x5FE7, 0x5FE7, true},
		{0x7F3F, 0x8000, true},
		{0x7F40, 0xFFFF, false},
		{0x4000, 0x9000, true},
		{0x603F, 0x6040, true},
		{0x9000, 0x8000, false}, // empty range
	}
	for _, tt := range tests {
		if got := s.Overlaps(tt.begin, tt.end); got != tt.want {
			t.Errorf("Overlaps($%04X, $%04X) = %t, want %t", tt.begin, tt.end, got, tt.want)
		}
	}
}

func TestAddrSetWordBoundaries(t *testing.T) {
	for _, r := range [][2]uint16{{0, 0}, {63, 64}, {64, 127}, {0xFFC0, 0xFFFF}, {0, 0xFFFF}} {
		var s AddrSet
		s.Add(r[0], r[1])
		for _, a := range []int{int(r[0]) - 1, int(r[1]) + 1} {
			if a < 0 || a > 0xFFFF {
				continue
			}
			if s.Overlaps(uint16(a), uint16(a)) {
				t.Errorf("Add($%04X, $%04X) contains $%04X", r[0], r[1], a)
			}
		}
		for _, a := range []uint16{r[0], r[1]} {
			if !s.Overlaps(a, a) {
				t.Errorf("Add($%04X, $%04X) doesn't contain $%04X", r[0], r[1], a)
			}
		}
	}
}
