package hwio

import "testing"

func TestReg8Unused(t *testing.T) {
	r := Reg8{Name: "BORDER", Unused: 0xF0}
	r.Set(0xFE)

	if r.Value != 0x0E {
		t.Errorf("Value = $%02X, want $0E", r.Value)
	}
	if got := r.Read8(0xD020); got != 0xFE {
		t.Errorf("Read8 = $%02X, want $FE", got)
	}

	r.Write8(0xD020, 0x05)
	if got := r.Read8(0xD060); got != 0xF5 {
		t.Errorf("Read8 after write = $%02X, want $F5", got)
	}
	if got, want := r.String(), "BORDER=$F5"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestReg8ReadOnly(t *testing.T) {
	called := false
	r := Reg8{Name: "RASTER", Value: 0x42, ReadOnly: true, OnWrite: func(_, _ uint8) { called = true }}
	r.Write8(0xD012, 0x00)
	if r.Value != 0x42 || called {
		t.Errorf("read-only register written: $%02X, handler called: %t", r.Value, called)
	}
}

func TestReg8OnWrite(t *testing.T) {
	var gotOld, gotVal uint8
	r := Reg8{
		Value:   0x01,
		Unused:  0xC0,
		OnWrite: func(old, val uint8) { gotOld, gotVal = old, val },
	}

	r.Write8(0, 0xF3)
	if gotOld != 0x01 || gotVal != 0x33 {
		t.Errorf("OnWrite($%02X, $%02X), want ($01, $33)", gotOld, gotVal)
	}
}
