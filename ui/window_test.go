package ui

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestLetterbox(t *testing.T) {
	tests := []struct {
		name         string
		dw, dh       int32
		x, y, vw, vh int32
	}{
		{name: "exact", dw: 768, dh: 544, x: 0, y: 0, vw: 768, vh: 544},
		{name: "wide", dw: 1000, dh: 544, x: 116, y: 0, vw: 768, vh: 544},
		{name: "tall", dw: 384, dh: 600, x: 0, y: 164, vw: 384, vh: 272},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, vw, vh := letterbox(tt.dw, tt.dh, 384, 272)
			if x != tt.x || y != tt.y || vw != tt.vw || vh != tt.vh {
				t.Errorf("letterbox(%d, %d) = %d,%d %dx%d, want %d,%d %dx%d",
					tt.dw, tt.dh, x, y, vw, vh, tt.x, tt.y, tt.vw, tt.vh)
			}
		})
	}
}

func TestDamages(t *testing.T) {
	for ev, want := range map[sdl.WindowEventID]bool{
		sdl.WINDOWEVENT_SIZE_CHANGED: true,
		sdl.WINDOWEVENT_EXPOSED:      true,
		sdl.WINDOWEVENT_RESTORED:     true,
		sdl.WINDOWEVENT_MOVED:        false,
		sdl.WINDOWEVENT_FOCUS_GAINED: false,
	} {
		if got := damages(ev); got != want {
			t.Errorf("damages(%d) = %t, want %t", ev, got, want)
		}
	}
}
