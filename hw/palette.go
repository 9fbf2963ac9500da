package hw

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is one of the 16 fixed VIC-II colors.
type Color uint8

const (
	Black Color = iota
	White
	Red
	Cyan
	Purple
	Green
	Blue
	Yellow
	Orange
	Brown
	LightRed
	DarkGrey
	Grey
	LightGreen
	LightBlue
	LightGrey
)

var colorNames = [16]string{
	"black", "white", "red", "cyan", "purple", "green", "blue", "yellow",
	"orange", "brown", "light red", "dark grey", "grey", "light green",
	"light blue", "light grey",
}

func (c Color) String() string {
	if c < 16 {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// ColorByName returns the color with the given name.
func ColorByName(name string) (Color, bool) {
	for i, n := range colorNames {
		if n == name {
			return Color(i), true
		}
	}
	return 0, false
}

func (c Color) MarshalText() ([]byte, error) {
	if c > LightGrey {
		return nil, fmt.Errorf("invalid color %d", uint8(c))
	}
	return []byte(colorNames[c]), nil
}

// UnmarshalText accepts a color name, with spaces or dashes between words
// ("light-blue"), or a color number from 0 to 15.
func (c *Color) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if n, err := strconv.ParseUint(s, 0, 8); err == nil {
		if n > uint64(LightGrey) {
			return fmt.Errorf("invalid color number %d", n)
		}
		*c = Color(n)
		return nil
	}
	col, ok := ColorByName(strings.NewReplacer("-", " ", "_", " ").Replace(s))
	if !ok {
		return fmt.Errorf("unknown color %q", string(text))
	}
	*c = col
	return nil
}

// Palette holds the RGB values of the VIC-II colors (Pepto's measurements).
var Palette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xff},
	{0xff, 0xff, 0xff, 0xff},
	{0x68, 0x37, 0x2b, 0xff},
	{0x70, 0xa4, 0xb2, 0xff},
	{0x6f, 0x3d, 0x86, 0xff},
	{0x58, 0x8d, 0x43, 0xff},
	{0x35, 0x28, 0x79, 0xff},
	{0xb8, 0xc7, 0x6f, 0xff},
	{0x6f, 0x4f, 0x25, 0xff},
	{0x43, 0x39, 0x00, 0xff},
	{0x9a, 0x67, 0x59, 0xff},
	{0x44, 0x44, 0x44, 0xff},
	{0x6c, 0x6c, 0x6c, 0xff},
	{0x9a, 0xd2, 0x84, 0xff},
	{0x6c, 0x5e, 0xb5, 0xff},
	{0x95, 0x95, 0x95, 0xff},
}

// RGBA returns the palette entry of c. Only the low nibble is significant.
func (c Color) RGBA() color.RGBA {
	return Palette[c&0x0F]
}
