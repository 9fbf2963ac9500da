package disk

import "fmt"

// PETSCII file names are shown in the uppercase/graphics charset: unshifted
// letters ($41-$5A) read as uppercase on a C64 and are mapped to lowercase
// ASCII, shifted letters ($C1-$DA) to uppercase ASCII.

func petsciiToASCII(b byte) byte {
	switch {
	case b >= 0x41 && b <= 0x5A:
		return b + 0x20
	case b >= 0xC1 && b <= 0xDA:
		return b - 0x80
	case b >= 0x61 && b <= 0x7A:
		return b - 0x20
	case b >= 0x20 && b <= 0x5F:
		return b
	}
	return '?'
}

func asciiToPETSCII(c byte) (byte, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return c - 0x20, true
	case c >= 'A' && c <= 'Z':
		return c + 0x80, true
	case c >= 0x20 && c <= 0x5F:
		return c, true
	}
	return 0, false
}

// encodeName returns the 16-byte, $A0 padded, PETSCII form of name.
func encodeName(name string) ([16]byte, error) {
	var raw [16]byte
	if name == "" || len(name) > len(raw) {
		return raw, fmt.Errorf("%q: %w (1 to 16 characters)", name, ErrInvalidName)
	}
	for i := range raw {
		raw[i] = 0xA0
	}
	for i := range len(name) {
		b, ok := asciiToPETSCII(name[i])
		if !ok {
			return raw, fmt.Errorf("%q: %w (character %q)", name, ErrInvalidName, name[i])
		}
		raw[i] = b
	}
	return raw, nil
}

func decodeName(raw []byte) string {
	buf := make([]byte, 0, len(raw))
	for _, b := range raw {
		if b == 0xA0 {
			break
		}
		buf = append(buf, petsciiToASCII(b))
	}
	return string(buf)
}
