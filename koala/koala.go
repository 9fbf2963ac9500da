// Package koala implements a codec for Koala Painter multicolor bitmap
// images, as stored on C64 disks: a 2-byte load address followed by the
// bitmap, the screen RAM, the color RAM and the background color.
package koala

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	HeaderSize  = 2                        // load address
	PayloadSize = 10001                    // bitmap + screen + colors + background
	FileSize    = HeaderSize + PayloadSize // 10003

	// DefaultLoadAddress is where Koala Painter saves its pictures.
	DefaultLoadAddress = 0x6000
)

// ErrMalformedContainer is returned when the data doesn't have the size of a
// Koala container.
var ErrMalformedContainer = errors.New("malformed container")

// A Region identifies one of the sub-regions of a container.
type Region uint8

const (
	Bitmap     Region = iota // 8000 bytes, 320x200 pixels in 8x8 cells
	Screen                   // 1000 bytes, colors for bit pairs 01 and 10
	ColorMap                 // 1000 bytes, color for bit pair 11 (low nibble)
	Background               // 1 byte, color for bit pair 00

	NumRegions
)

var regions = [NumRegions]struct {
	name string
	off  int // from payload start
	size int
}{
	Bitmap:     {"bitmap", 0, 8000},
	Screen:     {"screen", 8000, 1000},
	ColorMap:   {"colormap", 9000, 1000},
	Background: {"background", 10000, 1},
}

func (r Region) String() string {
	if r < NumRegions {
		return regions[r].name
	}
	return fmt.Sprintf("Region(%d)", uint8(r))
}

// Offset returns the region offset, from the start of the payload.
func (r Region) Offset() int { return regions[r].off }

// Size returns the region size in bytes.
func (r Region) Size() int { return regions[r].size }

// Container is a Koala image. It references its backing buffer, which must
// not be modified while the container is in use.
type Container struct {
	raw []byte
}

// Parse returns a container backed by raw, which must be exactly FileSize
// bytes long.
func Parse(raw []byte) (*Container, error) {
	if len(raw) != FileSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedContainer, len(raw), FileSize)
	}
	return &Container{raw: raw[:FileSize:FileSize]}, nil
}

// Open loads a container from file.
func Open(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := new(Container)
	if _, err := c.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ReadFrom implements io.ReaderFrom interface
func (c *Container) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(io.LimitReader(r, FileSize+1))
	if err != nil {
		return int64(len(buf)), err
	}
	pc, err := Parse(buf)
	if err != nil {
		return int64(len(buf)), err
	}
	*c = *pc
	return int64(len(buf)), nil
}

// Slice returns a read-only window over the given region. The capacity is
// bounded so that appending to it can't overwrite the next region.
func (c *Container) Slice(r Region) []byte {
	off := HeaderSize + r.Offset()
	end := off + r.Size()
	return c.raw[off:end:end]
}

// BackgroundColor returns the value of the background color region.
func (c *Container) BackgroundColor() uint8 {
	return c.raw[HeaderSize+Background.Offset()]
}

// LoadAddress returns the address stored in the file header.
func (c *Container) LoadAddress() uint16 {
	return binary.LittleEndian.Uint16(c.raw[:HeaderSize])
}

// Bytes returns the whole container, header included.
func (c *Container) Bytes() []byte {
	return c.raw
}
