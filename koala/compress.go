package koala

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ErrCorruptStream is returned when compressed data is not a valid zlib
// stream or doesn't inflate to exactly FileSize bytes.
var ErrCorruptStream = errors.New("corrupt stream")

// Expand inflates a compressed container into a newly allocated buffer.
func Expand(compressed []byte) (*Container, error) {
	return ExpandTo(make([]byte, FileSize), compressed)
}

// ExpandTo inflates a compressed container into dst, which must be at least
// FileSize bytes long. The returned container is backed by dst.
func ExpandTo(dst, compressed []byte) (*Container, error) {
	if len(dst) < FileSize {
		return nil, fmt.Errorf("destination buffer too small: %d bytes", len(dst))
	}
	dst = dst[:FileSize]

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}
	defer zr.Close()

	n, err := io.ReadFull(zr, dst)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: inflates to %d bytes, want %d", ErrCorruptStream, n, FileSize)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}

	// The stream must end here, this also verifies the checksum.
	var extra [1]byte
	switch _, err := io.ReadFull(zr, extra[:]); {
	case err == nil:
		return nil, fmt.Errorf("%w: inflates to more than %d bytes", ErrCorruptStream, FileSize)
	case !errors.Is(err, io.EOF):
		return nil, fmt.Errorf("%w: %v", ErrCorruptStream, err)
	}

	return Parse(dst)
}

// Compress writes c to w as a compressed container.
func Compress(w io.Writer, c *Container) error {
	zw, err := zlib.NewWriterLevel(w, zlib.BestCompression)
	if err != nil {
		return err
	}
	if _, err := zw.Write(c.Bytes()); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
