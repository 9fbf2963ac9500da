package ui

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"koala64/emu/log"
)

// PNGSink writes each presented frame as a numbered PNG file in a directory.
// Consecutive identical frames are written once.
type PNGSink struct {
	Dir    string
	Prefix string // file name prefix, "frame" if empty

	n    int
	last []byte
	buf  bytes.Buffer
}

// Present encodes img into the next numbered file.
func (s *PNGSink) Present(img *image.RGBA) error {
	if bytes.Equal(s.last, img.Pix) {
		return nil
	}

	s.buf.Reset()
	if err := png.Encode(&s.buf, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	prefix := s.Prefix
	if prefix == "" {
		prefix = "frame"
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("%s-%04d.png", prefix, s.n))
	if err := os.WriteFile(path, s.buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	s.n++
	s.last = append(s.last[:0], img.Pix...)

	log.ModUI.DebugZ("frame written").String("path", path).End()
	return nil
}

// Written returns the number of files written so far.
func (s *PNGSink) Written() int { return s.n }
