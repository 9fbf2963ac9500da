package disk

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// Dir is a device backed by a host directory. Every regular file is a PRG.
type Dir struct {
	Path string
}

func (d Dir) Entries() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		ents, err := os.ReadDir(d.Path)
		if err != nil {
			yield(Entry{}, err)
			return
		}
		for _, de := range ents {
			if !de.Type().IsRegular() {
				continue
			}
			fi, err := de.Info()
			if err != nil {
				if !yield(Entry{}, err) {
					return
				}
				continue
			}
			if !yield(Entry{Name: de.Name(), Type: PRG, Blocks: blocks(fi.Size())}, nil) {
				return
			}
		}
	}
}

func (d Dir) Load(name string, buf []byte) (int, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return 0, fmt.Errorf("%q: %w", name, ErrInvalidName)
	}

	f, err := os.Open(filepath.Join(d.Path, name))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := io.ReadFull(f, buf)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return n, nil
	case err != nil:
		return n, err
	}

	// buf is full, the file must end here.
	var extra [1]byte
	if m, _ := f.Read(extra[:]); m != 0 {
		return n, fmt.Errorf("%s: %w (more than %d bytes)", name, ErrFileTooLarge, len(buf))
	}
	return n, nil
}
