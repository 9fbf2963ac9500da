// Package disk provides the storage devices pictures are loaded from: a host
// directory or a 1541 floppy image, attached to drive numbers like on a C64.
package disk

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrLoadFailure matches every error returned by Drives.Load.
	ErrLoadFailure = errors.New("load failure")

	ErrNotFound      = errors.New("file not found")
	ErrNoDevice      = errors.New("device not present")
	ErrFileTooLarge  = errors.New("file too large")
	ErrInvalidName   = errors.New("invalid file name")
	ErrCorruptImage  = errors.New("corrupt disk image")
	ErrDiskFull      = errors.New("disk full")
	ErrDirectoryFull = errors.New("directory full")
)

// FileType is the type of a directory entry.
type FileType uint8

const (
	DEL FileType = iota
	SEQ
	PRG
	USR
	REL
)

func (t FileType) String() string {
	switch t {
	case DEL:
		return "DEL"
	case SEQ:
		return "SEQ"
	case PRG:
		return "PRG"
	case USR:
		return "USR"
	case REL:
		return "REL"
	}
	return fmt.Sprintf("FileType(%d)", uint8(t))
}

// Entry is a directory entry.
type Entry struct {
	Name   string
	Type   FileType
	Blocks int // size in 254-byte blocks
}

// A Device holds files.
type Device interface {
	// Entries enumerates the directory, in directory order.
	Entries() iter.Seq2[Entry, error]

	// Load reads the named file into buf and returns the number of bytes
	// read. Loading a file larger than buf fails with ErrFileTooLarge.
	Load(name string, buf []byte) (int, error)
}

// Names enumerates the file names of dev.
func Names(dev Device) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for e, err := range dev.Entries() {
			if !yield(e.Name, err) || err != nil {
				return
			}
		}
	}
}

// blocks returns the number of 254-byte blocks needed to store size bytes.
func blocks(size int64) int {
	return int((size + 253) / 254)
}
