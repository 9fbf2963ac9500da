package disk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"koala64/emu/log"
)

// DefaultDevice is the drive number of the first disk drive.
const DefaultDevice = 8

// LoadError is the error returned by Drives.Load.
type LoadError struct {
	Name   string
	Device uint8
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q,%d: %v", e.Name, e.Device, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoadFailure }

// Drives maps drive numbers to devices and implements the KERNAL-like load
// primitive.
type Drives struct {
	devices map[uint8]Device

	// StatusQuirk makes Load report success, with nothing loaded, when
	// the load fails. This is how the load routine of some C libraries
	// behaves, callers must then validate what they get.
	StatusQuirk bool
}

func NewDrives() *Drives {
	return &Drives{devices: make(map[uint8]Device)}
}

// Attach connects dev as drive number num.
func (d *Drives) Attach(num uint8, dev Device) {
	d.devices[num] = dev
	log.ModDisk.InfoZ("device attached").
		Uint8("num", num).
		String("type", fmt.Sprintf("%T", dev)).
		End()
}

// Load loads the named file from drive device into buf.
func (d *Drives) Load(name string, device uint8, buf []byte) (int, error) {
	dev, ok := d.devices[device]
	if !ok {
		return 0, d.failed(&LoadError{Name: name, Device: device, Err: ErrNoDevice})
	}
	n, err := dev.Load(name, buf)
	if err != nil {
		return 0, d.failed(&LoadError{Name: name, Device: device, Err: err})
	}

	log.ModDisk.DebugZ("loaded").
		String("name", name).
		Uint8("dev", device).
		Int("bytes", n).
		End()
	return n, nil
}

func (d *Drives) failed(err *LoadError) error {
	if d.StatusQuirk {
		log.ModDisk.DebugZ("load error hidden").Error("err", err).End()
		return nil
	}
	return err
}

// Open returns the device for path: a .d64 image or a directory.
func Open(path string) (Device, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return Dir{Path: path}, nil
	}
	if strings.EqualFold(filepath.Ext(path), ".d64") {
		return OpenD64(path)
	}
	return nil, fmt.Errorf("%s: not a directory nor a .d64 image", path)
}
