package disk

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"os"
)

// 1541 disk geometry.
const (
	NumTracks   = 35
	NumSectors  = 683
	SectorSize  = 256
	D64Size     = NumSectors * SectorSize // 174848
	D64SizeErr  = D64Size + NumSectors    // with error bytes
	dirTrack    = 18
	bamSector   = 0
	dirSector   = 1
	entrySize   = 32
	blockData   = SectorSize - 2
	typeClosed  = 0x80
	typeMask    = 0x07
	errCodeNone = 0x01
)

// SectorsPerTrack returns the number of sectors of track (1-based).
func SectorsPerTrack(track int) int {
	switch {
	case track <= 17:
		return 21
	case track <= 24:
		return 19
	case track <= 30:
		return 18
	}
	return 17
}

// D64 is a 1541 floppy disk image.
type D64 struct {
	data   []byte // NumSectors * SectorSize
	errors []byte // one error code per sector, nil if absent
}

// ts is a track/sector pair.
type ts struct{ track, sector uint8 }

func (p ts) String() string { return fmt.Sprintf("%d/%d", p.track, p.sector) }

func (p ts) valid() bool {
	return p.track >= 1 && p.track <= NumTracks && int(p.sector) < SectorsPerTrack(int(p.track))
}

// index returns the linear sector number of p, which must be valid.
func (p ts) index() int {
	idx := 0
	for t := 1; t < int(p.track); t++ {
		idx += SectorsPerTrack(t)
	}
	return idx + int(p.sector)
}

// OpenD64 loads a disk image from file.
func OpenD64(path string) (*D64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := ParseD64(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ParseD64 returns the disk image backed by data.
func ParseD64(data []byte) (*D64, error) {
	switch len(data) {
	case D64Size:
		return &D64{data: data}, nil
	case D64SizeErr:
		return &D64{data: data[:D64Size], errors: data[D64Size:]}, nil
	}
	return nil, fmt.Errorf("%w: size %d, want %d or %d", ErrCorruptImage, len(data), D64Size, D64SizeErr)
}

// NewD64 returns a freshly formatted disk.
func NewD64(name, id string) (*D64, error) {
	rawName, err := encodeName(name)
	if err != nil {
		return nil, err
	}
	d := &D64{data: make([]byte, D64Size)}

	bam := d.sector(ts{dirTrack, bamSector})
	bam[0], bam[1] = dirTrack, dirSector
	bam[2] = 'A'
	for t := 1; t <= NumTracks; t++ {
		n := SectorsPerTrack(t)
		e := bam[4*t : 4*t+4]
		e[0] = uint8(n)
		bits := uint32(1)<<n - 1
		e[1], e[2], e[3] = uint8(bits), uint8(bits>>8), uint8(bits>>16)
	}
	copy(bam[0x90:0xA0], rawName[:])
	for i := 0xA0; i <= 0xAA; i++ {
		bam[i] = 0xA0
	}
	for i := 0; i < 2 && i < len(id); i++ {
		bam[0xA2+i] = id[i]
	}
	bam[0xA5], bam[0xA6] = '2', 'A'

	d.allocate(ts{dirTrack, bamSector})
	d.allocate(ts{dirTrack, dirSector})
	dir := d.sector(ts{dirTrack, dirSector})
	dir[0], dir[1] = 0, 0xFF
	return d, nil
}

func (d *D64) sector(p ts) []byte {
	off := p.index() * SectorSize
	return d.data[off : off+SectorSize : off+SectorSize]
}

// readSector returns the content of sector p, failing if it's out of the
// disk geometry or if the image flags it with a read error.
func (d *D64) readSector(p ts) ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("%w: illegal track or sector %s", ErrCorruptImage, p)
	}
	if d.errors != nil {
		if code := d.errors[p.index()]; code != 0 && code != errCodeNone {
			return nil, fmt.Errorf("read error %d on %s", code+18, p)
		}
	}
	return d.sector(p), nil
}

// chain iterates over the sectors of a chain starting at first.
func (d *D64) chain(first ts) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		visited := make(map[ts]bool)
		for p := first; ; {
			if visited[p] {
				yield(nil, fmt.Errorf("%w: sector chain loops on %s", ErrCorruptImage, p))
				return
			}
			visited[p] = true

			sec, err := d.readSector(p)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(sec, nil) || sec[0] == 0 {
				return
			}
			p = ts{sec[0], sec[1]}
		}
	}
}

type dirEntry struct {
	Entry
	first ts
}

func (d *D64) dirEntries() iter.Seq2[dirEntry, error] {
	return func(yield func(dirEntry, error) bool) {
		for sec, err := range d.chain(ts{dirTrack, dirSector}) {
			if err != nil {
				yield(dirEntry{}, err)
				return
			}
			for off := 0; off < SectorSize; off += entrySize {
				raw := sec[off : off+entrySize]
				if raw[2]&typeClosed == 0 {
					continue // deleted or never used
				}
				de := dirEntry{
					Entry: Entry{
						Name:   decodeName(raw[5:21]),
						Type:   FileType(raw[2] & typeMask),
						Blocks: int(raw[30]) | int(raw[31])<<8,
					},
					first: ts{raw[3], raw[4]},
				}
				if !yield(de, nil) {
					return
				}
			}
		}
	}
}

func (d *D64) Entries() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for de, err := range d.dirEntries() {
			if !yield(de.Entry, err) || err != nil {
				return
			}
		}
	}
}

func (d *D64) lookup(name string) (dirEntry, error) {
	for de, err := range d.dirEntries() {
		if err != nil {
			return dirEntry{}, err
		}
		if de.Name == name {
			return de, nil
		}
	}
	return dirEntry{}, fmt.Errorf("%s: %w", name, ErrNotFound)
}

// Load reads the whole content of a file, load address included. Load doesn't
// modify the image and is safe for concurrent use.
func (d *D64) Load(name string, buf []byte) (int, error) {
	de, err := d.lookup(name)
	if err != nil {
		return 0, err
	}

	n := 0
	for sec, err := range d.chain(de.first) {
		if err != nil {
			return n, fmt.Errorf("%s: %w", name, err)
		}
		data := sec[2:]
		if sec[0] == 0 {
			// Last sector: byte 1 is the index of the last used byte.
			if sec[1] < 1 {
				return n, fmt.Errorf("%s: %w: invalid last sector", name, ErrCorruptImage)
			}
			data = sec[2 : int(sec[1])+1]
		}
		if n+len(data) > len(buf) {
			return n, fmt.Errorf("%s: %w (more than %d bytes)", name, ErrFileTooLarge, len(buf))
		}
		n += copy(buf[n:], data)
	}
	return n, nil
}

// Name returns the disk name.
func (d *D64) Name() string {
	return decodeName(d.sector(ts{dirTrack, bamSector})[0x90:0xA0])
}

func (d *D64) bamEntry(track uint8) []byte {
	bam := d.sector(ts{dirTrack, bamSector})
	return bam[4*int(track) : 4*int(track)+4]
}

func (d *D64) isFree(p ts) bool {
	e := d.bamEntry(p.track)
	return e[1+p.sector/8]&(1<<(p.sector%8)) != 0
}

func (d *D64) allocate(p ts) {
	e := d.bamEntry(p.track)
	if d.isFree(p) {
		e[1+p.sector/8] &^= 1 << (p.sector % 8)
		e[0]--
	}
}

// BlocksFree returns the number of free blocks, the directory track excluded.
func (d *D64) BlocksFree() int {
	free := 0
	for t := uint8(1); t <= NumTracks; t++ {
		if t != dirTrack {
			free += int(d.bamEntry(t)[0])
		}
	}
	return free
}

// freeSector finds and allocates a free sector on any track but the
// directory one, from the directory track outwards.
func (d *D64) freeSector() (ts, bool) {
	for dist := uint8(1); dist < NumTracks; dist++ {
		for _, t := range [2]int{dirTrack - int(dist), dirTrack + int(dist)} {
			if t < 1 || t > NumTracks {
				continue
			}
			for s := range SectorsPerTrack(t) {
				p := ts{uint8(t), uint8(s)}
				if d.isFree(p) {
					d.allocate(p)
					return p, true
				}
			}
		}
	}
	return ts{}, false
}

// freeDirSlot returns a free directory entry, extending the directory with a
// new sector if needed.
func (d *D64) freeDirSlot() ([]byte, error) {
	var last []byte
	for sec, err := range d.chain(ts{dirTrack, dirSector}) {
		if err != nil {
			return nil, err
		}
		for off := 0; off < SectorSize; off += entrySize {
			if sec[off+2] == 0 {
				return sec[off : off+entrySize], nil
			}
		}
		last = sec
	}

	for s := range SectorsPerTrack(dirTrack) {
		p := ts{dirTrack, uint8(s)}
		if d.isFree(p) {
			d.allocate(p)
			last[0], last[1] = p.track, p.sector
			sec := d.sector(p)
			clear(sec)
			sec[0], sec[1] = 0, 0xFF
			return sec[0:entrySize], nil
		}
	}
	return nil, ErrDirectoryFull
}

// WriteFile adds a PRG file to the disk.
func (d *D64) WriteFile(name string, data []byte) error {
	rawName, err := encodeName(name)
	if err != nil {
		return err
	}
	if _, err := d.lookup(name); err == nil {
		return fmt.Errorf("%s: file exists", name)
	}
	nblocks := max(1, blocks(int64(len(data))))
	if nblocks > d.BlocksFree() {
		return fmt.Errorf("%s: %w (%d blocks needed, %d free)", name, ErrDiskFull, nblocks, d.BlocksFree())
	}

	slot, err := d.freeDirSlot()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	var first, prev ts
	for i := range nblocks {
		p, _ := d.freeSector()
		if i == 0 {
			first = p
		} else {
			prevSec := d.sector(prev)
			prevSec[0], prevSec[1] = p.track, p.sector
		}
		chunk := data[min(i*blockData, len(data)):min((i+1)*blockData, len(data))]
		sec := d.sector(p)
		clear(sec)
		copy(sec[2:], chunk)
		sec[0], sec[1] = 0, uint8(len(chunk)+1)
		prev = p
	}

	// Keep the link bytes of the directory sector.
	clear(slot[2:])
	slot[2] = typeClosed | uint8(PRG)
	slot[3], slot[4] = first.track, first.sector
	copy(slot[5:21], rawName[:])
	slot[30], slot[31] = uint8(nblocks), uint8(nblocks>>8)
	return nil
}

// WriteTo implements io.WriterTo.
func (d *D64) WriteTo(w io.Writer) (int64, error) {
	n, err := io.Copy(w, bytes.NewReader(d.data))
	if err != nil || d.errors == nil {
		return n, err
	}
	m, err := w.Write(d.errors)
	return n + int64(m), err
}

// Save writes the disk image to path.
func (d *D64) Save(path string) error {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
