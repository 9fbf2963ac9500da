package show

import (
	"iter"

	"koala64/emu/log"
	"koala64/koala"
)

// DefaultCapacity is the number of entries a 1541 directory can hold.
const DefaultCapacity = 144

// Entry is an image file and how it's stored, resolved once at discovery.
type Entry struct {
	Name string
	Kind koala.Kind
}

// FileNameSet is the ordered set of images to show, in discovery order.
type FileNameSet struct {
	entries  []Entry
	capacity int
}

func NewFileNameSet(capacity int) *FileNameSet {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &FileNameSet{capacity: capacity}
}

// Add appends name to the set if it's an image file name. It reports whether
// the name has been added.
func (s *FileNameSet) Add(name string) bool {
	kind, ok := koala.KindOf(name)
	if !ok {
		return false
	}
	if len(s.entries) == s.capacity {
		log.ModShow.WarnZ("file name set full, ignoring").
			String("name", name).
			Int("capacity", s.capacity).
			End()
		return false
	}
	s.entries = append(s.entries, Entry{Name: name, Kind: kind})
	return true
}

// Collect adds all the image names of a directory enumeration. The sequence
// is consumed entirely, unless it yields an error.
func (s *FileNameSet) Collect(names iter.Seq2[string, error]) error {
	for name, err := range names {
		if err != nil {
			return err
		}
		if !s.Add(name) {
			log.ModShow.DebugZ("skipped").String("name", name).End()
		}
	}
	return nil
}

func (s *FileNameSet) Len() int { return len(s.entries) }

// At returns the entry at index i, modulo the set size.
func (s *FileNameSet) At(i int) Entry {
	return s.entries[i%len(s.entries)]
}

// All iterates over the entries in order.
func (s *FileNameSet) All() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range s.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}
