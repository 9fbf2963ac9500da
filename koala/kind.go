package koala

// Kind tells how an image is stored on disk.
type Kind uint8

const (
	Plain      Kind = iota // raw container
	Compressed             // zlib stream of a container
)

// Marker characters leading the file names of stored images. Both are the
// same in ASCII and PETSCII.
const (
	PlainMarker      = '!'
	CompressedMarker = '%'
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Compressed:
		return "compressed"
	}
	return "unknown"
}

// Marker returns the leading character of file names of kind k.
func (k Kind) Marker() byte {
	if k == Compressed {
		return CompressedMarker
	}
	return PlainMarker
}

// KindOf returns the kind of the image stored under name. ok is false if the
// name doesn't start with a recognized marker.
func KindOf(name string) (k Kind, ok bool) {
	if name == "" {
		return 0, false
	}
	switch name[0] {
	case PlainMarker:
		return Plain, true
	case CompressedMarker:
		return Compressed, true
	}
	return 0, false
}
