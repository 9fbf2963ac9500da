package hwio

// Mem is a linear memory area that can be mapped into a Table. When mapped
// over a range larger than Data, the content is mirrored.
type Mem struct {
	Name  string
	Data  []byte // length must be a power of 2
	VSize int    // size of the mapped range, defaults to len(Data)

	// OnWrite, if set, handles CPU writes instead of Data, as for ROMs which
	// let writes through to the RAM underneath.
	OnWrite func(addr uint16, val uint8)
}

func (m *Mem) size() int {
	if m.VSize == 0 {
		return len(m.Data)
	}
	return m.VSize
}

// memView is what a Table dispatches to for a mapped Mem. The mask is
// computed once at mapping time.
type memView struct {
	m    *Mem
	mask uint16
}

func newMemView(m *Mem) *memView {
	n := len(m.Data)
	if n == 0 || n&(n-1) != 0 {
		panic("hwio: " + m.Name + ": memory size is not a power of 2")
	}
	return &memView{m: m, mask: uint16(n - 1)}
}

func (v *memView) Read8(addr uint16) uint8 {
	return v.m.Data[addr&v.mask]
}

func (v *memView) Write8(addr uint16, val uint8) {
	if v.m.OnWrite != nil {
		v.m.OnWrite(addr, val)
		return
	}
	v.m.Data[addr&v.mask] = val
}
