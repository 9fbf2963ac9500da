package log

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

// EntryZ is a log entry built field by field, then emitted by End. All
// methods accept a nil receiver, which is what disabled modules return.
type EntryZ struct {
	mod Module
	lvl Level
	msg string

	fields [12]field
	n      int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func (z *EntryZ) add(f field) *EntryZ {
	if z != nil && z.n < len(z.fields) {
		z.fields[z.n] = f
		z.n++
	}
	return z
}

func (z *EntryZ) String(key, val string) *EntryZ {
	return z.add(field{kind: kindString, key: key, str: val})
}

func (z *EntryZ) Int(key string, val int) *EntryZ {
	return z.add(field{kind: kindInt, key: key, num: uint64(val)})
}

func (z *EntryZ) Uint8(key string, val uint8) *EntryZ {
	return z.add(field{kind: kindUint, key: key, num: uint64(val)})
}

// Hex8 logs a byte the way C64 monitors show them, as $1B.
func (z *EntryZ) Hex8(key string, val uint8) *EntryZ {
	return z.add(field{kind: kindHex8, key: key, num: uint64(val)})
}

// Hex16 logs an address, as $D020.
func (z *EntryZ) Hex16(key string, val uint16) *EntryZ {
	return z.add(field{kind: kindHex16, key: key, num: uint64(val)})
}

func (z *EntryZ) Error(key string, err error) *EntryZ {
	return z.add(field{kind: kindError, key: key, err: err})
}

func (z *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	return z.add(field{kind: kindDuration, key: key, num: uint64(d)})
}

func (z *EntryZ) Stringer(key string, s fmt.Stringer) *EntryZ {
	return z.add(field{kind: kindStringer, key: key, any: s})
}

// Blob logs raw bytes, as a space separated list of $xx.
func (z *EntryZ) Blob(key string, b []byte) *EntryZ {
	return z.add(field{kind: kindBlob, key: key, any: b})
}

// End emits the entry. z must not be used afterwards.
func (z *EntryZ) End() {
	if z == nil {
		return
	}

	fields := make(logrus.Fields, z.n+1)
	fields["_mod"] = z.mod.String()
	for _, f := range z.fields[:z.n] {
		fields[f.key] = f.value()
	}
	entry := logrus.StandardLogger().WithFields(fields)
	lvl, msg := z.lvl, z.msg

	z.fields = [len(z.fields)]field{}
	entryPool.Put(z)

	switch lvl {
	case DebugLevel:
		entry.Debug(msg)
	case InfoLevel:
		entry.Info(msg)
	default:
		entry.Warn(msg)
	}
}
