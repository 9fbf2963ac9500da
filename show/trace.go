package show

import (
	"io"

	"github.com/go-faster/jx"
)

// Tracer writes one JSON object per controller transition, one per line.
//
//	{"step":3,"state":"loading","cursor":1,"name":"!beta","kind":"plain","bytes":10003}
type Tracer struct {
	w    io.Writer
	enc  jx.Encoder
	step int
}

func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

type traceEvent struct {
	state  State
	cursor int
	entry  Entry
	bytes  int
	border int // -1 if unchanged
	err    error
}

func (t *Tracer) write(ev traceEvent) error {
	if t == nil {
		return nil
	}
	t.step++
	t.enc.Reset()
	t.enc.Obj(func(e *jx.Encoder) {
		e.Field("step", func(e *jx.Encoder) { e.Int(t.step) })
		e.Field("state", func(e *jx.Encoder) { e.Str(ev.state.String()) })
		e.Field("cursor", func(e *jx.Encoder) { e.Int(ev.cursor) })
		if ev.entry.Name != "" {
			e.Field("name", func(e *jx.Encoder) { e.Str(ev.entry.Name) })
			e.Field("kind", func(e *jx.Encoder) { e.Str(ev.entry.Kind.String()) })
		}
		if ev.bytes > 0 {
			e.Field("bytes", func(e *jx.Encoder) { e.Int(ev.bytes) })
		}
		if ev.border >= 0 {
			e.Field("border", func(e *jx.Encoder) { e.Int(ev.border) })
		}
		if ev.err != nil {
			e.Field("error", func(e *jx.Encoder) { e.Str(ev.err.Error()) })
		}
	})
	buf := append(t.enc.Bytes(), '\n')
	_, err := t.w.Write(buf)
	return err
}
