package show

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"

	"koala64/hw"
	"koala64/koala"
)

// koalaFile returns the bytes of a plain Koala file whose content is derived
// from seed. The background color is seed&15.
func koalaFile(seed byte) []byte {
	raw := make([]byte, koala.FileSize)
	raw[0], raw[1] = 0x00, 0x60
	for i := koala.HeaderSize; i < koala.FileSize-1; i++ {
		raw[i] = byte(i) ^ seed
	}
	raw[koala.FileSize-1] = seed & 0x0F
	return raw
}

func compressed(t *testing.T, raw []byte) []byte {
	t.Helper()

	c, err := koala.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := koala.Compress(&buf, c); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

var errTransport = errors.New("drive not ready")

// fakeLoader serves files from memory and records the dispatched loads.
type fakeLoader struct {
	files map[string][]byte
	fail  map[string]int // number of failures before success
	calls []string
}

func (l *fakeLoader) Load(name string, device uint8, buf []byte) (int, error) {
	l.calls = append(l.calls, name)
	if l.fail[name] > 0 {
		l.fail[name]--
		return 0, errTransport
	}
	data, ok := l.files[name]
	if !ok {
		return 0, errTransport
	}
	return copy(buf, data), nil
}

// countAcker acknowledges immediately, and cancels after limit waits if a
// cancel func is set.
type countAcker struct {
	waits  int
	limit  int
	cancel context.CancelFunc
}

func (a *countAcker) Wait(ctx context.Context) error {
	a.waits++
	if a.cancel != nil && a.waits >= a.limit {
		a.cancel()
		return ctx.Err()
	}
	return nil
}

type frameCounter struct {
	frames  int
	borders []hw.Color
}

func (s *frameCounter) Present(frame *image.RGBA) error {
	s.frames++
	px := frame.RGBAAt(0, 0)
	for c := hw.Black; c <= hw.LightGrey; c++ {
		if c.RGBA() == px {
			s.borders = append(s.borders, c)
			break
		}
	}
	return nil
}

func nameSet(t *testing.T, names ...string) *FileNameSet {
	t.Helper()

	s := NewFileNameSet(DefaultCapacity)
	for _, n := range names {
		if !s.Add(n) {
			t.Fatalf("Add(%q) = false", n)
		}
	}
	return s
}

// stepN calls Step n times.
func stepN(t *testing.T, c *Controller, n int) {
	t.Helper()

	for range n {
		if err := c.Step(context.Background()); err != nil {
			t.Fatalf("Step() error: %v", err)
		}
	}
}

// stepUntil steps c until cond is true, failing after max steps.
func stepUntil(t *testing.T, c *Controller, max int, cond func() bool) {
	t.Helper()

	for range max {
		if cond() {
			return
		}
		if err := c.Step(context.Background()); err != nil {
			t.Fatalf("Step() error: %v", err)
		}
	}
	t.Fatalf("condition not reached after %d steps", max)
}
