package show

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"koala64/emu/log"
	"koala64/hw"
	"koala64/koala"
)

// ErrNoImages is returned when there's nothing to show.
var ErrNoImages = errors.New("no images to show")

// MaxLoadSize is the size of the load buffer. A C64 file can't be loaded
// past the end of the address space.
const MaxLoadSize = 0x10000

// A Loader loads the named file from a device into buf and returns the number
// of bytes loaded.
type Loader interface {
	Load(name string, device uint8, buf []byte) (int, error)
}

// An Acker blocks until the operator acknowledges the current picture.
type Acker interface {
	Wait(ctx context.Context) error
}

// A FrameSink receives the frames produced by the controller.
type FrameSink interface {
	Present(frame *image.RGBA) error
}

// State of the slideshow controller.
type State uint8

const (
	Idle State = iota
	Loading
	Render
	Failed
	WaitingForAck
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Render:
		return "render"
	case Failed:
		return "failed"
	case WaitingForAck:
		return "waiting"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Options of a Controller.
type Options struct {
	Device     uint8         // device number passed to the loader
	ErrorColor hw.Color      // border color signaling a failed load
	RetryDelay time.Duration // pause before retrying a failed load
	Sink       FrameSink     // optional
	Tracer     *Tracer       // optional
}

// Controller sequences the slideshow.
//
// Load failures of any kind (transport, malformed container, corrupt
// stream) are handled the same way: the border is set to the error color
// and the same picture is loaded again, without limit.
type Controller struct {
	m       *hw.Machine
	layout  *Layout
	names   *FileNameSet
	loader  Loader
	acker   Acker
	copier  *Copier
	display *Display
	opts    Options

	state     State
	cursor    int
	activated bool
	current   *koala.Container
	lastErr   error

	loadBuf   []byte // shared by all loads
	expandBuf []byte // shared by all decompressions
}

func NewController(m *hw.Machine, layout *Layout, names *FileNameSet, loader Loader, acker Acker, opts Options) (*Controller, error) {
	if names.Len() == 0 {
		return nil, ErrNoImages
	}
	return &Controller{
		m:         m,
		layout:    layout,
		names:     names,
		loader:    loader,
		acker:     acker,
		copier:    NewCopier(m.Bus, &m.Port, layout),
		display:   NewDisplay(m.Bus),
		opts:      opts,
		state:     Idle,
		loadBuf:   make([]byte, MaxLoadSize),
		expandBuf: make([]byte, koala.FileSize),
	}, nil
}

func (c *Controller) State() State      { return c.state }
func (c *Controller) Cursor() int       { return c.cursor }
func (c *Controller) Display() *Display { return c.display }
func (c *Controller) LastError() error  { return c.lastErr }

// Run steps the controller until ctx is cancelled. It never returns
// otherwise, the slideshow has no end.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Step(ctx); err != nil {
			return err
		}
	}
}

// Step performs a single state transition. The only errors returned come
// from ctx.
func (c *Controller) Step(ctx context.Context) error {
	ev := traceEvent{border: -1}

	switch c.state {
	case Idle:
		log.ModShow.InfoZ("slideshow start").
			Int("images", c.names.Len()).
			String("layout", c.layout.Name).
			End()
		c.state = Loading

	case Loading:
		entry := c.names.At(c.cursor)
		ev.entry = entry
		c.current, ev.bytes, c.lastErr = c.load(entry)
		ev.err = c.lastErr
		if c.lastErr != nil {
			log.ModShow.WarnZ("load failed").
				String("name", entry.Name).
				Error("err", c.lastErr).
				End()
			c.state = Failed
		} else {
			c.state = Render
		}

	case Failed:
		c.m.Bus.Write8(hw.RegBORDER, uint8(c.opts.ErrorColor))
		ev.border = int(c.opts.ErrorColor)
		ev.entry = c.names.At(c.cursor)
		c.present()
		if c.opts.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.opts.RetryDelay):
			}
		}
		c.state = Loading

	case Render:
		ev.entry = c.names.At(c.cursor)
		c.copier.Render(c.current)
		if !c.activated {
			c.display.Activate(c.layout)
			c.activated = true
		}
		ev.border = int(c.layout.Border)
		c.present()
		c.state = WaitingForAck

	case WaitingForAck:
		if err := c.acker.Wait(ctx); err != nil {
			return err
		}
		c.cursor = (c.cursor + 1) % c.names.Len()
		c.state = Loading
	}

	ev.state = c.state
	ev.cursor = c.cursor
	if err := c.opts.Tracer.write(ev); err != nil {
		log.ModShow.WarnZ("trace").Error("err", err).End()
	}
	return nil
}

// load reads entry into the shared load buffer and decodes it. The status
// reported by the loader is honored, but a successful load is only trusted
// once the data decodes to a valid container.
func (c *Controller) load(entry Entry) (*koala.Container, int, error) {
	n, err := c.loader.Load(entry.Name, c.opts.Device, c.loadBuf)
	if err != nil {
		return nil, n, err
	}

	data := c.loadBuf[:n]
	var ctr *koala.Container
	switch entry.Kind {
	case koala.Compressed:
		ctr, err = koala.ExpandTo(c.expandBuf, data)
	default:
		ctr, err = koala.Parse(data)
	}
	if err != nil {
		return nil, n, fmt.Errorf("%s: %w", entry.Name, err)
	}

	log.ModShow.DebugZ("loaded").
		String("name", entry.Name).
		Stringer("kind", entry.Kind).
		Int("bytes", n).
		Hex16("loadaddr", ctr.LoadAddress()).
		End()
	return ctr, n, nil
}

func (c *Controller) present() {
	if c.opts.Sink == nil {
		return
	}
	if err := c.opts.Sink.Present(c.m.Frame()); err != nil {
		log.ModShow.WarnZ("present frame").Error("err", err).End()
	}
}
