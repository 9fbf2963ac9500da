package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/veandco/go-sdl2/sdl"

	"koala64/disk"
	"koala64/emu/log"
	"koala64/emu/rpc"
	"koala64/hw"
	"koala64/input"
	"koala64/show"
	"koala64/ui"
)

// showMain runs the slideshow until interrupted or until the window is
// closed.
func showMain(args Show, cfg Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	sl, err := newSlideshow(cfg)
	checkf(err, "failed to start slideshow")
	sl.port = args.Port

	var tracer *show.Tracer
	if args.Trace != nil {
		tracer = show.NewTracer(args.Trace)
	}

	if args.Headless || args.PNG != "" {
		err = sl.runHeadless(ctx, args.PNG, tracer)
	} else {
		err = sl.runWindow(ctx, tracer)
	}
	stop()

	if cerr := sl.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if args.Trace != nil {
		if cerr := args.Trace.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("trace: %w", cerr)
		}
	}
	checkf(err, "slideshow error")
}

// slideshow holds what's needed to run the slideshow, whatever the frames
// are presented to.
type slideshow struct {
	cfg     Config
	machine *hw.Machine
	layout  *show.Layout
	names   *show.FileNameSet
	drives  *disk.Drives

	port   int // remote control port, 0 if disabled
	server *rpc.Server
}

func newSlideshow(cfg Config) (*slideshow, error) {
	m := hw.NewMachine()
	if cfg.ROMs.Dir != "" {
		if err := loadROMs(m, cfg.ROMs.Dir); err != nil {
			return nil, err
		}
	}

	layout, err := show.LayoutByName(cfg.Show.Layout)
	if err != nil {
		return nil, err
	}
	if err := layout.Validate(m); err != nil {
		return nil, err
	}

	dev, err := disk.Open(cfg.Drive.Path)
	if err != nil {
		return nil, err
	}
	drives := disk.NewDrives()
	drives.StatusQuirk = cfg.Drive.StatusQuirk
	drives.Attach(cfg.Drive.Device, dev)

	names := show.NewFileNameSet(cfg.Show.Capacity)
	if err := names.Collect(disk.Names(dev)); err != nil {
		return nil, fmt.Errorf("directory of %s: %w", cfg.Drive.Path, err)
	}
	if names.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", cfg.Drive.Path, show.ErrNoImages)
	}
	for i, e := range names.All() {
		log.ModShow.DebugZ("image").Int("index", i).String("name", e.Name).Stringer("kind", e.Kind).End()
	}
	log.ModShow.InfoZ("slideshow ready").
		String("path", cfg.Drive.Path).
		Int("images", names.Len()).
		String("layout", layout.Name).
		End()

	return &slideshow{
		cfg:     cfg,
		machine: m,
		layout:  layout,
		names:   names,
		drives:  drives,
	}, nil
}

func (s *slideshow) controller(poller input.Poller, sink show.FrameSink, tracer *show.Tracer) (*show.Controller, error) {
	if s.port != 0 {
		remote := rpc.NewRemote(sink)
		srv, err := rpc.NewServer(s.port, remote)
		if err != nil {
			return nil, fmt.Errorf("remote control: %w", err)
		}
		s.server = srv
		log.ModShow.InfoZ("remote control enabled").Stringer("addr", srv.Addr()).End()
		poller = input.Any{poller, remote}
		sink = remote
	}

	acker := &input.Waiter{
		Poller:  poller,
		Timeout: s.cfg.Show.Wait.Duration,
	}
	return show.NewController(s.machine, s.layout, s.names, s.drives, acker, show.Options{
		Device:     s.cfg.Drive.Device,
		ErrorColor: s.cfg.Show.ErrorColor,
		RetryDelay: s.cfg.Show.RetryDelay.Duration,
		Sink:       sink,
		Tracer:     tracer,
	})
}

// runHeadless runs the slideshow without window. Keys are read from the
// controlling terminal, if any. Frames are written as PNG files in pngDir,
// unless empty.
func (s *slideshow) runHeadless(ctx context.Context, pngDir string, tracer *show.Tracer) error {
	var poller input.Poller = input.Never{}
	if term, err := input.OpenTerminal("/dev/tty"); err != nil {
		log.ModInput.WarnZ("no terminal, keys are ignored").Error("err", err).End()
		if s.cfg.Show.Wait.Duration == 0 {
			log.ModShow.WarnZ("no key and no wait delay, the first picture stays forever").End()
		}
	} else {
		defer term.Close()
		poller = term
	}

	var sink show.FrameSink
	if pngDir != "" {
		sink = &ui.PNGSink{Dir: pngDir}
	}

	ctrl, err := s.controller(poller, sink, tracer)
	if err != nil {
		return err
	}
	return ignoreCanceled(ctrl.Run(ctx))
}

// runWindow runs the slideshow in a window, closing it stops the slideshow.
func (s *slideshow) runWindow(ctx context.Context, tracer *show.Tracer) error {
	var err error
	sdl.Main(func() {
		err = s.runInWindow(ctx, tracer)
	})
	return err
}

func (s *slideshow) runInWindow(ctx context.Context, tracer *show.Tracer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	win, err := ui.NewWindow(ui.WindowConfig{
		Title:  "koala64 - " + filepath.Base(s.cfg.Drive.Path),
		Width:  hw.FrameWidth,
		Height: hw.FrameHeight,
		Scale:  s.cfg.Video.Scale,
		Shader: s.cfg.Video.Shader,
		OnQuit: cancel,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	ctrl, err := s.controller(win, win, tracer)
	if err != nil {
		return err
	}
	return ignoreCanceled(ctrl.Run(ctx))
}

// Close stops the remote control server, if any.
func (s *slideshow) Close() error {
	if s.server == nil {
		return nil
	}
	return s.server.Close()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ROM dump file names, as found in VICE installations.
var romFiles = [...]string{"basic", "kernal", "chargen"}

func loadROMs(m *hw.Machine, dir string) error {
	var roms [len(romFiles)][]byte
	for i, name := range romFiles {
		buf, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("load ROMs: %w", err)
		}
		roms[i] = buf
	}
	return m.LoadROMs(roms[0], roms[1], roms[2])
}
