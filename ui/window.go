// Package ui shows the raster frames, either in an SDL window or as PNG
// snapshots when running headless.
package ui

import (
	"fmt"
	"image"
	"slices"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"koala64/emu/log"
	"koala64/ui/shaders"
)

// Window is an OpenGL window showing a full window texture of the frame size.
//
// All methods marshal their SDL and OpenGL calls with sdl.Do, so they
// require sdl.Main to be running.
type Window struct {
	win     *sdl.Window
	context sdl.GLContext
	prog    uint32
	texture uint32
	vao     uint32

	texw, texh int

	keys      int  // key presses not yet reported
	closed    bool // set when the window has been closed by the user
	presented bool // the texture holds a frame
	onQuit func()
}

// WindowConfig configures a Window.
type WindowConfig struct {
	Title  string
	Width  int // texture width
	Height int // texture height
	Scale  int // initial window scale factor
	Shader string

	// OnQuit is called, from the SDL goroutine, when the window is closed.
	OnQuit func()
}

// NewWindow creates and shows a window.
func NewWindow(cfg WindowConfig) (*Window, error) {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if !slices.Contains(shaders.Names(), cfg.Shader) {
		return nil, fmt.Errorf("unknown shader %q", cfg.Shader)
	}

	type result struct {
		w   *Window
		err error
	}
	resc := make(chan result, 1)
	sdl.Do(func() {
		w, err := newWindow(cfg)
		resc <- result{w, err}
	})
	res := <-resc
	if res.err != nil {
		return nil, res.err
	}
	log.ModUI.InfoZ("window created").
		Int("width", cfg.Width*cfg.Scale).
		Int("height", cfg.Height*cfg.Scale).
		String("shader", cfg.Shader).
		End()
	return res.w, nil
}

func newWindow(cfg WindowConfig) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL: %s", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	winw := int32(cfg.Width * cfg.Scale)
	winh := int32(cfg.Height * cfg.Scale)
	win, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		winw, winh,
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %s", err)
	}

	context, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create OpenGL context: %s", err)
	}

	w := &Window{
		win:     win,
		context: context,
		texw:    cfg.Width,
		texh:    cfg.Height,
		onQuit:  cfg.OnQuit,
	}
	if err := w.initGL(cfg.Shader); err != nil {
		w.destroy()
		return nil, err
	}
	return w, nil
}

func (w *Window) initGL(shader string) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize opengl: %s", err)
	}

	var err error
	if w.prog, err = shaders.Program(shader); err != nil {
		return err
	}

	// C64 pixels are shown as sharp blocks whatever the window scale.
	gl.GenTextures(1, &w.texture)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	for _, p := range [...][2]int32{
		{gl.TEXTURE_MIN_FILTER, gl.NEAREST},
		{gl.TEXTURE_MAG_FILTER, gl.NEAREST},
		{gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE},
		{gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE},
	} {
		gl.TexParameteri(gl.TEXTURE_2D, uint32(p[0]), p[1])
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w.texw), int32(w.texh), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	var vbo uint32
	gl.GenVertexArrays(1, &w.vao)
	gl.BindVertexArray(w.vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)

	const stride = 4 * 4
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	w.fit(w.win.GLGetDrawableSize())
	return nil
}

func (w *Window) fit(dw, dh int32) {
	gl.Viewport(letterbox(dw, dh, int32(w.texw), int32(w.texh)))
}

// letterbox returns the largest viewport of the tw x th aspect ratio,
// centered in a drawable area of dw x dh pixels. The remaining bands stay
// black.
func letterbox(dw, dh, tw, th int32) (x, y, vw, vh int32) {
	vw, vh = dw, dw*th/tw
	if vh > dh {
		vw, vh = dh*tw/th, dh
	}
	return (dw - vw) / 2, (dh - vh) / 2, vw, vh
}

// Present uploads img into the window texture and draws it. img bounds must
// match the texture size.
func (w *Window) Present(img *image.RGBA) error {
	if b := img.Bounds(); b.Dx() != w.texw || b.Dy() != w.texh {
		return fmt.Errorf("frame size %dx%d, window texture is %dx%d", b.Dx(), b.Dy(), w.texw, w.texh)
	}

	sdl.Do(func() {
		w.pollEvents()

		gl.BindTexture(gl.TEXTURE_2D, w.texture)
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w.texw), int32(w.texh), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		w.presented = true
		w.draw()
	})
	return nil
}

// draw shows the texture content, that is the last presented frame.
func (w *Window) draw() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(w.prog)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.BindVertexArray(w.vao)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
	w.win.GLSwap()
}

// KeyPressed processes pending window events and reports whether a key has
// been pressed since the last call.
func (w *Window) KeyPressed() bool {
	var pressed bool
	sdl.Do(func() {
		w.pollEvents()
		pressed = w.keys > 0
		w.keys = 0
	})
	return pressed
}

// pollEvents must be called from the SDL goroutine. A resized or uncovered
// window gets the last frame drawn again.
func (w *Window) pollEvents() {
	var redraw bool
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.KeyboardEvent:
			if e.State == sdl.PRESSED && e.Repeat == 0 {
				log.ModUI.DebugZ("key pressed").String("key", sdl.GetScancodeName(e.Keysym.Scancode)).End()
				if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					w.quit()
					continue
				}
				w.keys++
			}
		case *sdl.QuitEvent:
			w.quit()
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				w.fit(w.win.GLGetDrawableSize())
			}
			redraw = redraw || damages(e.Event)
		}
	}
	if redraw && w.presented && !w.closed {
		w.draw()
	}
}

// damages reports whether a window event leaves the window content undefined.
func damages(ev sdl.WindowEventID) bool {
	switch ev {
	case sdl.WINDOWEVENT_SIZE_CHANGED, sdl.WINDOWEVENT_EXPOSED, sdl.WINDOWEVENT_RESTORED:
		return true
	}
	return false
}

func (w *Window) quit() {
	if w.closed {
		return
	}
	w.closed = true
	log.ModUI.InfoZ("window closed").End()
	if w.onQuit != nil {
		w.onQuit()
	}
}

// Close destroys the window and shuts SDL down.
func (w *Window) Close() error {
	errc := make(chan error, 1)
	sdl.Do(func() { errc <- w.destroy() })
	return <-errc
}

func (w *Window) destroy() error {
	if w.context != nil {
		sdl.GLDeleteContext(w.context)
		w.context = nil
	}
	err := w.win.Destroy()
	sdl.Quit()
	return err
}

// quad covers the viewport with the frame, as a triangle fan. Texture rows
// go down, like the raster.
var quad = []float32{
	// x, y, u, v
	-1, 1, 0, 0,
	1, 1, 1, 0,
	1, -1, 1, 1,
	-1, -1, 0, 1,
}
