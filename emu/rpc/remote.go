package rpc

import (
	"image"
	"sync"
	"time"
)

// FrameSink is where frames are presented. It matches show.FrameSink.
type FrameSink interface {
	Present(*image.RGBA) error
}

// Status describes a running slideshow.
type Status struct {
	Frames      int       // number of presented frames
	LastFrame   time.Time // zero if none
	PendingKeys int       // remote key presses not consumed yet
}

// Remote is the slideshow side of the remote control. It is both a key
// poller, reporting remote key presses, and a frame sink keeping a copy of
// the last frame before forwarding it to the next sink, if any.
//
// Remote is safe for concurrent use.
type Remote struct {
	next FrameSink

	mu     sync.Mutex
	keys   int
	frame  *image.RGBA
	status Status
}

func NewRemote(next FrameSink) *Remote {
	return &Remote{next: next}
}

// Next simulates a key press.
func (r *Remote) Next() {
	r.mu.Lock()
	r.keys++
	r.mu.Unlock()
}

// KeyPressed reports, and consumes, one remote key press.
func (r *Remote) KeyPressed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.keys == 0 {
		return false
	}
	r.keys--
	return true
}

// Present keeps a copy of img and forwards it.
func (r *Remote) Present(img *image.RGBA) error {
	r.mu.Lock()
	if r.frame == nil || r.frame.Rect != img.Rect {
		r.frame = image.NewRGBA(img.Rect)
	}
	copy(r.frame.Pix, img.Pix)
	r.status.Frames++
	r.status.LastFrame = time.Now()
	r.mu.Unlock()

	if r.next != nil {
		return r.next.Present(img)
	}
	return nil
}

// Frame returns a copy of the last presented frame, nil if none.
func (r *Remote) Frame() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frame == nil {
		return nil
	}
	img := image.NewRGBA(r.frame.Rect)
	copy(img.Pix, r.frame.Pix)
	return img
}

func (r *Remote) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.status
	st.PendingKeys = r.keys
	return st
}
