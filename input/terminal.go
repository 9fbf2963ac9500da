package input

import (
	"fmt"

	"github.com/pkg/term"

	"koala64/emu/log"
)

// Terminal polls key presses on a terminal put in cbreak mode, so that keys
// are available without waiting for a newline.
type Terminal struct {
	t   *term.Term
	buf [32]byte
}

// OpenTerminal opens the terminal device at path (usually /dev/tty).
func OpenTerminal(path string) (*Terminal, error) {
	t, err := term.Open(path, term.CBreakMode)
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	// With a zero timeout, reads return immediately.
	if err := t.SetReadTimeout(0); err != nil {
		t.Restore()
		t.Close()
		return nil, fmt.Errorf("terminal read timeout: %w", err)
	}
	return &Terminal{t: t}, nil
}

// KeyPressed reports whether keys have been typed since the last call, and
// discards them.
func (t *Terminal) KeyPressed() bool {
	n, err := t.t.Read(t.buf[:])
	if err != nil && n == 0 {
		return false
	}
	log.ModInput.DebugZ("terminal input").Blob("keys", t.buf[:n]).End()
	return n > 0
}

// Close restores the terminal state.
func (t *Terminal) Close() error {
	if err := t.t.Restore(); err != nil {
		t.t.Close()
		return err
	}
	return t.t.Close()
}
