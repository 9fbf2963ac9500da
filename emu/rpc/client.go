package rpc

import (
	"errors"
	"fmt"
	"image"
	"net/rpc"
	"time"
)

// Client controls a slideshow served by a Server.
type Client struct {
	rc *rpc.Client
}

// Dial attempts, with their delay, when the slideshow is still starting.
const (
	dialAttempts = 5
	dialDelay    = 250 * time.Millisecond
)

// NewClient connects to the slideshow listening at addr (host:port) and
// checks it's ready to be controlled.
func NewClient(addr string) (*Client, error) {
	var errs []error
	for attempt := range dialAttempts {
		c, err := dial(addr)
		if err == nil {
			return c, nil
		}
		errs = append(errs, err)
		modRPC.DebugZ("dial").String("addr", addr).Int("attempt", attempt).Error("err", err).End()
		time.Sleep(dialDelay)
	}
	return nil, fmt.Errorf("no slideshow at %s: %w", addr, errors.Join(errs...))
}

func dial(addr string) (*Client, error) {
	rc, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, err
	}
	ready, err := request[bool](rc, "show.IsReady", nil)
	if err == nil && !ready {
		err = errors.New("slideshow not ready")
	}
	if err != nil {
		rc.Close()
		return nil, err
	}
	return &Client{rc: rc}, nil
}

func (c *Client) Close() error {
	return c.rc.Close()
}

// Next advances the slideshow, as a key press would.
func (c *Client) Next() error {
	_, err := request[struct{}](c.rc, "show.Next", nil)
	return err
}

func (c *Client) Status() (Status, error) {
	return request[Status](c.rc, "show.Status", nil)
}

// Frame returns the last frame presented by the slideshow.
func (c *Client) Frame() (*image.RGBA, error) {
	img, err := request[image.RGBA](c.rc, "show.Frame", nil)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// request calls method with args, a nil args being sent as an empty struct,
// and returns the reply.
func request[T any](rc *rpc.Client, method string, args any) (T, error) {
	if args == nil {
		args = struct{}{}
	}
	var reply T
	if err := rc.Call(method, args, &reply); err != nil {
		return reply, fmt.Errorf("%s: %w", method, err)
	}
	return reply, nil
}
