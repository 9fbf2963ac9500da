package rpc

import (
	"errors"
	"image"
	"net"
	"net/http"
	"net/rpc"
	"strconv"
)

// ErrNoFrame is returned when no frame has been presented yet.
var ErrNoFrame = errors.New("no frame presented yet")

type showProxy struct {
	remote *Remote
}

func (sp *showProxy) Next(_, _ *struct{}) error { sp.remote.Next(); return nil }

func (sp *showProxy) Status(_ *struct{}, reply *Status) error {
	*reply = sp.remote.Status()
	return nil
}

func (sp *showProxy) Frame(_ *struct{}, reply *image.RGBA) error {
	img := sp.remote.Frame()
	if img == nil {
		return ErrNoFrame
	}
	*reply = *img
	return nil
}

func (sp *showProxy) IsReady(_ *struct{}, reply *bool) error {
	*reply = true
	return nil
}

type Server struct {
	l   net.Listener
	srv *http.Server
}

// NewServer starts serving remote on the given port, on all interfaces.
func NewServer(port int, remote *Remote) (*Server, error) {
	rs := rpc.NewServer()
	if err := rs.RegisterName("show", &showProxy{remote: remote}); err != nil {
		panic("failed to register RPC server: " + err.Error())
	}
	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, rs)

	l, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return nil, err
	}

	modRPC.InfoZ("rpc server listening").Int("port", port).End()
	s := &Server{l: l, srv: &http.Server{Handler: mux}}
	go s.srv.Serve(l)
	return s, nil
}

func (s *Server) Addr() net.Addr { return s.l.Addr() }

func (s *Server) Close() error {
	modRPC.DebugZ("closing rpc server").End()
	return s.srv.Close()
}
