package room

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type ServerOptions struct {
	ListenAddr string
	Heartbeat  time.Duration
	Hub        *Hub
	Log        *logrus.Entry
}

// Server accepts websocket clients on /ws and hands them to the hub.
type Server struct {
	opts     ServerOptions
	die      chan struct{}
	httpsvr  *http.Server
	upgrader websocket.Upgrader

	listener net.Listener
	addr     net.Addr
}

func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 30 * time.Second
	}
	ret := &Server{
		opts: opts,
		die:  make(chan struct{}),
	}
	mux := &http.ServeMux{}
	mux.HandleFunc("/ws", ret.serveWS)
	ln, err := net.Listen("tcp", opts.ListenAddr)
	if err != nil {
		return nil, err
	}
	ret.listener = ln
	ret.addr = ln.Addr()
	ret.httpsvr = &http.Server{Addr: ret.addr.String(), Handler: mux}
	ret.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	return ret, nil
}

func (s *Server) Start() error {
	go func() {
		if err := s.httpsvr.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			s.opts.Log.WithError(err).Error("serve")
		}
	}()
	return nil
}

func (s *Server) Stop() error {
	select {
	case <-s.die:
		return nil
	default:
		close(s.die)
	}
	return s.httpsvr.Close()
}

func (s *Server) Address() string {
	return s.addr.String()
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newClient(uuid.NewString(), s.opts.Hub, conn)
	s.opts.Log.WithFields(logrus.Fields{"client": c.id, "addr": conn.RemoteAddr().String()}).Debug("client connected")

	// Upgraded connections are hijacked, so a server shutdown has to close
	// them itself.
	go func() {
		select {
		case <-s.die:
			c.Close()
		case <-c.done:
		}
	}()

	pongWait := s.opts.Heartbeat * 2
	go c.writePump(pongWait)
	c.readPump(pongWait)
}
