package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// Server is the session-broker TCP listener: realm servers connect here to
// resolve session keys and to register or deregister themselves. There is
// no admission cap — the broker is an internal, trusted endpoint.
type Server struct {
	bindAddress string
	sessions    SessionKeyStore
	realms      RealmRegistry

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a broker Server bound to bindAddress once Run is
// called.
func NewServer(bindAddress string, sessions SessionKeyStore, realms RealmRegistry) *Server {
	return &Server{
		bindAddress: bindAddress,
		sessions:    sessions,
		realms:      realms,
	}
}

// Addr returns the address the broker is listening on, or nil if not yet
// running.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close closes the broker's listener.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// Run binds the broker listener and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.bindAddress)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.bindAddress, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return s.Serve(ctx, ln)
}

// Serve runs the accept loop against an already-bound listener; used
// directly in tests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	wg.Go(func() {
		slog.Info("broker started", "address", ln.Addr())
		s.acceptLoop(ctx, &wg, ln)
	})
	wg.Wait()
	return nil
}

func (s *Server) acceptLoop(ctx context.Context, wg *sync.WaitGroup, ln net.Listener) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Error("broker: failed to accept connection", "error", err)
			continue
		}

		wg.Go(func() {
			s.handleConnection(ctx, conn)
		})
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	c := &connection{}
	defer func() {
		if id, ok := c.takeOwnedRealm(); ok {
			s.realms.Remove(id)
		}
	}()

	for {
		ok, err := handleMessage(conn, s.sessions, s.realms, c)
		if err != nil {
			slog.Warn("broker: message handling failed", "error", err, "remote", conn.RemoteAddr())
		}
		if !ok {
			return
		}
	}
}
