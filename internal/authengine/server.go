package authengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/oldrealm/aegisauth/internal/autherr"
	"github.com/oldrealm/aegisauth/internal/wire"
)

// Config holds the engine's runtime options (the subset of the global
// config relevant to the auth protocol engine and dispatcher).
type Config struct {
	BindAddress        string
	MaxConcurrentUsers int
	RandomizePinGrid   bool
}

// Server is the auth TCP listener: it admission-controls connections by a
// live-count cap, then spawns one task per connection running the
// protocol engine.
type Server struct {
	cfg Config

	credentials CredentialSource
	patches     PatchSource
	gameFiles   GameFileSource
	realms      RealmListSource
	sessions    SessionKeyStore
	errs        ErrorSink

	liveConnections atomic.Int64
	shouldRun       atomic.Bool

	sendPool *bytePool

	mu       sync.Mutex
	listener net.Listener
}

const defaultSendBufSize = 1024

// NewServer creates a Server with the given capability adapters.
func NewServer(
	cfg Config,
	credentials CredentialSource,
	patches PatchSource,
	gameFiles GameFileSource,
	realms RealmListSource,
	sessions SessionKeyStore,
	errs ErrorSink,
) *Server {
	s := &Server{
		cfg:         cfg,
		credentials: credentials,
		patches:     patches,
		gameFiles:   gameFiles,
		realms:      realms,
		sessions:    sessions,
		errs:        errs,
		sendPool:    newBytePool(defaultSendBufSize),
	}
	s.shouldRun.Store(true)
	return s
}

// Stop clears the should_run flag; the dispatcher stops admitting new
// connections and the accept loop exits on its next iteration.
func (s *Server) Stop() {
	s.shouldRun.Store(false)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		s.listener.Close()
	}
}

// Addr returns the address the server is listening on, or nil if not yet
// running.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run binds the auth listener and serves until ctx is cancelled or Stop is
// called.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.BindAddress)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.BindAddress, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return s.Serve(ctx, ln)
}

// Serve runs the accept loop against an already-bound listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		s.shouldRun.Store(false)
		ln.Close()
	}()

	var wg sync.WaitGroup
	wg.Go(func() {
		slog.Info("auth server started", "address", ln.Addr())
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
		if !s.shouldRun.Load() {
			return
		}

		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Error("failed to accept connection", "error", err)
			continue
		}

		if s.liveConnections.Load() >= int64(s.cfg.MaxConcurrentUsers) {
			conn.Close()
			continue
		}

		s.liveConnections.Add(1)
		wg.Go(func() {
			defer s.liveConnections.Add(-1)
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

	cli, err := newClient(conn)
	if err != nil {
		slog.Error("failed to create client", "err", err)
		return
	}

	if err := s.dispatch(ctx, cli); err != nil {
		var ae *autherr.Error
		if !errors.As(err, &ae) {
			ae = autherr.Wrap(err)
		}
		s.errs.Report(ae, cli.ip)
	}
}

// dispatch reads the connection's first opcode and routes to LOGON or
// RECONNECT; both then fall through to the realm-list loop on success.
func (s *Server) dispatch(ctx context.Context, cli *client) error {
	var opcodeBuf [1]byte
	if _, err := readFull(cli.conn, opcodeBuf[:]); err != nil {
		return autherr.Wrap(err)
	}

	switch opcodeBuf[0] {
	case wire.CmdAuthLogonChallenge:
		return s.runLogon(ctx, cli)
	case wire.CmdAuthReconnectChallenge:
		return s.runReconnect(ctx, cli)
	default:
		return autherr.WithOpcode(opcodeBuf[0])
	}
}
