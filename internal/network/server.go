package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/leengari/secindex/internal/domain/spec"
	"github.com/leengari/secindex/internal/engine"
	"github.com/leengari/secindex/internal/executor"
)

// Request is one newline-delimited JSON message. Query carries a
// statement; Create with Definition registers an index from its JSON
// definition instead.
type Request struct {
	Query      string          `json:"query,omitempty"`
	Create     string          `json:"create,omitempty"`
	Definition json.RawMessage `json:"definition,omitempty"`
}

// Server answers requests with executor results, one goroutine per
// connection
type Server struct {
	eng *engine.Engine

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup
}

func NewServer(eng *engine.Engine) *Server {
	return &Server{eng: eng, conns: make(map[net.Conn]struct{})}
}

// ListenAndServe binds addr and serves until Close is called
func (s *Server) ListenAndServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener until Close is called
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		listener.Close()
		return net.ErrClosed
	}
	s.listener = listener
	s.mu.Unlock()

	slog.Info("server listening", "addr", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			slog.Error("failed to accept connection", "error", err)
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return nil
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handleConnection(conn)
		}()
	}
}

// Close stops accepting, closes open connections and waits for their
// handlers to return
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *Server) handleConnection(conn net.Conn) {
	log := slog.With("remote", conn.RemoteAddr().String())
	log.Debug("connection opened")

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		var req Request
		if err := decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				log.Debug("connection closed")
				return
			}
			log.Error("decode error", "error", err)

			// Send error back to client
			_ = encoder.Encode(&executor.Result{
				Error: fmt.Sprintf("invalid request format: %v", err),
			})
			return
		}

		if req.Query == "exit" || req.Query == "\\q" {
			return
		}

		result, err := s.handle(req)
		if err != nil {
			result = &executor.Result{Error: err.Error()}
		}
		if err := encoder.Encode(result); err != nil {
			log.Error("encode error", "error", err)
			return
		}
	}
}

func (s *Server) handle(req Request) (*executor.Result, error) {
	if req.Create == "" {
		return s.eng.Execute(req.Query)
	}

	sp, err := spec.FromJSON(req.Definition)
	if err != nil {
		return nil, err
	}
	if err := s.eng.Registry().Create(req.Create, sp); err != nil {
		return nil, err
	}
	return &executor.Result{Message: fmt.Sprintf("CREATE INDEX %s %s", req.Create, sp)}, nil
}
