// Package server wires the feed store runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	platformgrpc "github.com/louisbranch/feedstore/internal/platform/grpc"
	"github.com/louisbranch/feedstore/internal/platform/timeouts"
	feedstoreservice "github.com/louisbranch/feedstore/internal/services/feedstore/api/grpc/feedstore"
	feedsqlite "github.com/louisbranch/feedstore/internal/services/feedstore/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// DefaultDBPath is used when no database path is configured.
var DefaultDBPath = filepath.Join("data", "feedstore.db")

// Server hosts the feed store gRPC API and storage lifecycle.
type Server struct {
	listener        net.Listener
	grpcServer      *grpc.Server
	health          *health.Server
	store           *feedsqlite.Store
	shutdownTimeout time.Duration
}

// New creates a feed store server listening on the provided port.
func New(port int, dbPath string) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port), dbPath)
}

// NewWithAddr creates a feed store server for the provided address, backed
// by the SQLite file at dbPath.
func NewWithAddr(addr, dbPath string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	store, err := openFeedStore(dbPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	feedstoreservice.RegisterFeedStoreServiceServer(grpcServer, feedstoreservice.NewService(store))
	healthServer := platformgrpc.RegisterHealth(grpcServer, feedstoreservice.ServiceName)

	return &Server{
		listener:        listener,
		grpcServer:      grpcServer,
		health:          healthServer,
		store:           store,
		shutdownTimeout: timeouts.Shutdown,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a feed store server until context cancellation.
func Run(ctx context.Context, port int, dbPath string) error {
	server, err := New(port, dbPath)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("feedstore server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.gracefulStop()
		return serveResult(<-serveErr)
	case err := <-serveErr:
		return serveResult(err)
	}
}

// gracefulStop waits for in-flight calls up to the shutdown timeout, then
// forces the stop.
func (s *Server) gracefulStop() {
	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(s.shutdownTimeout):
		log.Printf("feedstore graceful stop exceeded %v; forcing stop", s.shutdownTimeout)
		s.grpcServer.Stop()
		<-stopped
	}
}

func serveResult(err error) error {
	if err == nil || errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return fmt.Errorf("serve gRPC: %w", err)
}

// Close releases feed store server resources. The store drains submitted
// operations before its database closes.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close feed store: %v", err)
		}
	}
}

func openFeedStore(path string) (*feedsqlite.Store, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultDBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := feedsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed sqlite store: %w", err)
	}
	return store, nil
}
