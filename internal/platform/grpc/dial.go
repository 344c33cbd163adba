package grpc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DialFunc creates a client connection. [gogrpc.NewClient] is the default.
type DialFunc func(addr string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error)

// DialStage describes where a dial attempt failed.
type DialStage string

const (
	// DialStageConnect indicates the client connection could not be created.
	DialStageConnect DialStage = "connect"
	// DialStageHealth indicates the health check never reported SERVING.
	DialStageHealth DialStage = "health"
)

// DialError wraps dial and health check failures with a stage indicator.
type DialError struct {
	Addr  string
	Stage DialStage
	Err   error
}

// Error implements the error interface.
func (e *DialError) Error() string {
	if e == nil {
		return "gRPC dial error"
	}
	if e.Addr == "" {
		return fmt.Sprintf("gRPC %s error: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("gRPC %s error for %s: %v", e.Stage, e.Addr, e.Err)
}

// Unwrap returns the underlying error.
func (e *DialError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DialConfig controls DialWithHealth.
type DialConfig struct {
	// Addr is the gRPC target.
	Addr string
	// Service is the health service name to wait for; empty means the whole server.
	Service string
	// Timeout bounds connection setup and the health wait together.
	Timeout time.Duration
	// Logf receives health wait progress when set.
	Logf func(string, ...any)
	// Dial overrides connection creation.
	Dial DialFunc
}

// DefaultClientDialOptions returns standard dial options for local clients.
// The OTel stats handler propagates trace context on every outbound call when
// a TracerProvider is registered.
func DefaultClientDialOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// DialWithHealth creates a client connection and waits for the health check
// to report SERVING. The connection is closed when the health check fails.
func DialWithHealth(ctx context.Context, cfg DialConfig, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dial := cfg.Dial
	if dial == nil {
		dial = gogrpc.NewClient
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	conn, err := dial(cfg.Addr, opts...)
	if err != nil {
		return nil, &DialError{Addr: cfg.Addr, Stage: DialStageConnect, Err: err}
	}
	if err := WaitForHealth(ctx, conn, cfg.Service, cfg.Logf); err != nil {
		_ = conn.Close()
		return nil, &DialError{Addr: cfg.Addr, Stage: DialStageHealth, Err: err}
	}
	return conn, nil
}
