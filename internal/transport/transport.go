// Package transport defines the interface for the daemon's serving
// surfaces.
//
// Each surface (the HTTP webhook/status API, the gRPC status service)
// implements this interface; main starts and drains them uniformly
// without caring what protocol they speak.
package transport

import "context"

// Transport is the interface every serving surface must implement.
type Transport interface {
	// Name returns the surface identifier (e.g., "http", "grpc").
	Name() string

	// Listen starts serving. It blocks until the context is cancelled.
	Listen(ctx context.Context) error

	// Close gracefully shuts down the surface, draining in-flight work.
	Close() error
}
