package transport

import (
	"context"
	"net"
)

// Transport defines the interface for moving GDP frames between named
// endpoints. This abstraction allows different implementations (UDP, or
// in-memory stubs for testing) to be used interchangeably by the
// dispatch client.
//
// Both send methods perform exactly one handoff attempt. Once a send
// method returns nil the transport owns a copy of the frame bytes and
// the caller may reuse its buffers immediately; no end-to-end delivery
// guarantee is implied beyond the handoff.
type Transport interface {
	// TrySend attempts a single non-blocking handoff of the frame.
	// It returns nil on acceptance, ErrUnroutable if the destination
	// has no known path, or ErrQueueFull if the transport cannot
	// accept more outstanding sends right now.
	TrySend(frame *Frame) error

	// Send behaves like TrySend but waits for queue space until the
	// context deadline. It never waits for routability: an unroutable
	// destination fails immediately with ErrUnroutable.
	Send(ctx context.Context, frame *Frame) error

	// Close shuts down the transport.
	Close() error

	// LocalAddr returns the local address the transport is listening on.
	LocalAddr() net.Addr

	// RegisterHandler registers a handler for a specific frame action.
	RegisterHandler(action Action, handler FrameHandler)
}

// Resolver resolves a GDP name to a next-hop network address. A miss
// means the resolver has no current route; the transport then falls
// back to its default router, or fails with ErrUnroutable when it has
// none.
type Resolver interface {
	Lookup(name Name) (net.Addr, bool)
}

// Sealer seals outbound frame bytes and opens inbound ones. The UDP
// transport applies it to every frame when one is configured.
type Sealer interface {
	Seal(frame []byte) ([]byte, error)
	Open(frame []byte) ([]byte, error)
}
