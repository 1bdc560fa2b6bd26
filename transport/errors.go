package transport

import (
	"errors"
	"fmt"
)

// Common errors for GDP transports
var (
	// ErrUnroutable indicates the destination name has no known path
	ErrUnroutable = errors.New("destination unroutable")

	// ErrQueueFull indicates the transport cannot accept more outstanding sends
	ErrQueueFull = errors.New("send queue full")

	// ErrTransportClosed indicates the transport has been shut down
	ErrTransportClosed = errors.New("transport closed")

	// ErrInvalidMagic indicates a frame without the GDP magic bytes
	ErrInvalidMagic = errors.New("not a GDP frame")

	// ErrUnknownAction indicates an action byte outside the GDP taxonomy
	ErrUnknownAction = errors.New("unknown action byte")

	// ErrLengthMismatch indicates the header data length disagrees with the frame
	ErrLengthMismatch = errors.New("data length mismatch")
)

// TransportError represents a transport error with additional context
type TransportError struct {
	Op   string // operation that caused the error
	Addr string // address if relevant
	Err  error  // underlying error
}

func (e *TransportError) Error() string {
	if e.Addr != "" {
		return fmt.Sprintf("gdp %s %s: %v", e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("gdp %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newTransportError(op, addr string, err error) *TransportError {
	return &TransportError{
		Op:   op,
		Addr: addr,
		Err:  err,
	}
}
