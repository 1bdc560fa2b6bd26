package gdp

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/gdp-project/gdp/transport"
)

// stubTransport is a scriptable Transport that records every handoff.
type stubTransport struct {
	// sendErr is returned by both send paths; nil accepts everything.
	sendErr error

	sendCalls atomic.Int64

	mu       sync.Mutex
	frames   []*transport.Frame
	handlers map[transport.Action]transport.FrameHandler
	closed   bool
}

func newStubTransport() *stubTransport {
	return &stubTransport{
		handlers: make(map[transport.Action]transport.FrameHandler),
	}
}

func (s *stubTransport) record(frame *transport.Frame) error {
	s.sendCalls.Add(1)
	if s.sendErr != nil {
		return s.sendErr
	}
	s.mu.Lock()
	s.frames = append(s.frames, frame)
	s.mu.Unlock()
	return nil
}

func (s *stubTransport) TrySend(frame *transport.Frame) error {
	return s.record(frame)
}

func (s *stubTransport) Send(ctx context.Context, frame *transport.Frame) error {
	return s.record(frame)
}

func (s *stubTransport) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *stubTransport) LocalAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (s *stubTransport) RegisterHandler(action transport.Action, handler transport.FrameHandler) {
	s.mu.Lock()
	s.handlers[action] = handler
	s.mu.Unlock()
}

// calls returns the number of handoff attempts the stub saw.
func (s *stubTransport) calls() int64 {
	return s.sendCalls.Load()
}

// lastFrame returns the most recently accepted frame, if any.
func (s *stubTransport) lastFrame() *transport.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *stubTransport) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func testName(fill byte) Name {
	var n Name
	for i := range n {
		n[i] = fill
	}
	return n
}

// newReadyClient builds a client over a fresh stub transport and moves
// it to Ready.
func newReadyClient() (*Client, *stubTransport) {
	stub := newStubTransport()
	client := NewWithTransport(NewOptions(), stub)
	client.NotifyState(StateReady)
	return client, stub
}
