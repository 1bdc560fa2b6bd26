package transport

import (
	"context"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
)

// defaultQueueDepth bounds the number of outstanding sends the UDP
// transport will buffer before reporting ErrQueueFull.
const defaultQueueDepth = 128

type outboundFrame struct {
	data []byte
	addr net.Addr
}

// UDPTransport implements UDP-based communication with a GDP router.
// It satisfies the Transport interface.
//
// Frames whose destination resolves through the configured Resolver are
// sent to the resolved next hop; everything else goes to the default
// router address. Outbound frames pass through a bounded queue drained
// by a single writer goroutine, so TrySend can report backpressure
// without ever blocking on the socket.
type UDPTransport struct {
	conn       net.PacketConn
	listenAddr net.Addr
	routerAddr net.Addr
	resolver   Resolver
	sealer     Sealer
	sendQueue  chan outboundFrame
	handlers   map[Action]FrameHandler
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	closeOnce  sync.Once
}

// NewUDPTransport creates a UDP transport bound to listenAddr that
// sends unresolved frames to the GDP router at routerAddr. An empty
// routerAddr is allowed; the transport then requires every destination
// to resolve, failing with ErrUnroutable otherwise.
func NewUDPTransport(listenAddr, routerAddr string) (*UDPTransport, error) {
	conn, err := net.ListenPacket("udp", listenAddr)
	if err != nil {
		return nil, newTransportError("listen", listenAddr, err)
	}

	var router net.Addr
	if routerAddr != "" {
		router, err = net.ResolveUDPAddr("udp", routerAddr)
		if err != nil {
			conn.Close()
			return nil, newTransportError("resolve", routerAddr, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	t := &UDPTransport{
		conn:       conn,
		listenAddr: conn.LocalAddr(),
		routerAddr: router,
		sendQueue:  make(chan outboundFrame, defaultQueueDepth),
		handlers:   make(map[Action]FrameHandler),
		ctx:        ctx,
		cancel:     cancel,
	}

	go t.writeLoop()
	go t.readLoop()

	logrus.WithFields(logrus.Fields{
		"function":    "NewUDPTransport",
		"local_addr":  t.listenAddr.String(),
		"router_addr": routerAddr,
	}).Info("UDP transport created")

	return t, nil
}

// SetResolver installs a name resolver consulted before falling back to
// the default router. Must be called before concurrent sends begin.
func (t *UDPTransport) SetResolver(r Resolver) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resolver = r
}

// SetSealer installs a frame sealer applied to all traffic. Must be
// called before concurrent sends begin.
func (t *UDPTransport) SetSealer(s Sealer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sealer = s
}

// RegisterHandler registers a handler for a specific frame action.
func (t *UDPTransport) RegisterHandler(action Action, handler FrameHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[action] = handler
}

// LocalAddr returns the local address the transport is listening on.
func (t *UDPTransport) LocalAddr() net.Addr {
	return t.listenAddr
}

// TrySend attempts a single non-blocking handoff of the frame.
func (t *UDPTransport) TrySend(frame *Frame) error {
	out, err := t.prepare(frame)
	if err != nil {
		return err
	}

	select {
	case t.sendQueue <- out:
		return nil
	case <-t.ctx.Done():
		return ErrTransportClosed
	default:
		return ErrQueueFull
	}
}

// Send behaves like TrySend but waits for queue space until the context
// deadline.
func (t *UDPTransport) Send(ctx context.Context, frame *Frame) error {
	out, err := t.prepare(frame)
	if err != nil {
		return err
	}

	select {
	case t.sendQueue <- out:
		return nil
	case <-t.ctx.Done():
		return ErrTransportClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendTo attempts a non-blocking handoff directly to a network address,
// bypassing name resolution. Routers use it to bounce frames back to
// the hop they came from.
func (t *UDPTransport) SendTo(frame *Frame, addr net.Addr) error {
	out, err := t.prepareTo(frame, addr)
	if err != nil {
		return err
	}

	select {
	case t.sendQueue <- out:
		return nil
	case <-t.ctx.Done():
		return ErrTransportClosed
	default:
		return ErrQueueFull
	}
}

// prepare resolves the destination, serializes and seals the frame. The
// returned buffer is owned by the transport; the caller's payload is
// not retained.
func (t *UDPTransport) prepare(frame *Frame) (outboundFrame, error) {
	t.mu.RLock()
	resolver := t.resolver
	t.mu.RUnlock()

	addr := t.routerAddr
	if resolver != nil {
		if next, ok := resolver.Lookup(frame.Dst); ok {
			addr = next
		}
	}
	if addr == nil {
		return outboundFrame{}, ErrUnroutable
	}
	return t.prepareTo(frame, addr)
}

// prepareTo serializes and seals the frame for a known address.
func (t *UDPTransport) prepareTo(frame *Frame, addr net.Addr) (outboundFrame, error) {
	select {
	case <-t.ctx.Done():
		return outboundFrame{}, ErrTransportClosed
	default:
	}

	t.mu.RLock()
	sealer := t.sealer
	t.mu.RUnlock()

	data, err := frame.Serialize()
	if err != nil {
		return outboundFrame{}, err
	}
	if sealer != nil {
		data, err = sealer.Seal(data)
		if err != nil {
			return outboundFrame{}, newTransportError("seal", addr.String(), err)
		}
	}

	return outboundFrame{data: data, addr: addr}, nil
}

// Close shuts down the transport.
func (t *UDPTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.cancel()
		err = t.conn.Close()
	})
	return err
}

// writeLoop drains the send queue onto the socket.
func (t *UDPTransport) writeLoop() {
	for {
		select {
		case <-t.ctx.Done():
			return
		case out := <-t.sendQueue:
			if _, err := t.conn.WriteTo(out.data, out.addr); err != nil {
				logrus.WithFields(logrus.Fields{
					"function": "UDPTransport.writeLoop",
					"addr":     out.addr.String(),
					"error":    err.Error(),
				}).Error("Failed to write frame")
			}
		}
	}
}

// readLoop handles incoming frames.
func (t *UDPTransport) readLoop() {
	buffer := make([]byte, 2048)

	for {
		select {
		case <-t.ctx.Done():
			return
		default:
			t.processIncomingFrame(buffer)
		}
	}
}

// processIncomingFrame reads and dispatches a single incoming frame.
func (t *UDPTransport) processIncomingFrame(buffer []byte) {
	n, addr, err := t.conn.ReadFrom(buffer)
	if err != nil {
		select {
		case <-t.ctx.Done():
		default:
			logrus.WithFields(logrus.Fields{
				"function": "UDPTransport.processIncomingFrame",
				"error":    err.Error(),
			}).Debug("Failed to read from socket")
		}
		return
	}

	data := buffer[:n]

	t.mu.RLock()
	sealer := t.sealer
	t.mu.RUnlock()

	if sealer != nil {
		data, err = sealer.Open(data)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "UDPTransport.processIncomingFrame",
				"addr":     addr.String(),
				"error":    err.Error(),
			}).Debug("Discarding frame that failed to open")
			return
		}
	}

	frame, err := ParseFrame(data)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "UDPTransport.processIncomingFrame",
			"addr":     addr.String(),
			"error":    err.Error(),
		}).Debug("Discarding malformed frame")
		return
	}

	t.mu.RLock()
	handler, ok := t.handlers[frame.Action]
	t.mu.RUnlock()

	if !ok {
		return
	}

	if err := handler(frame, addr); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "UDPTransport.processIncomingFrame",
			"action":   frame.Action.String(),
			"error":    err.Error(),
		}).Debug("Frame handler failed")
	}
}
