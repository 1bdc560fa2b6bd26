package gdp

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/gdp-project/gdp/dtls"
	"github.com/gdp-project/gdp/rib"
	"github.com/gdp-project/gdp/transport"
)

// ConnectionState represents the connectivity of a client session.
type ConnectionState uint8

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateReady
	StateDraining
	StateClosed
)

// String returns the state name for logging.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrClientClosed indicates an operation on a closed client
var ErrClientClosed = errors.New("client closed")

// Client is one logical session to the GDP routing substrate. Multiple
// goroutines (or foreign threads, through the capi layer) may dispatch
// concurrently on one Client.
//
// The client observes connectivity transitions, it never originates
// them: the owner drives Connecting/Ready/Draining through NotifyState
// as the substrate connects, drains or fails, and Closed through Close.
// A failed dispatch never changes the connectivity state.
type Client struct {
	opts      *Options
	transport transport.Transport
	routes    *rib.Table

	// state is read on every dispatch and written only on external
	// transitions, so it sits behind a read-mostly guard. In-flight
	// dispatches that acquired the session before a transition are
	// allowed to complete.
	state   ConnectionState
	stateMu sync.RWMutex

	// telemetry only; dispatch outcomes never depend on these.
	sentCount   atomic.Uint64
	failedCount atomic.Uint64
}

// New creates a Client with a UDP transport per the options. The client
// starts Disconnected; the owner transitions it to Ready once the
// substrate is reachable.
func New(opts *Options) (*Client, error) {
	if opts == nil {
		opts = NewOptions()
	}

	tr, err := transport.NewUDPTransport(opts.ListenAddr, opts.RouterAddr)
	if err != nil {
		return nil, err
	}

	if len(opts.SharedSecret) > 0 {
		codec, err := dtls.NewCodec(opts.SharedSecret)
		if err != nil {
			tr.Close()
			return nil, err
		}
		tr.SetSealer(codec)
	}

	client := newWithTransport(opts, tr)
	tr.SetResolver(client.routes)
	return client, nil
}

// NewWithTransport creates a Client over a caller-supplied transport.
// Useful for tests and for substrates other than plain UDP.
func NewWithTransport(opts *Options, tr transport.Transport) *Client {
	if opts == nil {
		opts = NewOptions()
	}
	return newWithTransport(opts, tr)
}

func newWithTransport(opts *Options, tr transport.Transport) *Client {
	c := &Client{
		opts:      opts,
		transport: tr,
		routes:    rib.NewTable(opts.RouteLifetime),
		state:     StateDisconnected,
	}

	tr.RegisterHandler(transport.ActionRibReply, rib.ReplyHandler(c.routes))
	tr.RegisterHandler(transport.ActionNack, rib.NackHandler(c.routes))

	return c
}

// NotifyState records a connectivity transition observed from the
// substrate. Transitions are visible atomically to all subsequent
// dispatches; dispatches already past acquisition are unaffected.
func (c *Client) NotifyState(state ConnectionState) {
	c.stateMu.Lock()
	prev := c.state
	c.state = state
	c.stateMu.Unlock()

	if prev != state {
		logrus.WithFields(logrus.Fields{
			"function": "Client.NotifyState",
			"from":     prev.String(),
			"to":       state.String(),
		}).Info("Connectivity state changed")
	}
}

// State returns the current connectivity state.
func (c *Client) State() ConnectionState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// acquireReadySession returns the transport when the session is Ready.
// It never blocks waiting for Connecting to become Ready: dispatch is
// synchronous-or-fail, and connection retry policy belongs to the
// owner.
func (c *Client) acquireReadySession() (transport.Transport, DispatchOutcome) {
	c.stateMu.RLock()
	state := c.state
	tr := c.transport
	c.stateMu.RUnlock()

	if state != StateReady {
		return nil, OutcomeNotReady
	}
	if tr == nil {
		// A Ready client without a transport is a contract violation
		// by the constructor, not an operational condition.
		return nil, OutcomeInternalError
	}
	return tr, OutcomeSent
}

// Routes exposes the client's learned route cache.
func (c *Client) Routes() *rib.Table {
	return c.routes
}

// QueryRoute issues a RIB query for a name through the default router.
// The answer arrives asynchronously and populates the route cache.
func (c *Client) QueryRoute(name Name) error {
	tr, outcome := c.acquireReadySession()
	if outcome != OutcomeSent {
		return errFromOutcome(outcome)
	}
	return tr.TrySend(rib.BuildQuery(c.opts.SelfName, name))
}

// Stats returns the number of dispatches that succeeded and failed.
// Telemetry only.
func (c *Client) Stats() (sent, failed uint64) {
	return c.sentCount.Load(), c.failedCount.Load()
}

// Close shuts down the session and its transport. Only the owner calls
// Close; a failed dispatch never closes the client implicitly.
func (c *Client) Close() error {
	c.stateMu.Lock()
	if c.state == StateClosed {
		c.stateMu.Unlock()
		return nil
	}
	c.state = StateClosed
	tr := c.transport
	c.stateMu.Unlock()

	if tr != nil {
		return tr.Close()
	}
	return nil
}
