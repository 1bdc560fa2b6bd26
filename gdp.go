// Package gdp implements a name-addressed packet dispatch client for
// the Global Data Plane.
//
// A client holds one logical session to the GDP routing substrate.
// Payloads are dispatched to flat 32-byte destination names; the
// routing substrate resolves names to paths. Each dispatch performs
// exactly one delivery handoff and reports a closed set of outcomes, so
// the call can be exposed unchanged across a foreign-call boundary as a
// single signed status byte.
//
// Example:
//
//	opts := gdp.NewOptions()
//	opts.RouterAddr = "127.0.0.1:5006"
//
//	client, err := gdp.New(opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.NotifyState(gdp.StateReady)
//
//	dst, _ := gdp.NameFromString("2424...24")
//	if err := client.Send(dst, []byte("hello")); err != nil {
//	    log.Print(err)
//	}
package gdp

import (
	"time"

	"github.com/gdp-project/gdp/limits"
	"github.com/gdp-project/gdp/transport"
)

// Name re-exports the GDP name type for callers of the client API.
type Name = transport.Name

// NameFromString parses a name from its 64-character hexadecimal form.
func NameFromString(s string) (Name, error) {
	return transport.NameFromString(s)
}

// Options contains configuration options for creating a Client. The
// values are fixed at construction; the dispatch core never derives
// them dynamically.
type Options struct {
	// SelfName is the client's own GDP name, stamped as the source of
	// every outgoing frame.
	SelfName Name

	// ListenAddr is the local UDP address to bind.
	ListenAddr string

	// RouterAddr is the default router (sidecar) for destinations with
	// no cached route.
	RouterAddr string

	// SendTimeout bounds how long one dispatch waits for the transport
	// to accept the handoff. Zero selects a non-blocking handoff, in
	// which case a full transport queue surfaces as backpressure
	// instead of a timeout.
	SendTimeout time.Duration

	// MaxPayload is the transport frame limit applied during
	// validation.
	MaxPayload int

	// SharedSecret enables frame sealing when non-empty. Both ends of
	// the link must hold the same secret.
	SharedSecret []byte

	// RouteLifetime is how long a learned route stays cached.
	RouteLifetime time.Duration
}

// NewOptions creates a new default Options.
func NewOptions() *Options {
	return &Options{
		ListenAddr:    "127.0.0.1:0",
		SendTimeout:   250 * time.Millisecond,
		MaxPayload:    limits.MaxPayload,
		RouteLifetime: 5 * time.Minute,
	}
}
