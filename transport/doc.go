// Package transport implements the network transport layer for the GDP protocol.
//
// This package handles GDP frame formatting and UDP communication with a
// GDP router or sidecar. The Transport interface abstracts the handoff so
// different implementations (UDP, in-memory stubs for testing) can be used
// interchangeably by the dispatch client.
//
// Example:
//
//	tr, err := transport.NewUDPTransport(":0", "127.0.0.1:5006")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tr.Close()
//
//	frame := &transport.Frame{
//	    Action:  transport.ActionForward,
//	    TTL:     transport.DefaultTTL,
//	    Dst:     dst,
//	    Payload: []byte("hello"),
//	}
//
//	err = tr.TrySend(frame)
package transport
