package rib

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"

	"github.com/gdp-project/gdp/transport"
)

// Payload layouts for RIB traffic. A query carries the queried name; a
// reply carries the name followed by an IPv4 next hop and port.
const (
	queryPayloadSize = transport.NameSize
	replyPayloadSize = transport.NameSize + 4 + 2
)

var (
	// ErrBadQuery indicates a rib-get payload of the wrong shape
	ErrBadQuery = errors.New("malformed rib query")

	// ErrBadReply indicates a rib-reply payload of the wrong shape
	ErrBadReply = errors.New("malformed rib reply")

	// ErrNotIPv4 indicates a next hop that is not an IPv4 UDP address
	ErrNotIPv4 = errors.New("next hop is not an IPv4 UDP address")
)

// BuildQuery builds a rib-get frame asking for the route to name.
func BuildQuery(src, name transport.Name) *transport.Frame {
	payload := make([]byte, queryPayloadSize)
	copy(payload, name[:])
	return &transport.Frame{
		Action:  transport.ActionRibGet,
		TTL:     transport.DefaultTTL,
		Src:     src,
		Dst:     name,
		Payload: payload,
	}
}

// ParseQuery extracts the queried name from a rib-get payload.
func ParseQuery(payload []byte) (transport.Name, error) {
	var name transport.Name
	if len(payload) != queryPayloadSize {
		return name, fmt.Errorf("%w: %d bytes", ErrBadQuery, len(payload))
	}
	copy(name[:], payload)
	return name, nil
}

// BuildReply builds a rib-reply frame answering a query with the next
// hop for name. Only IPv4 UDP next hops are representable on the wire.
func BuildReply(src, dst, name transport.Name, nextHop *net.UDPAddr) (*transport.Frame, error) {
	ip4 := nextHop.IP.To4()
	if ip4 == nil {
		return nil, ErrNotIPv4
	}

	payload := make([]byte, replyPayloadSize)
	copy(payload, name[:])
	copy(payload[transport.NameSize:], ip4)
	binary.BigEndian.PutUint16(payload[transport.NameSize+4:], uint16(nextHop.Port))

	return &transport.Frame{
		Action:  transport.ActionRibReply,
		TTL:     transport.DefaultTTL,
		Src:     src,
		Dst:     dst,
		Payload: payload,
	}, nil
}

// ParseReply extracts the name and next hop from a rib-reply payload.
func ParseReply(payload []byte) (transport.Name, *net.UDPAddr, error) {
	var name transport.Name
	if len(payload) != replyPayloadSize {
		return name, nil, fmt.Errorf("%w: %d bytes", ErrBadReply, len(payload))
	}
	copy(name[:], payload)

	ip := make(net.IP, 4)
	copy(ip, payload[transport.NameSize:transport.NameSize+4])
	port := binary.BigEndian.Uint16(payload[transport.NameSize+4:])

	return name, &net.UDPAddr{IP: ip, Port: int(port)}, nil
}

// ReplyHandler returns a frame handler that learns routes from incoming
// rib-reply frames. Register it on the client transport for
// transport.ActionRibReply.
func ReplyHandler(table *Table) transport.FrameHandler {
	return func(frame *transport.Frame, _ net.Addr) error {
		name, nextHop, err := ParseReply(frame.Payload)
		if err != nil {
			return err
		}
		table.Insert(name, nextHop)
		return nil
	}
}

// NackHandler returns a frame handler that drops a cached route when
// the network nacks a frame for its destination, forcing a fresh RIB
// query on the next send.
func NackHandler(table *Table) transport.FrameHandler {
	return func(frame *transport.Frame, _ net.Addr) error {
		table.Delete(frame.Dst)
		return nil
	}
}
