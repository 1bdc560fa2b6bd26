package transport

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/gdp-project/gdp/limits"
)

// Magic bytes identifying a GDP frame on the wire.
const (
	MagicByte0 = 0x26
	MagicByte1 = 0x2a
)

// DefaultTTL is the number of GDP-level hops a frame may traverse before
// being dropped.
const DefaultTTL = 64

// Action identifies the type of a GDP frame.
type Action byte

const (
	ActionNoop Action = iota
	ActionPut
	ActionGet
	ActionRibGet
	ActionRibReply
	ActionForward
	ActionNack
)

// ParseAction converts an action byte to an Action, rejecting bytes
// outside the GDP taxonomy.
func ParseAction(b byte) (Action, error) {
	a := Action(b)
	switch a {
	case ActionNoop, ActionPut, ActionGet, ActionRibGet, ActionRibReply, ActionForward, ActionNack:
		return a, nil
	default:
		return ActionNoop, fmt.Errorf("%w: %#x", ErrUnknownAction, b)
	}
}

// String returns the action name for logging.
func (a Action) String() string {
	switch a {
	case ActionNoop:
		return "noop"
	case ActionPut:
		return "put"
	case ActionGet:
		return "get"
	case ActionRibGet:
		return "rib-get"
	case ActionRibReply:
		return "rib-reply"
	case ActionForward:
		return "forward"
	case ActionNack:
		return "nack"
	default:
		return fmt.Sprintf("action(%d)", byte(a))
	}
}

// FrameHandler is a function that processes incoming frames.
type FrameHandler func(frame *Frame, addr net.Addr) error

// Frame represents a GDP protocol frame.
//
// Wire format: [magic (2)][ttl (1)][action (1)][src (32)][dst (32)]
// [last hop (32)][data length (2, big endian)][payload].
type Frame struct {
	Action  Action
	TTL     uint8
	Src     Name
	Dst     Name
	LastHop Name
	Payload []byte
}

// Serialize converts a frame to a byte slice for transmission. The
// payload is copied into the result; the frame never retains or aliases
// the caller's buffer after Serialize returns.
func (f *Frame) Serialize() ([]byte, error) {
	if err := limits.ValidatePayloadSize(len(f.Payload), limits.MaxPayload); err != nil {
		return nil, err
	}

	result := make([]byte, limits.HeaderSize+len(f.Payload))
	result[0] = MagicByte0
	result[1] = MagicByte1
	result[2] = f.TTL
	result[3] = byte(f.Action)
	copy(result[4:36], f.Src[:])
	copy(result[36:68], f.Dst[:])
	copy(result[68:100], f.LastHop[:])
	binary.BigEndian.PutUint16(result[100:102], uint16(len(f.Payload)))
	copy(result[limits.HeaderSize:], f.Payload)

	return result, nil
}

// ParseFrame converts a byte slice to a Frame structure. The payload is
// copied out of the input so the caller may reuse its read buffer.
func ParseFrame(data []byte) (*Frame, error) {
	if err := limits.ValidateFrameSize(len(data)); err != nil {
		return nil, err
	}
	if data[0] != MagicByte0 || data[1] != MagicByte1 {
		return nil, ErrInvalidMagic
	}

	action, err := ParseAction(data[3])
	if err != nil {
		return nil, err
	}

	dataLen := int(binary.BigEndian.Uint16(data[100:102]))
	if limits.HeaderSize+dataLen > len(data) {
		return nil, fmt.Errorf("%w: header says %d, frame has %d",
			ErrLengthMismatch, dataLen, len(data)-limits.HeaderSize)
	}

	frame := &Frame{
		Action:  action,
		TTL:     data[2],
		Payload: make([]byte, dataLen),
	}
	copy(frame.Src[:], data[4:36])
	copy(frame.Dst[:], data[36:68])
	copy(frame.LastHop[:], data[68:100])
	copy(frame.Payload, data[limits.HeaderSize:limits.HeaderSize+dataLen])

	return frame, nil
}
