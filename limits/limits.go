// Package limits provides centralized frame size limits for the GDP protocol.
// This ensures consistent validation across different components of the system.
package limits

import (
	"errors"
	"fmt"
)

const (
	// HeaderSize is the fixed size of the GDP header on the wire:
	// magic (2) + TTL (1) + action (1) + three 32-byte names + data length (2).
	HeaderSize = 2 + 1 + 1 + 32 + 32 + 32 + 2

	// MaxFrameSize is the maximum size of one GDP frame including the
	// header. It is chosen so a sealed frame still fits a 1500-byte
	// Ethernet MTU after the UDP/IP and sealing overheads.
	MaxFrameSize = 1400

	// MaxPayload is the maximum payload a single frame can carry.
	MaxPayload = MaxFrameSize - HeaderSize

	// SealOverhead is the overhead added by frame sealing: a 12-byte
	// nonce prepended to the ciphertext plus the 16-byte GCM tag.
	SealOverhead = 12 + 16
)

var (
	// ErrPayloadTooLarge indicates a payload exceeds the frame limit
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrFrameTooShort indicates a frame is too short to hold a GDP header
	ErrFrameTooShort = errors.New("frame too short")
)

// ValidatePayloadSize validates a payload length against the specified
// maximum. Zero-length payloads are valid; the GDP header carries an
// explicit data length, so an empty payload is distinct from no frame.
func ValidatePayloadSize(length int, maxSize int) error {
	if length > maxSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrPayloadTooLarge, length, maxSize)
	}
	return nil
}

// ValidateFrameSize validates a raw frame length against HeaderSize and
// MaxFrameSize before any parsing is attempted.
func ValidateFrameSize(length int) error {
	if length < HeaderSize {
		return fmt.Errorf("%w: %d bytes, header needs %d", ErrFrameTooShort, length, HeaderSize)
	}
	if length > MaxFrameSize+SealOverhead {
		return fmt.Errorf("%w: frame size %d exceeds limit %d", ErrPayloadTooLarge, length, MaxFrameSize+SealOverhead)
	}
	return nil
}
