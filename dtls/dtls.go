package dtls

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// NonceSize is the AES-GCM nonce size prepended to each sealed frame.
	NonceSize = 12

	// keySize is the AES-256 key size.
	keySize = 32
)

// hkdfInfo binds derived keys to this use so the same secret can be
// reused for other purposes without key collisions.
var hkdfInfo = []byte("gdp frame sealing v1")

var (
	// ErrSealedFrameTooShort indicates a sealed frame shorter than nonce plus tag
	ErrSealedFrameTooShort = errors.New("sealed frame too short")

	// ErrEmptySecret indicates an empty shared secret was provided
	ErrEmptySecret = errors.New("empty shared secret")
)

// Codec seals and opens GDP frames. It is safe for concurrent use; the
// underlying AEAD is stateless apart from the per-call random nonce.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives an AES-256-GCM key from the shared secret via
// HKDF-SHA256 and returns a frame codec. Both ends of a link must be
// constructed from the same secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, hkdfInfo), key); err != nil {
		return nil, fmt.Errorf("key derivation failed: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init failed: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("GCM init failed: %w", err)
	}

	return &Codec{aead: aead}, nil
}

// Seal encrypts a serialized frame. The result is nonce || ciphertext;
// the input buffer is not retained.
func (c *Codec) Seal(frame []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize, NonceSize+len(frame)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce generation failed: %w", err)
	}
	return c.aead.Seal(nonce, nonce, frame, nil), nil
}

// Open decrypts a sealed frame produced by Seal.
func (c *Codec) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < NonceSize+c.aead.Overhead() {
		return nil, ErrSealedFrameTooShort
	}
	plain, err := c.aead.Open(nil, sealed[:NonceSize], sealed[NonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("frame open failed: %w", err)
	}
	return plain, nil
}
