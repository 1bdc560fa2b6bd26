// Package dtls implements GDP frame sealing.
//
// Every frame between a client and its router is sealed with
// AES-256-GCM under a key derived from a shared secret. The sealed
// layout is [nonce (12)][ciphertext || tag (16)]; a fresh random nonce
// is drawn per frame.
package dtls
