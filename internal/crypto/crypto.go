// internal/crypto/crypto.go
//
// Package crypto keeps the session secret sealed while it sits in memory.
// A Box holds a random per-process key; sealed values are only opened at the
// moment a remote client needs the plaintext.

package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// Box seals and opens secrets with XChaCha20-Poly1305.
type Box struct {
	key []byte
}

// Sealed is an opaque hex-encoded nonce||ciphertext pair.
type Sealed string

// NewBox creates a Box with a fresh random key read from r.
// A nil reader means crypto/rand.
func NewBox(r io.Reader) (*Box, error) {
	if r == nil {
		r = rand.Reader
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %v", err)
	}
	return &Box{key: key}, nil
}

// Seal encrypts plaintext under the box key.
func (b *Box) Seal(plaintext string) (Sealed, error) {
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %v", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %v", err)
	}

	// nonce is the prefix of the returned slice
	combined := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return Sealed(hex.EncodeToString(combined)), nil
}

// Open decrypts a value produced by Seal on the same Box.
func (b *Box) Open(sealed Sealed) (string, error) {
	combined, err := hex.DecodeString(string(sealed))
	if err != nil {
		return "", fmt.Errorf("failed to decode hex: %v", err)
	}

	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %v", err)
	}

	nonceSize := aead.NonceSize()
	if len(combined) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	plaintext, err := aead.Open(nil, combined[:nonceSize], combined[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %v", err)
	}
	return string(plaintext), nil
}
