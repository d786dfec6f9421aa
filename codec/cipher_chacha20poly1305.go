package codec

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/Unholster/eventsourcing/es"
)

// ChaCha20Poly1305Cipher implements Transform as an AEAD cipher. The
// wire form is nonce(12 bytes) || ciphertext || tag(16 bytes); the
// nonce is generated fresh per call and prepended so Decode never
// needs an out-of-band value.
type ChaCha20Poly1305Cipher struct {
	aead cipher.AEAD
}

// NewChaCha20Poly1305Cipher builds a cipher from a 32-byte key. Use
// GenerateKey to produce one.
func NewChaCha20Poly1305Cipher(key []byte) (*ChaCha20Poly1305Cipher, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("codec: creating cipher: %w", err)
	}
	return &ChaCha20Poly1305Cipher{aead: aead}, nil
}

// GenerateKey returns a fresh random key suitable for
// NewChaCha20Poly1305Cipher.
func GenerateKey() ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("codec: generating key: %w", err)
	}
	return key, nil
}

func (c *ChaCha20Poly1305Cipher) Encode(data []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("codec: generating nonce: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, data, nil)
	return append(nonce, sealed...), nil
}

func (c *ChaCha20Poly1305Cipher) Decode(data []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize+chacha20poly1305.Overhead {
		return nil, &es.IntegrityError{Reason: "ciphertext shorter than nonce+tag"}
	}
	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, &es.IntegrityError{Reason: "cipher authentication failed", Err: err}
	}
	return plain, nil
}
