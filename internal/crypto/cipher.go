// Package crypto implements the field-level encryption used for log
// titles and contents at rest.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"worklog/ports"
)

const (
	envelopePrefix = "enc:v1:"
	hkdfInfo       = "worklog field encryption v1"
)

// FieldCipher encrypts with XChaCha20-Poly1305 using a key derived from
// the configured secret. With no secret it is the identity function.
type FieldCipher struct {
	key []byte
}

var _ ports.FieldCipher = (*FieldCipher)(nil)

// NewFieldCipher derives the encryption key from secret. An empty secret
// disables encryption.
func NewFieldCipher(secret string) (*FieldCipher, error) {
	if secret == "" {
		return &FieldCipher{}, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive field key: %w", err)
	}
	return &FieldCipher{key: key}, nil
}

// Enabled reports whether a key is configured
func (c *FieldCipher) Enabled() bool {
	return len(c.key) > 0
}

// Encrypt seals plaintext into a prefixed base64 envelope. Empty input and
// a disabled cipher return the input unchanged.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	if !c.Enabled() || plaintext == "" {
		return plaintext, nil
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return envelopePrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt. Anything that is not a
// valid envelope for this key is returned unchanged, so rows written
// before encryption was enabled keep reading correctly.
func (c *FieldCipher) Decrypt(value string) string {
	if !c.Enabled() || !strings.HasPrefix(value, envelopePrefix) {
		return value
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, envelopePrefix))
	if err != nil {
		return value
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return value
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return value
	}

	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil || len(plain) == 0 {
		return value
	}
	return string(plain)
}
