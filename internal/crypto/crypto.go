package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrCiphertextTooShort is returned when the ciphertext cannot contain a nonce
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// Encryptor seals and opens small secrets (platform credentials) with
// AES-256-GCM. The key is derived from the configured secret string so
// callers do not have to manage raw key material.
type Encryptor struct {
	aead cipher.AEAD
}

// NewEncryptor derives a 256-bit key from the secret and builds the AEAD
func NewEncryptor(secret string) (*Encryptor, error) {
	if secret == "" {
		return nil, errors.New("encryption secret is required")
	}

	key := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Encryptor{aead: aead}, nil
}

// Encrypt seals plaintext, prepending the random nonce to the ciphertext
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return e.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a nonce-prefixed ciphertext
func (e *Encryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < e.aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}

	nonce, sealed := ciphertext[:e.aead.NonceSize()], ciphertext[e.aead.NonceSize():]

	plaintext, err := e.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}

// EncryptMap seals a credentials map as JSON
func (e *Encryptor) EncryptMap(m map[string]string) ([]byte, error) {
	if m == nil {
		m = map[string]string{}
	}
	plaintext, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}
	return e.Encrypt(plaintext)
}

// DecryptMap opens a sealed credentials map
func (e *Encryptor) DecryptMap(ciphertext []byte) (map[string]string, error) {
	if len(ciphertext) == 0 {
		return map[string]string{}, nil
	}
	plaintext, err := e.Decrypt(ciphertext)
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(plaintext, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	return m, nil
}
