// AES-GCM envelope encryption for provider API keys at rest.
//
// Ciphertexts are nonce-prefixed and base64-encoded so they fit in the
// same text column as a plaintext key, which keeps the encryptor optional:
// deployments without CREDENTIALS_KEY store keys as-is.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrCiphertextTooShort is returned when a stored value is shorter than
// the GCM nonce and cannot possibly decrypt.
var ErrCiphertextTooShort = errors.New("ciphertext shorter than nonce")

// Encryptor seals and opens credential strings with AES-GCM.
type Encryptor struct {
	key []byte
}

// NewEncryptor builds an encryptor from a raw key. The key must be 16, 24,
// or 32 bytes (AES-128/192/256).
func NewEncryptor(key []byte) (*Encryptor, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("invalid key length %d (must be 16, 24, or 32)", len(key))
	}
	return &Encryptor{key: key}, nil
}

// NewEncryptorFromBase64 builds an encryptor from a base64-encoded key,
// the form the key takes in configuration.
func NewEncryptorFromBase64(encoded string) (*Encryptor, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode credentials key: %w", err)
	}
	return NewEncryptor(key)
}

// Encrypt seals plaintext and returns base64(nonce || ciphertext).
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (e *Encryptor) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}
	if len(sealed) < gcm.NonceSize() {
		return "", ErrCiphertextTooShort
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open ciphertext: %w", err)
	}
	return string(plaintext), nil
}
