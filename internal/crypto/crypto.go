package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

var (
	ErrInvalidKey         = errors.New("encryption key must be 32 bytes for AES-256")
	ErrSecretTooShort     = errors.New("secret must be at least 32 characters")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	ErrDecryptionFailed   = errors.New("decryption failed")
)

// HKDF info strings bind derived keys to their purpose.
const (
	ViewStateInfo  = "compass-web view state v1"
	ViewCookieInfo = "compass-web view cookie v1"
)

// Encryptor handles AES-256-GCM encryption/decryption of stored view text.
type Encryptor struct {
	aead cipher.AEAD
}

func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Encryptor{aead: gcm}, nil
}

// DeriveKey derives a 32 byte key from a configured secret with HKDF-SHA256.
func DeriveKey(secret, info string) ([]byte, error) {
	if len(secret) < 32 {
		return nil, ErrSecretTooShort
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// NewEncryptorFromSecret builds the view state encryptor from VIEWSTATE_SECRET.
func NewEncryptorFromSecret(secret string) (*Encryptor, error) {
	key, err := DeriveKey(secret, ViewStateInfo)
	if err != nil {
		return nil, err
	}
	return NewEncryptor(key)
}

// Encrypt returns base64(nonce || ciphertext || tag). Empty input stays empty.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt.
func (e *Encryptor) Decrypt(ciphertextB64 string) (string, error) {
	if ciphertextB64 == "" {
		return "", nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	nonceSize := e.aead.NonceSize()
	if len(ciphertext) < nonceSize+e.aead.Overhead() {
		return "", ErrCiphertextTooShort
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// GenerateSecret returns a random base64 secret suitable for VIEWSTATE_SECRET or CSRF_SECRET.
func GenerateSecret() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
