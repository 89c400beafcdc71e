// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the key-derivation salt in bytes.
const SaltSize = 16

var (
	// ErrEmptySecret is returned when no secret is configured.
	ErrEmptySecret = errors.New("empty token store secret")
	// ErrOpenFailed is returned when a sealed value cannot be decrypted.
	ErrOpenFailed = errors.New("cannot open sealed value")
)

// Argon2id tuning parameters.
type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
}

// defaultArgon follows the OWASP (2024) Argon2id recommendation.
var defaultArgon = argonParams{
	time:    1,
	memory:  64 * 1024, // 64 MiB
	threads: 4,
	keyLen:  32, // AES-256
}

type aesGCMSealer struct {
	gcm cipher.AEAD
}

// NewTokenSealer derives an AES-256-GCM key from secret and salt with
// Argon2id. The same secret and salt always yield the same key, so values
// sealed by one process can be opened by the next.
func NewTokenSealer(secret string, salt []byte) (TokenSealer, error) {
	return newTokenSealer(secret, salt, defaultArgon)
}

func newTokenSealer(secret string, salt []byte, p argonParams) (TokenSealer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if len(salt) < SaltSize {
		return nil, fmt.Errorf("salt must be at least %d bytes", SaltSize)
	}

	key := argon2.IDKey([]byte(secret), salt, p.time, p.memory, p.threads, p.keyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &aesGCMSealer{gcm: gcm}, nil
}

// GenerateSalt reads [SaltSize] random bytes from the OS CSPRNG.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func (s *aesGCMSealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := s.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *aesGCMSealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	nonceSize := s.gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrOpenFailed)
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plain, err := s.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	return string(plain), nil
}
