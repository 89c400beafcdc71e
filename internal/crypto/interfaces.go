// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto protects session tokens at rest.
package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/token_sealer_mock.go -package=mock

// TokenSealer encrypts short secrets such as bearer tokens before they reach
// the local key-value store.
//
// Схема работы:
//
//	Key    = Argon2id(secret, salt)
//	Sealed = base64(nonce || AES-GCM(Key, plaintext))
type TokenSealer interface {
	// Seal encrypts plaintext. Every call uses a fresh nonce, so sealing the
	// same value twice yields different outputs.
	Seal(plaintext string) (string, error)

	// Open reverses Seal. A wrong secret or a tampered value fails the GCM
	// authentication check and returns [ErrOpenFailed].
	Open(sealed string) (string, error)
}
