// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// облегчённые параметры, чтобы тесты не тратили 64 MiB на каждый вызов
var testArgon = argonParams{time: 1, memory: 1024, threads: 1, keyLen: 32}

func newTestSealer(t *testing.T, secret string, salt []byte) TokenSealer {
	t.Helper()
	s, err := newTokenSealer(secret, salt, testArgon)
	require.NoError(t, err)
	return s
}

func TestGenerateSalt_LengthAndRandomness(t *testing.T) {
	a, err := GenerateSalt()
	require.NoError(t, err)
	b, err := GenerateSalt()
	require.NoError(t, err)

	assert.Len(t, a, SaltSize)
	assert.False(t, bytes.Equal(a, b))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)
	s := newTestSealer(t, "secret", salt)

	sealed, err := s.Seal("eyJhbGciOi.access.token")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "access")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi.access.token", plain)
}

func TestSeal_NonceRandomness(t *testing.T) {
	salt, _ := GenerateSalt()
	s := newTestSealer(t, "secret", salt)

	a, err := s.Seal("same")
	require.NoError(t, err)
	b, err := s.Seal("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

// ключ детерминирован: новый экземпляр с тем же секретом и солью открывает значение
func TestOpen_SameSecretAndSaltAcrossInstances(t *testing.T) {
	salt, _ := GenerateSalt()
	sealed, err := newTestSealer(t, "secret", salt).Seal("refresh")
	require.NoError(t, err)

	plain, err := newTestSealer(t, "secret", salt).Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "refresh", plain)
}

func TestOpen_Failures(t *testing.T) {
	salt, _ := GenerateSalt()
	sealed, err := newTestSealer(t, "secret", salt).Seal("refresh")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF
	tampered := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name   string
		sealer TokenSealer
		input  string
	}{
		{name: "wrong secret", sealer: newTestSealer(t, "other", salt), input: sealed},
		{name: "not base64", sealer: newTestSealer(t, "secret", salt), input: "%%%"},
		{name: "too short", sealer: newTestSealer(t, "secret", salt), input: "AAAA"},
		{name: "tampered", sealer: newTestSealer(t, "secret", salt), input: tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sealer.Open(tt.input)
			assert.ErrorIs(t, err, ErrOpenFailed)
		})
	}
}

func TestNewTokenSealer_Validation(t *testing.T) {
	_, err := NewTokenSealer("", make([]byte, SaltSize))
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = NewTokenSealer("secret", []byte("short"))
	assert.Error(t, err)
}
