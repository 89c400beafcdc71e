// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/MKhiriev/cropguard/internal/crypto"
)

// KeySealSalt holds the base64 key-derivation salt, stored unsealed.
const KeySealSalt = "token_store_salt"

type sealedKeyValueStore struct {
	inner  KeyValueStore
	sealer crypto.TokenSealer
}

// NewSealedKeyValueStore wraps inner so that every value is encrypted with a
// key derived from secret. The derivation salt is created on first use and
// kept in inner under [KeySealSalt].
func NewSealedKeyValueStore(ctx context.Context, inner KeyValueStore, secret string) (KeyValueStore, error) {
	salt, err := loadOrCreateSalt(ctx, inner)
	if err != nil {
		return nil, err
	}

	sealer, err := crypto.NewTokenSealer(secret, salt)
	if err != nil {
		return nil, fmt.Errorf("create token sealer: %w", err)
	}

	return NewSealedKeyValueStoreWithSealer(inner, sealer), nil
}

// NewSealedKeyValueStoreWithSealer wraps inner with an existing sealer.
func NewSealedKeyValueStoreWithSealer(inner KeyValueStore, sealer crypto.TokenSealer) KeyValueStore {
	return &sealedKeyValueStore{inner: inner, sealer: sealer}
}

func loadOrCreateSalt(ctx context.Context, inner KeyValueStore) ([]byte, error) {
	encoded, ok, err := inner.Get(ctx, KeySealSalt)
	if err != nil {
		return nil, fmt.Errorf("read seal salt: %w", err)
	}
	if ok {
		salt, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode seal salt: %w", err)
		}
		return salt, nil
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate seal salt: %w", err)
	}
	if err = inner.Set(ctx, KeySealSalt, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, fmt.Errorf("store seal salt: %w", err)
	}
	return salt, nil
}

func (s *sealedKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}

	plain, err := s.sealer.Open(sealed)
	if err != nil {
		return "", false, fmt.Errorf("open %q: %w", key, err)
	}
	return plain, true, nil
}

func (s *sealedKeyValueStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("seal %q: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *sealedKeyValueStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}
