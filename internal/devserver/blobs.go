// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package devserver

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/cropguard/internal/utils"
)

// BlobInfo describes one stored object.
type BlobInfo struct {
	Key         string
	Size        int64
	ContentType string
	ModTime     time.Time
	ETag        string
	Metadata    map[string]string
}

// BlobStore keeps objects as files under a root directory and hands out
// HMAC-signed URLs for them. The index of content types and user metadata
// lives in memory and is rebuilt from the directory tree on start.
type BlobStore struct {
	dir     string
	baseURL string
	signKey string
	now     func() time.Time

	mu      sync.RWMutex
	objects map[string]BlobInfo
}

// NewBlobStore opens or creates dir. baseURL is the public prefix under
// which objects are served, e.g. "http://localhost:8000/blobs".
func NewBlobStore(dir, baseURL, signKey string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}

	b := &BlobStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		signKey: signKey,
		now:     time.Now,
		objects: make(map[string]BlobInfo),
	}
	if err := b.reindex(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *BlobStore) reindex() error {
	return filepath.WalkDir(b.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return err
		}
		rel, err := filepath.Rel(b.dir, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		b.objects[key] = BlobInfo{
			Key:         key,
			Size:        info.Size(),
			ContentType: mime.TypeByExtension(path.Ext(key)),
			ModTime:     info.ModTime().UTC(),
		}
		return nil
	})
}

// CleanKey normalises an object key and rejects keys escaping the store.
func CleanKey(key string) (string, error) {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" || strings.ContainsRune(key, 0) {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// URL returns the unsigned location of key.
func (b *BlobStore) URL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return b.baseURL + "/" + strings.Join(parts, "/")
}

// SignURL returns URL(key) with an expiry and an HMAC over method, key and
// expiry.
func (b *BlobStore) SignURL(method, key string, expiry time.Duration) (string, error) {
	key, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	expires := strconv.FormatInt(b.now().Add(expiry).Unix(), 10)

	q := url.Values{}
	q.Set("expires", expires)
	q.Set("signature", utils.HashString(signingString(method, key, expires), b.signKey))
	return b.URL(key) + "?" + q.Encode(), nil
}

// Verify checks a signature produced by SignURL.
func (b *BlobStore) Verify(method, key, expires, signature string) error {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || signature == "" {
		return ErrBadSignature
	}
	if b.now().Unix() > exp {
		return fmt.Errorf("%w: expired at %s", ErrBadSignature, time.Unix(exp, 0).UTC().Format(time.RFC3339))
	}
	if !utils.VerifyHashString(signingString(method, key, expires), b.signKey, signature) {
		return ErrBadSignature
	}
	return nil
}

func signingString(method, key, expires string) string {
	return strings.ToUpper(method) + "\n" + key + "\n" + expires
}

func (b *BlobStore) path(key string) string {
	return filepath.Join(b.dir, filepath.FromSlash(key))
}

// Put stores r under key, replacing any previous object.
func (b *BlobStore) Put(key string, r io.Reader, contentType string, metadata map[string]string) (BlobInfo, error) {
	key, err := CleanKey(key)
	if err != nil {
		return BlobInfo{}, err
	}

	target := b.path(key)
	if err = os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return BlobInfo{}, fmt.Errorf("create object dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return BlobInfo{}, fmt.Errorf("create temp object: %w", err)
	}
	defer os.Remove(tmp.Name())

	sum := md5.New()
	size, err := io.Copy(io.MultiWriter(tmp, sum), r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return BlobInfo{}, fmt.Errorf("write object: %w", err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return BlobInfo{}, fmt.Errorf("commit object: %w", err)
	}

	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(key))
	}
	info := BlobInfo{
		Key:         key,
		Size:        size,
		ContentType: contentType,
		ModTime:     b.now().UTC(),
		ETag:        `"` + hex.EncodeToString(sum.Sum(nil)) + `"`,
		Metadata:    maps.Clone(metadata),
	}

	b.mu.Lock()
	b.objects[key] = info
	b.mu.Unlock()
	return info, nil
}

// Open returns the content of key. The caller closes the file.
func (b *BlobStore) Open(key string) (*os.File, BlobInfo, error) {
	info, err := b.Stat(key)
	if err != nil {
		return nil, BlobInfo{}, err
	}
	f, err := os.Open(b.path(info.Key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, BlobInfo{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, BlobInfo{}, fmt.Errorf("open object: %w", err)
	}
	return f, info, nil
}

// Stat returns the index entry of key.
func (b *BlobStore) Stat(key string) (BlobInfo, error) {
	key, err := CleanKey(key)
	if err != nil {
		return BlobInfo{}, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	info, ok := b.objects[key]
	if !ok {
		return BlobInfo{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	info.Metadata = maps.Clone(info.Metadata)
	return info, nil
}

// Delete removes key.
func (b *BlobStore) Delete(key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err = os.Remove(b.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove object: %w", err)
	}
	delete(b.objects, key)
	return nil
}

// List returns up to limit objects under prefix in key order, starting
// after the continuation token (the last key of the previous page). next
// is empty on the last page; total counts every object under prefix.
func (b *BlobStore) List(prefix string, limit int, after string) (items []BlobInfo, next string, total int) {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	b.mu.RLock()
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	total = len(keys)

	for _, k := range keys {
		if after != "" && k <= after {
			continue
		}
		if limit > 0 && len(items) == limit {
			next = items[len(items)-1].Key
			break
		}
		items = append(items, b.objects[k])
	}
	b.mu.RUnlock()

	return items, next, total
}

// Usage is the total size of all stored objects.
func (b *BlobStore) Usage() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var used int64
	for _, o := range b.objects {
		used += o.Size
	}
	return used
}
