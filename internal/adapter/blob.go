// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/cropguard/internal/utils"
)

type contentLengthKey struct{}

type restyBlobTransport struct {
	client *utils.HTTPClient
}

// NewBlobTransport returns a [BlobTransport] backed by resty. The client has
// no base URL and no timeout of its own: URLs are absolute and deadlines come
// from the caller's context.
func NewBlobTransport() BlobTransport {
	c := utils.NewHTTPClient()
	c.SetRetryCount(0)
	// resty streams an io.Reader body without a length; signed PUTs need one
	c.SetPreRequestHook(func(_ *resty.Client, r *http.Request) error {
		if size, ok := r.Context().Value(contentLengthKey{}).(int64); ok && size >= 0 {
			r.ContentLength = size
			if size == 0 {
				r.Body = http.NoBody
			}
		}
		return nil
	})

	return &restyBlobTransport{client: c}
}

// Put streams body to url. onProgress may be nil.
func (t *restyBlobTransport) Put(ctx context.Context, url string, body io.Reader, size int64, headers map[string]string, onProgress ProgressFunc) error {
	ctx = context.WithValue(ctx, contentLengthKey{}, size)

	var reader io.Reader = body
	if onProgress != nil {
		reader = &progressReader{r: body, total: size, fn: onProgress}
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(reader).
		Put(url)
	if err != nil {
		return mapTransportError("blob put", err)
	}

	return mapHTTPError(resp)
}

// Get downloads the object at url.
func (t *restyBlobTransport) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := t.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, mapTransportError("blob get", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

// progressReader reports the running byte count after every Read.
type progressReader struct {
	r     io.Reader
	total int64
	fn    ProgressFunc

	mu   sync.Mutex
	sent int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.mu.Lock()
		p.sent += int64(n)
		sent := p.sent
		p.mu.Unlock()
		p.fn(sent, p.total)
	}
	return n, err
}
