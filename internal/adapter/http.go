// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/store"
	"github.com/MKhiriev/cropguard/internal/utils"
	"github.com/MKhiriev/cropguard/models"
)

// Backend endpoints, relative to the API base URL.
const (
	loginEndpoint    = "/auth/token/"
	refreshEndpoint  = "/auth/token/refresh/"
	registerEndpoint = "/auth/register/"
	pingEndpoint     = "/"
)

// Result is a successful (2xx) REST response.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// NoContent is set for 204 responses; Body is empty then.
	NoContent bool
}

// Decode unmarshals the JSON body into v.
func (r Result) Decode(v any) error {
	if r.NoContent || len(r.Body) == 0 {
		return fmt.Errorf("decode response: empty body (status %d)", r.StatusCode)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type httpSessionManager struct {
	client *utils.HTTPClient
	kv     store.KeyValueStore

	mu         sync.RWMutex
	access     string
	refresh    string
	refreshing bool
	// gen changes on every login and logout; a refresh started under an
	// older gen must not touch the session.
	gen uint64

	group singleflight.Group

	logger *logger.Logger
}

// NewHTTPSessionManager constructs the REST implementation of
// [SessionTokenManager]. It normalises adapterCfg.BaseURL, configures the
// underlying resty client, and restores any tokens persisted in kv.
//
// Returns an error if the base URL is empty or invalid. A failure to read
// persisted tokens is logged and the manager starts logged out.
func NewHTTPSessionManager(ctx context.Context, adapterCfg config.ClientAdapter, kv store.KeyValueStore, logger *logger.Logger) (SessionTokenManager, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	m := &httpSessionManager{
		client: utils.NewAPIClient(baseURL, adapterCfg.RequestTimeout),
		kv:     kv,
		logger: logger,
	}
	m.restore(ctx)

	return m, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (m *httpSessionManager) restore(ctx context.Context) {
	access, _, err := m.kv.Get(ctx, store.KeyAccessToken)
	if err != nil {
		m.logger.Err(err).Str("func", "httpSessionManager.restore").Msg("cannot read stored access token, starting logged out")
		return
	}
	refresh, _, err := m.kv.Get(ctx, store.KeyRefreshToken)
	if err != nil {
		m.logger.Err(err).Str("func", "httpSessionManager.restore").Msg("cannot read stored refresh token, starting logged out")
		return
	}

	m.mu.Lock()
	m.access, m.refresh = access, refresh
	m.mu.Unlock()
}

// Request implements [SessionTokenManager].
func (m *httpSessionManager) Request(ctx context.Context, endpoint, method string, body any, requiresAuth bool) (Result, error) {
	log := logger.FromContext(ctx)

	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}

	// readers are drained once so that a replay sends the same bytes
	if r, ok := body.(io.Reader); ok {
		raw, err := io.ReadAll(r)
		if err != nil {
			return Result{}, fmt.Errorf("read request body: %w", err)
		}
		body = raw
	}

	token := m.accessToken()
	resp, err := m.send(ctx, endpoint, method, body, requiresAuth, token)
	if err != nil {
		return Result{}, mapTransportError(method+" "+endpoint, err)
	}

	if resp.StatusCode() == http.StatusUnauthorized && requiresAuth {
		log.Debug().Str("func", "httpSessionManager.Request").Str("endpoint", endpoint).Msg("access token rejected, refreshing")

		fresh, err := m.refreshFrom(ctx, token, false)
		if err != nil {
			return Result{}, err
		}

		resp, err = m.send(ctx, endpoint, method, body, requiresAuth, fresh)
		if err != nil {
			return Result{}, mapTransportError(method+" "+endpoint, err)
		}
		if resp.StatusCode() == http.StatusUnauthorized {
			log.Warn().Str("func", "httpSessionManager.Request").Str("endpoint", endpoint).Msg("request rejected after refresh, clearing session")
			m.clear(ctx)
			return Result{}, fmt.Errorf("%w: %s %s rejected after token refresh", ErrAuthExpired, method, endpoint)
		}
	}

	return toResult(resp)
}

func (m *httpSessionManager) send(ctx context.Context, endpoint, method string, body any, requiresAuth bool, token string) (*resty.Response, error) {
	req := m.client.R().SetContext(ctx)
	if requiresAuth && token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}

	switch b := body.(type) {
	case nil:
	case []byte:
		req.SetHeader("Content-Type", "application/octet-stream").SetBody(b)
	default:
		req.SetHeader("Content-Type", "application/json").SetBody(b)
	}

	return req.Execute(method, endpoint)
}

func toResult(resp *resty.Response) (Result, error) {
	if err := mapHTTPError(resp); err != nil {
		return Result{}, err
	}

	res := Result{StatusCode: resp.StatusCode(), Header: resp.Header()}
	if resp.StatusCode() == http.StatusNoContent {
		res.NoContent = true
		return res, nil
	}
	res.Body = resp.Body()
	return res, nil
}

// Login implements [SessionTokenManager]. It POSTs the credentials to
// POST /auth/token/ and stores the returned pair.
func (m *httpSessionManager) Login(ctx context.Context, email, password string) (models.Session, error) {
	var out models.LoginResponse

	resp, err := m.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.LoginRequest{Email: email, Password: password}).
		SetResult(&out).
		Post(loginEndpoint)
	if err != nil {
		return models.Session{}, mapTransportError("login", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}
	if out.Access == "" || out.Refresh == "" {
		return models.Session{}, fmt.Errorf("login response: missing tokens")
	}

	m.mu.Lock()
	m.gen++
	m.access, m.refresh = out.Access, out.Refresh
	m.persist(ctx, out.Access, out.Refresh)
	m.mu.Unlock()

	logger.FromContext(ctx).Info().Str("func", "httpSessionManager.Login").Msg("logged in")
	return m.Session(), nil
}

// Register implements [SessionTokenManager]. It POSTs to /auth/register/.
func (m *httpSessionManager) Register(ctx context.Context, req models.RegisterRequest) (Result, error) {
	return m.Request(ctx, registerEndpoint, http.MethodPost, req, false)
}

// Refresh implements [SessionTokenManager].
func (m *httpSessionManager) Refresh(ctx context.Context) (models.Session, error) {
	if _, err := m.refreshFrom(ctx, m.accessToken(), true); err != nil {
		return models.Session{}, err
	}
	return m.Session(), nil
}

// refreshFrom returns an access token newer than stale. If another caller
// has already replaced stale, the current token is returned without a
// network call (unless force is set). Concurrent callers holding the same
// stale token share a single refresh request.
func (m *httpSessionManager) refreshFrom(ctx context.Context, stale string, force bool) (string, error) {
	if cur := m.accessToken(); !force && cur != "" && cur != stale {
		return cur, nil
	}

	v, err, shared := m.group.Do("refresh:"+stale, func() (any, error) {
		if cur := m.accessToken(); !force && cur != "" && cur != stale {
			return cur, nil
		}
		// detached so that one caller giving up does not fail the others
		return m.doRefresh(context.WithoutCancel(ctx))
	})
	if shared {
		logger.FromContext(ctx).Debug().Str("func", "httpSessionManager.refreshFrom").Msg("joined in-flight refresh")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (m *httpSessionManager) doRefresh(ctx context.Context) (string, error) {
	log := logger.FromContext(ctx)

	m.mu.Lock()
	refresh, gen := m.refresh, m.gen
	m.refreshing = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.refreshing = false
		m.mu.Unlock()
	}()

	if refresh == "" {
		m.clearIf(ctx, gen)
		return "", fmt.Errorf("%w: no refresh token", ErrAuthExpired)
	}

	var out models.RefreshResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RefreshRequest{Refresh: refresh}).
		SetResult(&out).
		Post(refreshEndpoint)
	if err != nil {
		err = mapTransportError("refresh", err)
	} else {
		err = mapHTTPError(resp)
	}
	if err == nil && out.Access == "" {
		err = fmt.Errorf("refresh response: missing access token")
	}
	if err != nil {
		log.Err(err).Str("func", "httpSessionManager.doRefresh").Msg("token refresh failed, clearing session")
		m.clearIf(ctx, gen)
		return "", fmt.Errorf("%w: %w", ErrAuthExpired, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		// logged out or logged in again while the refresh was in flight
		log.Debug().Str("func", "httpSessionManager.doRefresh").Msg("session changed during refresh, dropping result")
		if m.access == "" {
			return "", fmt.Errorf("%w: session ended during refresh", ErrAuthExpired)
		}
		return m.access, nil
	}
	m.access = out.Access
	if err = m.kv.Set(ctx, store.KeyAccessToken, out.Access); err != nil {
		log.Err(err).Str("func", "httpSessionManager.doRefresh").Msg("failed to persist refreshed access token")
	}

	log.Debug().Str("func", "httpSessionManager.doRefresh").Msg("access token refreshed")
	return out.Access, nil
}

// Logout implements [SessionTokenManager].
func (m *httpSessionManager) Logout(ctx context.Context) {
	m.clear(ctx)
}

func (m *httpSessionManager) clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked(ctx)
}

// clearIf clears the session only if it is still generation gen.
func (m *httpSessionManager) clearIf(ctx context.Context, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen == gen {
		m.clearLocked(ctx)
	}
}

func (m *httpSessionManager) clearLocked(ctx context.Context) {
	m.gen++
	m.access, m.refresh = "", ""

	for _, key := range []string{store.KeyAccessToken, store.KeyRefreshToken} {
		if err := m.kv.Remove(ctx, key); err != nil {
			logger.FromContext(ctx).Err(err).Str("func", "httpSessionManager.clear").Str("key", key).Msg("failed to remove stored token")
		}
	}
}

func (m *httpSessionManager) persist(ctx context.Context, access, refresh string) {
	log := logger.FromContext(ctx)
	if err := m.kv.Set(ctx, store.KeyAccessToken, access); err != nil {
		log.Err(err).Str("func", "httpSessionManager.persist").Msg("failed to persist access token")
	}
	if err := m.kv.Set(ctx, store.KeyRefreshToken, refresh); err != nil {
		log.Err(err).Str("func", "httpSessionManager.persist").Msg("failed to persist refresh token")
	}
}

// Session implements [SessionTokenManager].
func (m *httpSessionManager) Session() models.Session {
	m.mu.RLock()
	s := models.Session{
		AccessToken:     m.access,
		RefreshToken:    m.refresh,
		RefreshInFlight: m.refreshing,
	}
	m.mu.RUnlock()

	if s.AccessToken != "" {
		if userID, exp, err := utils.ParseUnverifiedClaims(s.AccessToken); err == nil {
			s.UserID, s.ExpiresAt = userID, exp
		}
	}
	return s
}

// IsAuthenticated implements [SessionTokenManager].
func (m *httpSessionManager) IsAuthenticated() bool {
	return m.accessToken() != ""
}

func (m *httpSessionManager) accessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

// Ping implements [SessionTokenManager].
func (m *httpSessionManager) Ping(ctx context.Context) error {
	resp, err := m.client.R().SetContext(ctx).Get(pingEndpoint)
	if err != nil {
		return mapTransportError("ping", err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return mapHTTPError(resp)
	}
	return nil
}
