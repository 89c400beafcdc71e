// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package devserver

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/utils"
	"github.com/MKhiriev/cropguard/models"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type account struct {
	id           int64
	username     string
	email        string
	firstName    string
	lastName     string
	passwordHash []byte
	createdAt    time.Time
}

// Auth keeps registered accounts in memory and issues JWT access and
// refresh tokens for them.
type Auth struct {
	cfg  config.DevServerAuth
	cost int

	mu      sync.RWMutex
	byEmail map[string]*account
	byID    map[int64]*account
	nextID  int64
}

// NewAuth returns an empty account registry. cost is the bcrypt cost; zero
// selects bcrypt.DefaultCost.
func NewAuth(cfg config.DevServerAuth, cost int) *Auth {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Auth{
		cfg:     cfg,
		cost:    cost,
		byEmail: make(map[string]*account),
		byID:    make(map[int64]*account),
	}
}

// Register creates an account. Email and username must be unique.
func (a *Auth) Register(_ context.Context, req models.RegisterRequest) (models.RegisterResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	switch {
	case req.Username == "":
		return models.RegisterResponse{}, fmt.Errorf("%w: username is required", ErrInvalidDataProvided)
	case email == "":
		return models.RegisterResponse{}, fmt.Errorf("%w: email is required", ErrInvalidDataProvided)
	case len(req.Password) < minPasswordLength:
		return models.RegisterResponse{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidDataProvided, minPasswordLength)
	case req.Password2 != "" && req.Password2 != req.Password:
		return models.RegisterResponse{}, fmt.Errorf("%w: password fields didn't match", ErrInvalidDataProvided)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.RegisterResponse{}, fmt.Errorf("%w: enter a valid email address", ErrInvalidDataProvided)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), a.cost)
	if err != nil {
		return models.RegisterResponse{}, fmt.Errorf("hash password: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.byEmail[email]; ok {
		return models.RegisterResponse{}, fmt.Errorf("%w: email %s", ErrAlreadyExists, email)
	}
	for _, acc := range a.byID {
		if strings.EqualFold(acc.username, req.Username) {
			return models.RegisterResponse{}, fmt.Errorf("%w: username %s", ErrAlreadyExists, req.Username)
		}
	}

	a.nextID++
	acc := &account{
		id:           a.nextID,
		username:     req.Username,
		email:        email,
		firstName:    req.FirstName,
		lastName:     req.LastName,
		passwordHash: hash,
		createdAt:    time.Now(),
	}
	a.byEmail[email] = acc
	a.byID[acc.id] = acc

	return models.RegisterResponse{
		Message:  "User registered successfully",
		UserID:   acc.id,
		Username: acc.username,
		Email:    acc.email,
	}, nil
}

// Login checks the credentials and issues a token pair.
func (a *Auth) Login(_ context.Context, email, password string) (models.LoginResponse, error) {
	a.mu.RLock()
	acc, ok := a.byEmail[strings.ToLower(strings.TrimSpace(email))]
	a.mu.RUnlock()
	if !ok {
		return models.LoginResponse{}, ErrWrongCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return models.LoginResponse{}, ErrWrongCredentials
	}

	subject := strconv.FormatInt(acc.id, 10)
	access, err := utils.GenerateJWTToken(a.cfg.Issuer, subject, models.TokenTypeAccess, a.cfg.AccessDuration, a.cfg.SignKey)
	if err != nil {
		return models.LoginResponse{}, err
	}
	refresh, err := utils.GenerateJWTToken(a.cfg.Issuer, subject, models.TokenTypeRefresh, a.cfg.RefreshDuration, a.cfg.SignKey)
	if err != nil {
		return models.LoginResponse{}, err
	}

	return models.LoginResponse{
		Access:  access.String(),
		Refresh: refresh.String(),
		User:    &models.UserSummary{ID: acc.id, Email: acc.email, Username: acc.username},
	}, nil
}

// Refresh issues a new access token for a valid refresh token. The refresh
// token itself is not rotated.
func (a *Auth) Refresh(_ context.Context, refreshToken string) (models.RefreshResponse, error) {
	token, err := utils.ValidateAndParseJWTToken(refreshToken, a.cfg.SignKey, a.cfg.Issuer, models.TokenTypeRefresh)
	if err != nil {
		return models.RefreshResponse{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !a.exists(token.UserID()) {
		return models.RefreshResponse{}, fmt.Errorf("%w: unknown user", ErrTokenInvalid)
	}

	access, err := utils.GenerateJWTToken(a.cfg.Issuer, token.UserID(), models.TokenTypeAccess, a.cfg.AccessDuration, a.cfg.SignKey)
	if err != nil {
		return models.RefreshResponse{}, err
	}
	return models.RefreshResponse{Access: access.String()}, nil
}

// ParseAccessToken validates an access token and returns its user ID.
func (a *Auth) ParseAccessToken(_ context.Context, accessToken string) (string, error) {
	token, err := utils.ValidateAndParseJWTToken(accessToken, a.cfg.SignKey, a.cfg.Issuer, models.TokenTypeAccess)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !a.exists(token.UserID()) {
		return "", fmt.Errorf("%w: unknown user", ErrTokenInvalid)
	}
	return token.UserID(), nil
}

func (a *Auth) exists(subject string) bool {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.byID[id]
	return ok
}
