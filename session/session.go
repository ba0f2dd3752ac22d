// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "session_id"
	MaxAge     = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid session token")

type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager issues and reads the session cookie that identifies a browser.
// It says nothing about who the voter is.
type Manager struct {
	secret []byte
	secure bool
	maxAge time.Duration
	now    func() time.Time
}

func NewManager(secret string, secure bool) *Manager {
	return &Manager{
		secret: []byte(secret),
		secure: secure,
		maxAge: MaxAge,
		now:    time.Now,
	}
}

// NewSessionID returns a random 128-bit identifier.
func NewSessionID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return id.String(), nil
}

// Sign wraps a session id into a cookie value
func (m *Manager) Sign(sessionID string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse returns the session id of a cookie value produced by Sign.
func (m *Manager) Parse(value string) (string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(value, &c, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := uuid.Parse(c.SessionID); err != nil {
		return "", fmt.Errorf("%w: malformed session id", ErrInvalidToken)
	}

	return c.SessionID, nil
}

// Resolve returns the session id carried by the request. When the request
// has no valid session cookie a new id is generated and the cookie that
// must be sent back is returned as well; otherwise the cookie is nil.
func (m *Manager) Resolve(r *http.Request) (string, *http.Cookie, error) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if sessionID, err := m.Parse(c.Value); err == nil {
			return sessionID, nil, nil
		}
	}

	sessionID, err := NewSessionID()
	if err != nil {
		return "", nil, err
	}
	cookie, err := m.Cookie(sessionID)
	if err != nil {
		return "", nil, err
	}

	return sessionID, cookie, nil
}

// Cookie builds the Set-Cookie value for a session id.
func (m *Manager) Cookie(sessionID string) (*http.Cookie, error) {
	value, err := m.Sign(sessionID)
	if err != nil {
		return nil, err
	}

	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		Expires:  m.now().Add(m.maxAge),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}
