package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// ErrNoSession means the token is unknown or the session expired.
var ErrNoSession = errors.New("no session")

// Store persists sessions keyed by token. Save (re)writes the session with a
// fresh TTL; Get returns ErrNoSession for unknown or expired tokens.
type Store interface {
	Get(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, sess *Session, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// Manager issues opaque tokens and maintains the sliding expiry window:
// every successful Resolve pushes the expiry out by the full TTL.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Start creates and persists a fresh anonymous session.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	sess := &Session{Token: token}
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return nil, err
	}
	return sess, nil
}

// Resolve looks the token up and slides the expiry window.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	sess.Token = token

	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return nil, err
	}
	return sess, nil
}

// Save persists handler-side mutations (login, cart changes).
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	return m.store.Save(ctx, sess, m.ttl)
}

// Destroy removes the session; the token is dead afterwards.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// newToken produces a cryptographically random 32-byte hex token.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
