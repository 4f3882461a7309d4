// Package session issues and resolves signed session tokens and broadcasts
// sign-in/sign-out events to subscribers.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"restaurant-storefront/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalid is returned for malformed, expired or revoked tokens.
var ErrInvalid = errors.New("invalid or expired session")

// Session is the authenticated identity attached to a request.
type Session struct {
	ID        string          `json:"id"`
	UserID    uint            `json:"user_id"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	ExpiresAt time.Time       `json:"expires_at"`
	Token     string          `json:"-"`
}

type EventType string

const (
	EventSignedIn  EventType = "SIGNED_IN"
	EventSignedOut EventType = "SIGNED_OUT"
)

type Event struct {
	Type    EventType
	Session Session
}

// Listener receives session events synchronously, in subscription order.
type Listener func(Event)

// Store persists the server-side session records.
type Store interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Revoke(ctx context.Context, id string, at time.Time) error
}

type Claims struct {
	UserID uint            `json:"user_id"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

func NewManager(store Store, secret []byte, ttl time.Duration) *Manager {
	return &Manager{
		store:     store,
		secret:    secret,
		ttl:       ttl,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

// Issue creates a session for user and returns it with a signed token.
func (m *Manager) Issue(ctx context.Context, user *models.User) (*Session, error) {
	now := m.now()
	rec := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        rec.ID,
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(rec.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s := &Session{
		ID:        rec.ID,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: rec.ExpiresAt,
		Token:     token,
	}
	m.publish(Event{Type: EventSignedIn, Session: *s})
	return s, nil
}

// Resolve validates a token and checks that its session was not revoked.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalid
	}

	rec, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		return nil, ErrInvalid
	}
	if rec.UserID != claims.UserID || !rec.Active(m.now()) {
		return nil, ErrInvalid
	}

	return &Session{
		ID:        rec.ID,
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: rec.ExpiresAt,
		Token:     token,
	}, nil
}

// Revoke signs the session out.
func (m *Manager) Revoke(ctx context.Context, s *Session) error {
	if err := m.store.Revoke(ctx, s.ID, m.now()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	m.publish(Event{Type: EventSignedOut, Session: *s})
	return nil
}

// Subscribe registers l for future events and returns a function that
// removes it.
func (m *Manager) Subscribe(l Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) publish(ev Event) {
	m.mu.RLock()
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	slices.Sort(ids)
	for _, id := range ids {
		m.mu.RLock()
		l, ok := m.listeners[id]
		m.mu.RUnlock()
		if ok {
			l(ev)
		}
	}
}
