// Package session turns a successful login into an explicit token that
// callers present on later requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
)

var (
	ErrSessionNotFound = errors.New("session not found or expired")
	ErrMissingLogin    = errors.New("username and password are required")
	ErrInvalidTTL      = errors.New("session ttl must be positive")
)

// Session binds a token to the person who logged in.
type Session struct {
	Token     string         `json:"token"`
	PersonID  string         `json:"person_id"`
	Username  string         `json:"username"`
	Kind      directory.Kind `json:"kind"`
	Name      string         `json:"name"`
	IssuedAt  time.Time      `json:"issued_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store keeps sessions until they expire or are deleted.
type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

type Manager struct {
	directory *directory.Store
	store     Store
	clock     calendar.Clock
	ttl       time.Duration
}

func NewManager(dir *directory.Store, store Store, clock calendar.Clock, ttl time.Duration) *Manager {
	return &Manager{
		directory: dir,
		store:     store,
		clock:     clock,
		ttl:       ttl,
	}
}

// Login checks the credentials against the directory and issues a new
// session. Nothing global changes; the returned token is the only record
// of who is logged in.
func (m *Manager) Login(ctx context.Context, username, password string) (Session, error) {
	if username == "" || password == "" {
		return Session{}, ErrMissingLogin
	}

	person, err := m.directory.Authenticate(username, password)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Str("username", username).Msg("login rejected")
		return Session{}, err
	}

	now := m.clock.Now()
	s := Session{
		Token:     uuid.NewString(),
		PersonID:  person.ID,
		Username:  person.Account.Username,
		Kind:      person.Kind,
		Name:      person.Name,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("person_id", s.PersonID).Str("kind", string(s.Kind)).Msg("login")
	return s, nil
}

// Resolve returns the live session for token.
func (m *Manager) Resolve(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrSessionNotFound
	}
	s, err := m.store.Get(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if s.Expired(m.clock.Now()) {
		_ = m.store.Delete(ctx, token)
		return Session{}, ErrSessionNotFound
	}

	// The person may have been removed since login.
	person, err := m.directory.FindPerson(s.PersonID)
	if err != nil || person.Kind != s.Kind {
		_ = m.store.Delete(ctx, token)
		zerolog.Ctx(ctx).Info().Str("person_id", s.PersonID).Msg("session revoked, person no longer registered")
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Logout(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
