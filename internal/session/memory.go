package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-appointments/internal/calendar"
)

// MemoryStore keeps sessions in process memory. Expired entries are
// dropped by Sweep, which RunSweeper calls periodically.
type MemoryStore struct {
	clock calendar.Clock

	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore(clock calendar.Clock) *MemoryStore {
	return &MemoryStore{
		clock:    clock,
		sessions: make(map[string]Session),
	}
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	m.sessions[s.Token] = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes expired sessions and reports how many went.
func (m *MemoryStore) Sweep() int {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps once at startup and then on every tick until ctx ends.
func (m *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	log := zerolog.Ctx(ctx)

	runOnce := func() {
		if n := m.Sweep(); n > 0 {
			log.Debug().Int("removed", n).Msg("expired sessions swept")
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutdown signal received, stopping session sweeper")
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
