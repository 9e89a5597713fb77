package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hackgods/hospital-appointments/internal/calendar"
)

var (
	ErrLockNotAcquired = errors.New("slot lock not acquired")
)

// Locker is used by the appointment service to guard critical sections per slot
type Locker interface {
	WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// SlotKey names the critical section for one doctor's date and time.
func SlotKey(doctorID string, date calendar.Date, at calendar.TimeOfDay) string {
	return fmt.Sprintf("lock:slot:%s:%s:%s", doctorID, date, at)
}

type slotLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	sem  chan struct{}
	refs int
}

// NewSlotLocker returns an in-process Locker keyed by slot. Waiters block
// until the holder finishes or their context ends.
func NewSlotLocker() Locker {
	return &slotLocker{slots: make(map[string]*slot)}
}

func (l *slotLocker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	s := l.ref(key)
	defer l.unref(key, s)

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrLockNotAcquired, ctx.Err())
	}
	defer func() { <-s.sem }()

	return fn(ctx)
}

func (l *slotLocker) ref(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{sem: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *slotLocker) unref(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
