package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/hospital-appointments/internal/calendar"
)

func TestSlotKey(t *testing.T) {
	key := SlotKey("MED001", calendar.NewDate(2026, time.October, 17), calendar.MustTime(9, 0))
	assert.Equal(t, "lock:slot:MED001:2026-10-17:09:00", key)
}

func TestWithSlotLockSerializesSameKey(t *testing.T) {
	l := NewSlotLocker()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.WithSlotLock(context.Background(), "k", func(context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestWithSlotLockHonoursContext(t *testing.T) {
	l := NewSlotLocker()
	held := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = l.WithSlotLock(context.Background(), "k", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := l.WithSlotLock(ctx, "k", func(context.Context) error { return nil })
	require.ErrorIs(t, err, ErrLockNotAcquired)

	close(release)
	err = l.WithSlotLock(context.Background(), "other", func(context.Context) error { return nil })
	assert.NoError(t, err)
}
