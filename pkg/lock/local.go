package lock

import (
	"context"
	"sync"
	"time"
)

type slot struct {
	ch   chan struct{}
	refs int
}

// Local is an in-process Locker. Slots are dropped once nobody holds or
// waits on them, so the key space does not grow without bound.
type Local struct {
	wait time.Duration

	mu    sync.Mutex
	slots map[string]*slot
}

// NewLocal returns a Local that gives up after wait. A non-positive wait
// blocks until ctx is done.
func NewLocal(wait time.Duration) *Local {
	return &Local{wait: wait, slots: make(map[string]*slot)}
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	s := l.acquireSlot(key)

	var timeout <-chan time.Time
	if l.wait > 0 {
		timer := time.NewTimer(l.wait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.releaseSlot(key, s)
		return nil, ctx.Err()
	case <-timeout:
		l.releaseSlot(key, s)
		return nil, ErrTimeout
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.releaseSlot(key, s)
		})
	}, nil
}

func (l *Local) acquireSlot(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *Local) releaseSlot(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
