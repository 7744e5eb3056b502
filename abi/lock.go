package abi

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

type lockOwnerKey struct {
	m *ReentrantMutex
}

// lockToken identifies one outermost acquisition of a ReentrantMutex.
type lockToken struct{}

// ReentrantMutex serializes callback dispatch. Each outermost WithLock call
// mints an owner token and passes it down in the context given to fn, so a
// callback that calls back into the runtime with that context re-enters
// instead of deadlocking. The token stops counting once that WithLock
// returns; a context kept past that point waits like any other caller.
//
// The context handed to fn stands for the calling goroutine. Callbacks must
// not pass it to other goroutines: those would re-enter while the owner is
// still running.
type ReentrantMutex struct {
	sem *semaphore.Weighted

	mu    sync.Mutex
	owner *lockToken
	depth int
}

func NewReentrantMutex() *ReentrantMutex {
	return &ReentrantMutex{sem: semaphore.NewWeighted(1)}
}

// Held reports whether ctx carries the token of the acquisition currently
// holding m.
func (m *ReentrantMutex) Held(ctx context.Context) bool {
	tok, _ := ctx.Value(lockOwnerKey{m}).(*lockToken)
	if tok == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner == tok
}

// WithLock runs fn while holding m. Waiting for the lock honours ctx; the
// lock is released when fn returns, fails or panics.
func (m *ReentrantMutex) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	if tok, ok := m.enter(ctx); ok {
		defer m.leave(tok)
		return fn(ctx)
	}

	if err := m.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	tok := &lockToken{}
	m.mu.Lock()
	m.owner, m.depth = tok, 1
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.owner, m.depth = nil, 0
		m.mu.Unlock()
		m.sem.Release(1)
	}()
	return fn(context.WithValue(ctx, lockOwnerKey{m}, tok))
}

// enter records a nested acquisition when ctx belongs to the active owner.
func (m *ReentrantMutex) enter(ctx context.Context) (*lockToken, bool) {
	tok, _ := ctx.Value(lockOwnerKey{m}).(*lockToken)
	if tok == nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner != tok {
		return nil, false
	}
	m.depth++
	return tok, true
}

func (m *ReentrantMutex) leave(tok *lockToken) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner == tok {
		m.depth--
	}
}

// Depth is the number of active acquisitions, nested ones included.
func (m *ReentrantMutex) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depth
}
