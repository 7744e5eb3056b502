package abi_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/partite-ai/idlbind/abi"
)

func TestReentrantMutex(t *testing.T) {
	t.Run("nested", func(t *testing.T) {
		m := abi.NewReentrantMutex()
		depth := 0
		err := m.WithLock(context.Background(), func(ctx context.Context) error {
			if !m.Held(ctx) {
				t.Error("Held() = false inside WithLock")
			}
			return m.WithLock(ctx, func(ctx context.Context) error {
				depth++
				if d := m.Depth(); d != 2 {
					t.Errorf("Depth() while nested = %d, want 2", d)
				}
				return nil
			})
		})
		if err != nil || depth != 1 {
			t.Errorf("nested WithLock = %v, depth %d", err, depth)
		}
		if d := m.Depth(); d != 0 {
			t.Errorf("Depth() after release = %d, want 0", d)
		}
		if m.Held(context.Background()) {
			t.Error("Held() = true for an unrelated context")
		}
	})

	t.Run("other callers wait", func(t *testing.T) {
		m := abi.NewReentrantMutex()
		entered := make(chan struct{})
		release := make(chan struct{})
		go m.WithLock(context.Background(), func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
		<-entered

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := m.WithLock(ctx, func(context.Context) error { return nil })
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("WithLock() while held = %v, want deadline exceeded", err)
		}
		close(release)

		if err := m.WithLock(context.Background(), func(context.Context) error { return nil }); err != nil {
			t.Errorf("WithLock() after release = %v", err)
		}
	})

	t.Run("context kept past release does not own the lock", func(t *testing.T) {
		m := abi.NewReentrantMutex()
		var kept context.Context
		m.WithLock(context.Background(), func(ctx context.Context) error {
			kept = ctx
			return nil
		})
		if m.Held(kept) {
			t.Fatal("Held() = true after WithLock returned")
		}

		entered := make(chan struct{})
		release := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			m.WithLock(context.Background(), func(context.Context) error {
				close(entered)
				<-release
				return nil
			})
		}()
		<-entered

		ctx, cancel := context.WithTimeout(kept, 20*time.Millisecond)
		defer cancel()
		err := m.WithLock(ctx, func(context.Context) error { return nil })
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("WithLock() with a kept context while another caller holds the lock = %v, want deadline exceeded", err)
		}
		close(release)
		<-done
		if d := m.Depth(); d != 0 {
			t.Errorf("Depth() = %d after all callers returned", d)
		}
	})

	t.Run("released on error", func(t *testing.T) {
		m := abi.NewReentrantMutex()
		wantErr := errors.New("failed")
		if err := m.WithLock(context.Background(), func(context.Context) error { return wantErr }); !errors.Is(err, wantErr) {
			t.Fatalf("WithLock() = %v, want %v", err, wantErr)
		}
		if err := m.WithLock(context.Background(), func(context.Context) error { return nil }); err != nil {
			t.Errorf("lock not released after error: %v", err)
		}
	})

	t.Run("released on panic", func(t *testing.T) {
		m := abi.NewReentrantMutex()
		func() {
			defer func() { recover() }()
			m.WithLock(context.Background(), func(context.Context) error { panic("callback panicked") })
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := m.WithLock(ctx, func(context.Context) error { return nil }); err != nil {
			t.Errorf("lock not released after panic: %v", err)
		}
	})
}
