package storage

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestLocker(t *testing.T, timeout time.Duration) *FlockLocker {
	t.Helper()
	return NewFlockLocker(filepath.Join(t.TempDir(), "state.json"+LockSuffix), timeout)
}

func TestWithLock_RunsFn(t *testing.T) {
	locker := newTestLocker(t, 0)

	ran := false
	err := locker.WithLock(context.Background(), func() error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("WithLock failed: %v", err)
	}
	if !ran {
		t.Error("expected fn to run")
	}
}

func TestWithLock_MutualExclusion(t *testing.T) {
	locker := newTestLocker(t, 0)
	workers := 50

	// Unsynchronized read-modify-write; only the lock keeps it exact.
	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithLock(context.Background(), func() error {
				v := counter
				runtime.Gosched()
				counter = v + 1
				return nil
			})
			if err != nil {
				t.Errorf("WithLock failed: %v", err)
			}
		}()
	}

	wg.Wait()

	if counter != workers {
		t.Errorf("expected counter %d, got %d", workers, counter)
	}
}

func TestWithLock_ReleasedOnError(t *testing.T) {
	locker := newTestLocker(t, 0)
	boom := errors.New("boom")

	err := locker.WithLock(context.Background(), func() error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error to surface, got: %v", err)
	}

	// The lock must be free again for the next caller.
	retry := NewFlockLocker(locker.path, 200*time.Millisecond)
	err = retry.WithLock(context.Background(), func() error { return nil })
	if err != nil {
		t.Errorf("expected lock to be released, got: %v", err)
	}
}

func TestWithLock_Timeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json"+LockSuffix)
	holder := NewFlockLocker(path, 0)

	acquired := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- holder.WithLock(context.Background(), func() error {
			close(acquired)
			<-release
			return nil
		})
	}()
	<-acquired

	waiter := NewFlockLocker(path, 50*time.Millisecond)
	err := waiter.WithLock(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrLockTimeout) {
		t.Errorf("expected ErrLockTimeout, got: %v", err)
	} else if !strings.Contains(err.Error(), "within 50ms") {
		t.Errorf("expected wait duration in message, got: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("holder failed: %v", err)
	}
}

func TestWithLock_ContextCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json"+LockSuffix)
	holder := NewFlockLocker(path, 0)

	acquired := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- holder.WithLock(context.Background(), func() error {
			close(acquired)
			<-release
			return nil
		})
	}()
	<-acquired

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	waiter := NewFlockLocker(path, 0)
	err := waiter.WithLock(ctx, func() error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("holder failed: %v", err)
	}
}
