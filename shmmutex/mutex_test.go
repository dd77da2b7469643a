package shmmutex

import (
	"os"
	"sync"
	"testing"
)

func testKey(t *testing.T) Key {
	t.Helper()
	return Key(int32(os.Getpid())*131 + int32(len(t.Name())))
}

func TestAcquireReleaseRoundTrip(t *testing.T) {
	key := testKey(t)
	m, err := New(key, 0o600)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Free()

	g, err := m.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := g.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}

func TestReleaseTwiceFails(t *testing.T) {
	key := testKey(t)
	m, err := New(key, 0o600)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Free()

	g, err := m.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := g.Release(); err != nil {
		t.Fatalf("first Release() error = %v", err)
	}
	if err := g.Release(); err != ErrAlreadyReleased {
		t.Fatalf("second Release() error = %v, want ErrAlreadyReleased", err)
	}
}

func TestOpenSharesSameLock(t *testing.T) {
	key := testKey(t)
	owner, err := New(key, 0o600)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer owner.Free()

	opened, err := Open(key)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	g, err := owner.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		g2, err := opened.Acquire()
		if err != nil {
			t.Errorf("second Acquire() error = %v", err)
			return
		}
		g2.Release()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatalf("second Acquire() returned before first Release()")
	default:
	}

	if err := g.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	<-acquired
}

func TestOpenMissingFails(t *testing.T) {
	key := testKey(t)
	if _, err := Open(key); err != ErrNotExist {
		t.Fatalf("Open() error = %v, want ErrNotExist", err)
	}
}

func TestConcurrentGoroutinesSerialize(t *testing.T) {
	key := testKey(t)
	m, err := New(key, 0o600)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Free()

	const n = 200
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, err := m.Acquire()
			if err != nil {
				t.Errorf("Acquire() error = %v", err)
				return
			}
			defer g.Release()
			counter++
		}()
	}
	wg.Wait()

	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
}
