/*
 *
 * Copyright 2025 gRPC authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package shmmutex

import (
	"os"
	"sync"
)

// Key identifies a semaphore set in the OS's System V IPC namespace. It is
// the serializable part of a Mutex: any process that knows a live Mutex's
// Key can Open it and acquire the same cross-process lock.
type Key int32

// platform-specific backing, wired up by the build-tagged file for this
// GOOS/GOARCH. Left nil (every call fails with ErrUnsupported) until that
// file's init() runs.
var (
	createSem func(key Key, perm os.FileMode) (int, error)
	openSem   func(key Key) (int, error)
	acquire   func(id int) error
	release   func(id int) error
	removeSem func(id int) error
)

// Mutex is a named counting semaphore initialised to 1. It is safe for
// concurrent use by multiple goroutines within one process; across
// processes, mutual exclusion is provided by the kernel semaphore itself.
//
// Fairness and reentrancy are not guaranteed: a single holder must not
// re-acquire, and waiters are not served in FIFO order.
type Mutex struct {
	key  Key
	id   int
	mu   sync.Mutex // serializes Free calls from this process's goroutines
	free bool
}

// New creates a fresh semaphore at key, initialised to 1. It fails with
// ErrExists if one already exists there.
func New(key Key, perm os.FileMode) (*Mutex, error) {
	if createSem == nil {
		return nil, ErrUnsupported
	}
	id, err := createSem(key, perm)
	if err != nil {
		return nil, err
	}
	return &Mutex{key: key, id: id}, nil
}

// Open attaches to an existing semaphore at key. It fails with ErrNotExist
// if none exists there. Open is what makes a Mutex usable after handle
// deserialization in another process, and after fork/exec in the same
// lineage.
func Open(key Key) (*Mutex, error) {
	if openSem == nil {
		return nil, ErrUnsupported
	}
	id, err := openSem(key)
	if err != nil {
		return nil, err
	}
	return &Mutex{key: key, id: id}, nil
}

// Key returns the semaphore's serializable name.
func (m *Mutex) Key() Key {
	return m.key
}

// Guard is returned by Acquire; it releases the semaphore exactly once, on
// Release or on the first Release call after the callback protected by
// Acquire has run. Calling Release more than once returns ErrAlreadyReleased
// and has no further effect.
type Guard struct {
	m        *Mutex
	released bool
}

// Acquire blocks until the semaphore is taken. The returned Guard must be
// released on every exit path, including when the operation it protects
// fails.
func (m *Mutex) Acquire() (*Guard, error) {
	if err := acquire(m.id); err != nil {
		return nil, err
	}
	return &Guard{m: m}, nil
}

// Release releases the semaphore. It is idempotent in the sense that a
// second call returns ErrAlreadyReleased instead of releasing twice (which
// would desynchronize the count from actual holders).
func (g *Guard) Release() error {
	if g.released {
		return ErrAlreadyReleased
	}
	g.released = true
	return release(g.m.id)
}

// Free removes the underlying OS semaphore. It is only safe to call when no
// holder remains; Free does not wait for or evict existing holders.
func (m *Mutex) Free() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.free {
		return nil
	}
	m.free = true
	return removeSem(m.id)
}
