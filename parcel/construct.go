package parcel

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"

	"github.com/outofband/shmparcel/shmmutex"
	"github.com/outofband/shmparcel/shmseg"
)

// DefaultCapacity is the default initial payload capacity in bytes.
const DefaultCapacity = 16384

// DefaultPermissions is the default OS permission mask for a new parcel's
// segment and mutex.
const DefaultPermissions os.FileMode = 0o600

// Parcel is a shared-memory container holding a single value of type V. A
// Parcel is not safe for concurrent use by multiple goroutines within one
// process except through Synchronized; Unwrap/Wrap/Free/Clone calls on the
// same Parcel from separate goroutines must be externally serialized the
// same way separate processes are (acquire the Mutex).
type Parcel[V any] struct {
	mu    sync.Mutex // serializes this in-process handle's own state transitions
	codec Codec[V]

	key   shmseg.Key
	seg   *shmseg.Segment
	mutex *shmmutex.Mutex

	freed bool
}

// handleCounter gives each New call within a process a distinct identity
// component, so concurrently-constructed parcels in the same process don't
// collide even if rand produces the same seed draw.
var handleCounter atomic.Uint64

// identity returns a string unique enough to hash into an initial segment
// key: process id, a per-process monotonic counter, and a random
// component. This is a pragmatic uniqueness heuristic, not collision-free.
func identity() string {
	n := handleCounter.Add(1)
	return fmt.Sprintf("%d-%d-%x", os.Getpid(), n, rand.Uint64())
}

// New creates a parcel holding value, using codec to serialize it. capacity
// is the initial payload capacity in bytes (not counting the header);
// perm is the OS permission mask recorded on the segment and mutex.
//
// It fails with ErrInit if the initial segment or mutex cannot be created,
// including on collision with an existing key and on platforms lacking
// shared-memory support.
func New[V any](value V, codec Codec[V], capacity int, perm os.FileMode) (*Parcel[V], error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if perm == 0 {
		perm = DefaultPermissions
	}

	key := initialKey(identity())
	seg, err := shmseg.Create(key, perm, HeaderSize+capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: create segment: %v", ErrInit, err)
	}

	h := header{state: Allocated, sizeOrKey: 0, permissions: uint16(perm.Perm())}
	if err := seg.WriteAt(0, h.encode()); err != nil {
		seg.Close()
		return nil, fmt.Errorf("%w: write header: %v", ErrInit, err)
	}

	mtx, err := shmmutex.New(shmmutex.Key(int32(key)), perm)
	if err != nil {
		seg.MarkDeleted()
		seg.Close()
		return nil, fmt.Errorf("%w: create mutex: %v", ErrInit, err)
	}

	p := &Parcel[V]{
		codec: codec,
		key:   key,
		seg:   seg,
		mutex: mtx,
	}
	if err := p.wrapLocked(value); err != nil {
		p.mutex.Free()
		p.seg.MarkDeleted()
		p.seg.Close()
		return nil, fmt.Errorf("%w: initial wrap: %v", ErrInit, err)
	}
	return p, nil
}

// Close detaches this handle's local segment descriptor without affecting
// the parcel's shared state: other handles (including ones in other
// processes) are unaffected. Use Free to terminate the parcel itself.
func (p *Parcel[V]) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seg.Close()
}

// Capacity returns the live segment's payload capacity in bytes (total
// segment size minus the header), chasing any relocation first so a
// stale handle reports the capacity a Wrap would actually see rather
// than an abandoned segment's.
func (p *Parcel[V]) Capacity() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, err := p.chase()
	if err != nil {
		return 0, err
	}
	if h.state == Freed {
		p.freed = true
		return 0, ErrFreed
	}
	return p.seg.Capacity() - HeaderSize, nil
}

// IsFreed reports whether this handle has observed the parcel as freed.
// It is read-only, lock-free with respect to the cross-process Mutex, and
// best-effort: another process's concurrent Free is only reflected after
// this handle's next header read.
func (p *Parcel[V]) IsFreed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.freed
}

// State reads the header state of this handle's current segment without
// acquiring the Mutex and without following MOVED links, so a stale
// handle reports Moved. Like IsFreed, this is best-effort.
func (p *Parcel[V]) State() (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	raw, err := p.seg.ReadAt(0, HeaderSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIo, err)
	}
	h, err := decodeHeader(raw)
	if err != nil {
		return 0, err
	}
	return h.state, nil
}
