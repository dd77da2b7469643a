package parcel

import (
	"fmt"

	"github.com/outofband/shmparcel/shmmutex"
	"github.com/outofband/shmparcel/shmseg"
)

// Handle is the serializable identity of a Parcel: the current segment key
// and the Mutex's key. Encode it with the caller's own mechanism (gob,
// json, ...) to hand a parcel to another process.
//
// Deserializing a Handle opens but does not create; an attempt to open a
// Handle whose segment has been freed surfaces as shmseg.ErrNotExist, or as
// ErrCorrupt on first read if the OS has since recycled the key.
type Handle struct {
	SegmentKey shmseg.Key
	MutexKey   shmmutex.Key
}

// Handle returns this parcel's current serializable identity. It is a
// snapshot: if the parcel relocates afterward, a Handle taken before the
// relocation becomes stale and Open will follow the MOVED chain on its
// first Unwrap.
func (p *Parcel[V]) Handle() Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Handle{
		SegmentKey: p.key,
		MutexKey:   p.mutex.Key(),
	}
}

// Open attaches to an existing parcel via its Handle, sharing the same
// underlying segment and Mutex as every other handle to that parcel.
func Open[V any](h Handle, codec Codec[V]) (*Parcel[V], error) {
	seg, err := shmseg.Open(h.SegmentKey)
	if err != nil {
		return nil, fmt.Errorf("parcel: open handle segment: %w", err)
	}
	mtx, err := shmmutex.Open(h.MutexKey)
	if err != nil {
		seg.Close()
		return nil, fmt.Errorf("parcel: open handle mutex: %w", err)
	}
	return &Parcel[V]{
		codec: codec,
		key:   h.SegmentKey,
		seg:   seg,
		mutex: mtx,
	}, nil
}
