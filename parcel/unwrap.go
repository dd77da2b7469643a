package parcel

import (
	"fmt"

	"github.com/outofband/shmparcel/shmseg"
)

// maxChaseSteps bounds the relocation-chase loop so a corrupted chain
// (e.g. a MOVED cycle) fails loudly instead of looping forever.
const maxChaseSteps = 10000

// chase follows MOVED links starting from the handle's current segment,
// closing each stale segment as it advances, and returns the first
// non-MOVED header it reads (normally Allocated or Freed). p.seg and
// p.key are updated to reflect the terminal segment.
func (p *Parcel[V]) chase() (header, error) {
	for i := 0; i < maxChaseSteps; i++ {
		raw, err := p.seg.ReadAt(0, HeaderSize)
		if err != nil {
			return header{}, fmt.Errorf("%w: read header: %v", ErrIo, err)
		}
		h, err := decodeHeader(raw)
		if err != nil {
			return header{}, err
		}
		if h.state != Moved {
			return h, nil
		}

		nextKey := shmseg.Key(h.sizeOrKey)
		nextSeg, err := shmseg.Open(nextKey)
		if err != nil {
			return header{}, fmt.Errorf("%w: open relocated segment: %v", ErrIo, err)
		}
		p.seg.Close()
		p.seg = nextSeg
		p.key = nextKey
	}
	return header{}, fmt.Errorf("%w: relocation chain exceeded %d steps", ErrCorrupt, maxChaseSteps)
}

// Unwrap reads and deserializes the currently-stored value. The caller
// should hold a Guard from Synchronized, or otherwise accept the risk of
// a torn read racing a concurrent relocation.
func (p *Parcel[V]) Unwrap() (V, error) {
	var zero V
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.freed {
		return zero, ErrFreed
	}

	h, err := p.chase()
	if err != nil {
		return zero, err
	}
	if h.state == Freed {
		p.freed = true
		return zero, ErrFreed
	}
	if h.state != Allocated {
		return zero, fmt.Errorf("%w: header state %s", ErrCorrupt, h.state)
	}

	payload, err := p.seg.ReadAt(HeaderSize, int(h.sizeOrKey))
	if err != nil {
		return zero, fmt.Errorf("%w: read payload: %v", ErrIo, err)
	}
	v, err := p.codec.Decode(payload)
	if err != nil {
		return zero, fmt.Errorf("%w: decode payload: %v", ErrCorrupt, err)
	}
	return v, nil
}
