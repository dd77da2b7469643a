package parcel

import "fmt"

// Clone produces an independent parcel holding a copy of the current value:
// a fresh segment and a fresh Mutex, sized to the source parcel's current
// capacity. Mutating the clone never affects the original, and vice versa.
func (p *Parcel[V]) Clone() (*Parcel[V], error) {
	v, err := p.Unwrap()
	if err != nil {
		return nil, fmt.Errorf("parcel: clone: %w", err)
	}

	p.mu.Lock()
	h, chaseErr := p.chase()
	capacity := p.seg.Capacity() - HeaderSize
	p.mu.Unlock()
	if chaseErr != nil {
		return nil, chaseErr
	}
	if h.state == Freed {
		p.mu.Lock()
		p.freed = true
		p.mu.Unlock()
		return nil, ErrFreed
	}
	if h.state != Allocated {
		return nil, fmt.Errorf("%w: clone: header state %s", ErrCorrupt, h.state)
	}

	return New(v, p.codec, capacity, permToMode(h.permissions))
}
