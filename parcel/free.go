package parcel

import "fmt"

// Free permanently releases the parcel: it chases any relocation to find
// the live segment, writes a FREED header there so other holders observe
// it on their next Unwrap, marks that segment deleted, and frees the
// underlying Mutex. Free is idempotent; calling it more than once is a
// no-op.
//
// Freeing while another holder is inside Synchronized is a usage error:
// the OS keeps the segment alive until last detach, but the handle
// invariants may be violated for that concurrent holder.
func (p *Parcel[V]) Free() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.freed {
		return nil
	}

	cur, err := p.chase()
	if err != nil {
		return err
	}
	if cur.state == Freed {
		p.freed = true
		return nil
	}

	h := header{state: Freed, sizeOrKey: 0, permissions: 0}
	if err := p.seg.WriteAt(0, h.encode()); err != nil {
		return fmt.Errorf("%w: write freed header: %v", ErrIo, err)
	}
	if err := p.seg.MarkDeleted(); err != nil {
		return fmt.Errorf("%w: mark segment deleted: %v", ErrIo, err)
	}
	if err := p.seg.Close(); err != nil {
		return fmt.Errorf("%w: close segment: %v", ErrIo, err)
	}
	if err := p.mutex.Free(); err != nil {
		return fmt.Errorf("%w: free mutex: %v", ErrIo, err)
	}
	p.freed = true
	return nil
}
