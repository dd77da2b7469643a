package parcel

import (
	"fmt"

	"github.com/outofband/shmparcel/shmseg"
)

// wrapLocked implements the write side of Wrap assuming p.mu is already
// held and p.freed has already been checked by the caller. It chases the
// live header the same way Unwrap does before writing anything, so a
// handle that hasn't recently Unwrap'd still fails closed against a
// concurrent Free or relocation instead of stamping a fresh ALLOCATED
// header over a FREED or stale MOVED segment.
func (p *Parcel[V]) wrapLocked(value V) error {
	payload, err := p.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", ErrCorrupt, err)
	}
	length := len(payload)

	cur, err := p.chase()
	if err != nil {
		return err
	}
	if cur.state == Freed {
		p.freed = true
		return ErrFreed
	}
	if cur.state != Allocated {
		return fmt.Errorf("%w: header state %s", ErrCorrupt, cur.state)
	}
	perm := cur.permissions

	if p.seg.Capacity() >= length+HeaderSize {
		return p.writeInPlace(length, perm, payload)
	}
	return p.relocate(length, perm, payload)
}

func (p *Parcel[V]) writeInPlace(length int, perm uint16, payload []byte) error {
	h := header{state: Allocated, sizeOrKey: uint32(length), permissions: perm}
	if err := p.seg.WriteAt(0, h.encode()); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrIo, err)
	}
	if err := p.seg.WriteAt(HeaderSize, payload); err != nil {
		return fmt.Errorf("%w: write payload: %v", ErrIo, err)
	}
	return nil
}

// maxRelocateAttempts bounds the number of candidate keys relocate tries
// before giving up on a run of collisions.
const maxRelocateAttempts = 8

// relocate moves the parcel to a new, larger segment following the
// doubling strategy: the new segment's payload capacity is 2*length. The
// new segment is created and fully populated first; only once it is known
// good is the old segment published as MOVED. This way a failure to
// create the new segment (including a key collision, retried against the
// next candidate key) never leaves a handle or the old segment in a
// broken state.
//
// The old segment's backing file is intentionally left in place as a
// forwarding stub rather than deleted: a Handle serialized before this
// relocation may not be opened by another process until after it, and
// Open only attaches by key without reading the header, so the file has
// to still exist for that late Open to succeed and its first chase to
// follow the MOVED link. Only Free deletes a segment, once chase has
// walked to the terminal one.
func (p *Parcel[V]) relocate(length int, perm uint16, payload []byte) error {
	newCapacity := HeaderSize + 2*length
	h := header{state: Allocated, sizeOrKey: uint32(length), permissions: perm}

	candidate := nextKey(p.key)
	var newSeg *shmseg.Segment
	var newKey shmseg.Key
	for attempt := 0; attempt < maxRelocateAttempts; attempt++ {
		seg, err := shmseg.Create(candidate, permToMode(perm), newCapacity)
		if err == nil {
			newSeg = seg
			newKey = candidate
			break
		}
		if err != shmseg.ErrExists {
			return fmt.Errorf("%w: create relocated segment: %v", ErrIo, err)
		}
		candidate = nextKey(candidate)
	}
	if newSeg == nil {
		return fmt.Errorf("%w: create relocated segment: no free key after %d attempts", ErrIo, maxRelocateAttempts)
	}

	if err := newSeg.WriteAt(0, h.encode()); err != nil {
		newSeg.MarkDeleted()
		newSeg.Close()
		return fmt.Errorf("%w: write relocated header: %v", ErrIo, err)
	}
	if err := newSeg.WriteAt(HeaderSize, payload); err != nil {
		newSeg.MarkDeleted()
		newSeg.Close()
		return fmt.Errorf("%w: write relocated payload: %v", ErrIo, err)
	}

	moved := header{state: Moved, sizeOrKey: uint32(newKey), permissions: 0}
	if err := p.seg.WriteAt(0, moved.encode()); err != nil {
		newSeg.MarkDeleted()
		newSeg.Close()
		return fmt.Errorf("%w: write moved header: %v", ErrIo, err)
	}
	p.seg.Close()

	p.seg = newSeg
	p.key = newKey
	return nil
}

// Wrap serializes value and stores it, relocating to a larger segment if
// it no longer fits. The caller should hold a Guard from Synchronized, or
// otherwise accept the concurrency risks documented for lock-free access.
func (p *Parcel[V]) Wrap(value V) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.freed {
		return ErrFreed
	}
	return p.wrapLocked(value)
}
