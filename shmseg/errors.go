package shmseg

import "errors"

// ErrExists is returned by Create when a segment already exists at the
// requested key.
var ErrExists = errors.New("shmseg: segment already exists")

// ErrNotExist is returned by Open when no segment exists at the requested
// key.
var ErrNotExist = errors.New("shmseg: segment does not exist")

// ErrOutOfRange is returned by ReadAt/WriteAt when the requested range falls
// outside the segment's capacity.
var ErrOutOfRange = errors.New("shmseg: offset/length out of range")

// ErrUnsupported is returned on platforms without the mmap-backed shared
// memory facility this package relies on.
var ErrUnsupported = errors.New("shmseg: shared memory not supported on this platform")
