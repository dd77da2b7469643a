package shmmutex

import "errors"

// ErrExists is returned by New when a semaphore already exists at the
// requested key.
var ErrExists = errors.New("shmmutex: semaphore already exists")

// ErrNotExist is returned by Open when no semaphore exists at the requested
// key.
var ErrNotExist = errors.New("shmmutex: semaphore does not exist")

// ErrUnsupported is returned on platforms without System V semaphore
// support.
var ErrUnsupported = errors.New("shmmutex: cross-process semaphores not supported on this platform")

// ErrAlreadyReleased is returned by a second call to the same Guard's
// Release.
var ErrAlreadyReleased = errors.New("shmmutex: guard already released")
