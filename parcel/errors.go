package parcel

import "errors"

// ErrInit is returned by New when the initial segment or mutex cannot be
// created.
var ErrInit = errors.New("parcel: cannot initialize")

// ErrFreed is returned by any operation on a parcel that has been Freed.
var ErrFreed = errors.New("parcel: parcel is freed")

// ErrCorrupt is returned when a header is unrecognised, a size is invalid,
// or a payload fails to deserialize.
var ErrCorrupt = errors.New("parcel: corrupt state")

// ErrIo wraps an underlying segment read/write/delete failure.
var ErrIo = errors.New("parcel: segment io failure")
