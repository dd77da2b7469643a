//go:build !unix

package shmseg

// No init() here: createBacking/openBacking/unmapBacking stay nil, so
// Create/Open return ErrUnsupported on platforms without this support.
