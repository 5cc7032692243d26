// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Object-to-span reverse lookup table.
//
// The teacher's mheap (teacher_src/runtime/mheap.go) keeps a single flat
// "spans **mspan" array covering the whole reserved arena. That assumes one
// contiguous, pre-reserved address range; this package instead grows its
// backing pages on demand via repeated mmap calls (sysalloc_unix.go) that
// are not guaranteed contiguous, so a flat array sized for the address
// space is impractical. Design notes §9 anticipates exactly this: "on
// 64-bit address spaces, a two- or three-level radix is required; the same
// concurrency contract... carries over." This file is that radix, with the
// same contract as spec §4.6: writers hold PageCache.mu, readers
// (mapObjectToSpan) take no lock at all.
package tcmalloc

import "sync/atomic"

const (
	pageMapL2Bits = 15
	pageMapL2Size = 1 << pageMapL2Bits
	pageMapL2Mask = pageMapL2Size - 1

	pageMapL1Bits = 10
	pageMapL1Size = 1 << pageMapL1Bits
)

// pageMapL2 is one leaf of the radix tree: a direct-mapped array of span
// pointers, published through atomic.Pointer so a concurrent reader never
// observes a torn pointer.
type pageMapL2 struct {
	entries [pageMapL2Size]atomic.Pointer[span]
}

// pageMap is the id -> *span reverse lookup table. The zero value is ready
// to use.
type pageMap struct {
	l1 [pageMapL1Size]atomic.Pointer[pageMapL2]
}

func (m *pageMap) split(id pageID) (l1i, l2i uintptr) {
	l1i = (uintptr(id) >> pageMapL2Bits) % pageMapL1Size
	l2i = uintptr(id) & pageMapL2Mask
	return
}

// set records the span owning page id. Must be called with PageCache.mu
// held; see the package-level concurrency contract above.
func (m *pageMap) set(id pageID, s *span) {
	l1i, l2i := m.split(id)
	l2 := m.l1[l1i].Load()
	if l2 == nil {
		l2 = &pageMapL2{}
		m.l1[l1i].Store(l2)
	}
	l2.entries[l2i].Store(s)
}

// get looks up the span owning page id. Safe to call without any lock: it
// only ever observes ids that belong to an in_use span, and the page cache
// never writes a slot belonging to an in_use span (spec §5).
func (m *pageMap) get(id pageID) *span {
	l1i, l2i := m.split(id)
	l2 := m.l1[l1i].Load()
	if l2 == nil {
		return nil
	}
	return l2.entries[l2i].Load()
}
