// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tcmalloc

// pageID identifies a page by its page-aligned address shifted down by
// pageShift, mirroring the teacher's pageID (teacher_src/runtime/mheap.go).
type pageID uintptr

// span describes a contiguous run of pages. It is either:
//   - idle, sitting in PageCache.buckets[n] with inUse == false, or
//   - in_use, owned by exactly one CentralCache bucket, lending carved
//     objects of size objSize out to thread caches.
//
// span is never shared-owned: the SpanList links are non-owning, and the
// id->span map is a pure lookup table. Span records live in a dedicated
// ObjectPool and are recycled on coalescing, per design notes §9.
type span struct {
	pageID pageID // first page of the run
	n      uintptr

	// SpanList links. Doubly-linked, circular, sentinel-headed; see
	// spanlist.go. A span not currently in any list has next == prev == nil.
	next, prev *span

	freeList uintptr // head of carved free objects, or 0 if none/unsplit
	useCount int     // objects currently lent out (not in freeList)
	objSize  uintptr // size class this span was carved for, 0 if unsplit
	inUse    bool    // true while owned by the central cache
}

func (s *span) startAddr() uintptr {
	return uintptr(s.pageID) << pageShift
}

func (s *span) endAddr() uintptr {
	return (uintptr(s.pageID) + s.n) << pageShift
}

// carve slices the span's backing pages into a freeList of objSize-byte
// objects, following CentralCache.getOneSpan's layout exactly: the free
// list is built once, with no lock held, because the span is not yet
// reachable by any other goroutine at carve time.
func (s *span) carve(objSize uintptr) {
	s.objSize = objSize
	start := s.startAddr()
	end := s.endAddr()

	s.freeList = start
	tail := start
	for next := start + objSize; next+objSize <= end; next += objSize {
		*nextObj(tail) = objLink(next)
		tail = next
	}
	*nextObj(tail) = 0
}
