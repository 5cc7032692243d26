// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Global page-level allocator.
//
// See doc.go for overview. Grounded in original_source/src/PageCache.cpp's
// NewSpan/ReleaseSpanToPageCache and the teacher's mheap span-split/merge
// machinery (teacher_src/runtime/mheap.go).
package tcmalloc

import "sync"

// pageCache is the single process-wide page-level allocator: it splits and
// merges spans, and owns both the span object pool and the id->span map.
// Guarded by one coarse mutex; see spec §5's lock inventory.
type pageCache struct {
	mu      sync.Mutex
	buckets [numPages]*spanList // indexed by page count, [1, numPages-1]
	pool    objectPool
	idSpan  pageMap

	sys systemAllocator
	log allocLogger
}

func newPageCache(sys systemAllocator, log allocLogger) *pageCache {
	pc := &pageCache{sys: sys, log: log}
	for i := range pc.buckets {
		pc.buckets[i] = newSpanList()
	}
	return pc
}

// newSpan returns a span of exactly k pages, splitting a larger idle span
// or growing from the OS as needed. Must be called with mu held.
func (pc *pageCache) newSpan(k uintptr) (*span, error) {
	if k == 0 {
		panic("tcmalloc: newSpan(0)")
	}

	if k > numPages-1 {
		ptr, err := pc.sys.Alloc(k)
		if err != nil {
			return nil, err
		}
		pc.log.growOS(k)
		s := pc.pool.new()
		s.pageID = pageID(ptr >> pageShift)
		s.n = k
		pc.idSpan.set(s.pageID, s)
		return s, nil
	}

	if !pc.buckets[k].empty() {
		kSpan := pc.buckets[k].popFront()
		for i := uintptr(0); i < kSpan.n; i++ {
			pc.idSpan.set(kSpan.pageID+pageID(i), kSpan)
		}
		return kSpan, nil
	}

	for i := k + 1; i < numPages; i++ {
		if pc.buckets[i].empty() {
			continue
		}
		nSpan := pc.buckets[i].popFront()
		kSpan := pc.pool.new()
		kSpan.pageID = nSpan.pageID
		kSpan.n = k

		nSpan.pageID += pageID(k)
		nSpan.n -= k

		pc.buckets[nSpan.n].pushFront(nSpan)
		pc.idSpan.set(nSpan.pageID, nSpan)
		pc.idSpan.set(nSpan.pageID+pageID(nSpan.n)-1, nSpan)

		for j := uintptr(0); j < kSpan.n; j++ {
			pc.idSpan.set(kSpan.pageID+pageID(j), kSpan)
		}
		return kSpan, nil
	}

	// No bucket above k has anything left: grow from the OS by a maximal
	// span and recurse, which is now guaranteed to succeed: through the
	// exact-bucket path when k == numPages-1, through the split path
	// otherwise.
	ptr, err := pc.sys.Alloc(numPages - 1)
	if err != nil {
		return nil, err
	}
	pc.log.growOS(numPages - 1)
	bigSpan := pc.pool.new()
	bigSpan.pageID = pageID(ptr >> pageShift)
	bigSpan.n = numPages - 1
	pc.buckets[bigSpan.n].pushFront(bigSpan)
	return pc.newSpan(k)
}

// mapObjectToSpan resolves the span owning the page containing addr. No
// lock is required (spec §5's reverse-lookup concurrency argument); it is
// always called from under a CentralCache bucket lock, never page_mtx.
func (pc *pageCache) mapObjectToSpan(addr uintptr) *span {
	id := pageID(addr >> pageShift)
	s := pc.idSpan.get(id)
	if s == nil {
		pc.log.corruptFree(addr)
		panic(errCorruptFree(addr))
	}
	return s
}

// releaseSpan returns an idle span to the page cache, coalescing with
// adjacent idle neighbours wherever the id->span map and the size cap
// allow. Must be called with mu held and span.inUse == true from the
// caller's perspective (the caller is relinquishing ownership).
func (pc *pageCache) releaseSpan(s *span) {
	if s.n > numPages-1 {
		pc.sys.Free(s.startAddr(), s.n)
		pc.pool.delete(s)
		return
	}

	for {
		prev := pc.idSpan.get(s.pageID - 1)
		if prev == nil || prev.inUse {
			break
		}
		if prev.n+s.n > numPages-1 {
			pc.log.mergeRefused(s.n, prev.n)
			break
		}
		s.pageID = prev.pageID
		s.n += prev.n
		pc.buckets[prev.n].erase(prev)
		pc.pool.delete(prev)
	}

	for {
		next := pc.idSpan.get(s.pageID + pageID(s.n))
		if next == nil || next.inUse {
			break
		}
		if next.n+s.n > numPages-1 {
			pc.log.mergeRefused(s.n, next.n)
			break
		}
		s.n += next.n
		pc.buckets[next.n].erase(next)
		pc.pool.delete(next)
	}

	pc.buckets[s.n].pushFront(s)
	s.inUse = false
	s.freeList = 0
	s.objSize = 0
	pc.idSpan.set(s.pageID, s)
	pc.idSpan.set(s.pageID+pageID(s.n)-1, s)
}
