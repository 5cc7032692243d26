// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Size-class-sharded broker between the page cache and thread caches.
//
// Grounded in original_source/src/CentralCache.cpp's GetOneSpan/
// FetchRangeObj/ReleaseListToSpans. Unlike the teacher's GC-era mcentral
// (teacher_src/runtime/mcentral.go, which tracks sweep generations this
// package has no analog for), this central cache is the simpler
// batch-transfer broker spec.md describes: one SpanList per size class,
// each with its own bucket lock, refilling and draining thread caches in
// batches of free objects rather than whole spans.
package tcmalloc

// centralCache is the singleton, size-class-sharded broker. No two bucket
// locks are ever held simultaneously, and the page-cache lock is taken only
// after a bucket lock has been dropped (spec §5's lock ordering).
type centralCache struct {
	buckets [numFreeLists]*spanList
	pc      *pageCache
	log     allocLogger
}

func newCentralCache(pc *pageCache, log allocLogger) *centralCache {
	cc := &centralCache{pc: pc, log: log}
	for i := range cc.buckets {
		cc.buckets[i] = newSpanList()
	}
	return cc
}

// fetchRange fetches up to batch objects of the given rounded size from the
// central cache into a single chain, returning the chain's head, tail, and
// the number actually fetched (always >= 1 on success).
func (cc *centralCache) fetchRange(size uintptr, batch int) (start, end uintptr, actual int, err error) {
	idx := sizeClassIndex(size)
	list := cc.buckets[idx]

	list.mu.Lock()
	defer list.mu.Unlock()

	s, err := cc.getOneSpan(list, size)
	if err != nil {
		return 0, 0, 0, err
	}

	start = s.freeList
	end = start
	actual = 1
	for i := 0; i < batch-1; i++ {
		next := uintptr(*nextObj(end))
		if next == 0 {
			break
		}
		end = next
		actual++
	}

	s.freeList = uintptr(*nextObj(end))
	*nextObj(end) = 0
	s.useCount += actual
	return start, end, actual, nil
}

// getOneSpan returns a span in list with a non-empty free list, refilling
// from the page cache if every span in list is fully lent out. Must be
// called with list.mu held; always returns with list.mu held, even on the
// error path.
func (cc *centralCache) getOneSpan(list *spanList, size uintptr) (*span, error) {
	for it := list.begin(); it != list.end(); it = it.next {
		if it.freeList != 0 {
			return it, nil
		}
	}

	// Nothing to give out: drop the bucket lock before touching the page
	// cache, so concurrent frees into this bucket are never blocked behind
	// a (comparatively slow) OS-backed span allocation (spec §5).
	list.mu.Unlock()

	cc.pc.mu.Lock()
	s, err := cc.pc.newSpan(uintptr(numMovePage(size)))
	if err == nil {
		s.inUse = true
		s.objSize = size
	}
	cc.pc.mu.Unlock()

	if err != nil {
		list.mu.Lock()
		return nil, err
	}

	// No lock held here: s is not yet linked into any bucket, so no other
	// goroutine can reach it yet.
	s.carve(size)

	list.mu.Lock()
	list.pushFront(s)
	return s, nil
}

// releaseList returns the chain of size-byte objects starting at start to
// their owning spans, returning any span whose use count drops to zero back
// to the page cache (with coalescing).
func (cc *centralCache) releaseList(start uintptr, size uintptr) {
	idx := sizeClassIndex(size)
	list := cc.buckets[idx]

	list.mu.Lock()
	locked := true
	defer func() {
		if locked {
			list.mu.Unlock()
		}
	}()

	for start != 0 {
		next := uintptr(*nextObj(start))

		s := cc.pc.mapObjectToSpan(start)
		*nextObj(start) = objLink(s.freeList)
		s.freeList = start
		s.useCount--

		if s.useCount == 0 {
			list.erase(s)
			s.freeList = 0
			list.mu.Unlock()
			locked = false

			cc.pc.mu.Lock()
			cc.pc.releaseSpan(s)
			cc.pc.mu.Unlock()

			list.mu.Lock()
			locked = true
		}

		start = next
	}
}
