// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tcmalloc

import "testing"

func newTestCentralCache(t *testing.T) (*centralCache, *pageCache) {
	t.Helper()
	sys := newFakeSysAllocator(4 * numPages)
	pc := newPageCache(sys, newAllocLogger(nil))
	return newCentralCache(pc, newAllocLogger(nil)), pc
}

// chainLen walks the null-terminated chain [start..end] built by fetchRange
// and returns its length.
func chainLen(start, end uintptr) int {
	count := 0
	obj := start
	for {
		count++
		if obj == end {
			return count
		}
		obj = uintptr(*nextObj(obj))
	}
}

func TestCentralCacheFetchRangeAndReleaseAll(t *testing.T) {
	cc, _ := newTestCentralCache(t)
	size := sizeOfClass(sizeClassIndex(8))
	idx := sizeClassIndex(size)

	start, end, actual, err := cc.fetchRange(size, 5)
	if err != nil {
		t.Fatalf("fetchRange: %v", err)
	}
	if actual != 5 {
		t.Fatalf("actual = %d, want 5", actual)
	}
	if got := chainLen(start, end); got != 5 {
		t.Fatalf("chain length = %d, want 5", got)
	}
	if cc.buckets[idx].empty() {
		t.Fatal("bucket empty right after refilling a span")
	}

	cc.releaseList(start, size)

	if !cc.buckets[idx].empty() {
		t.Fatal("bucket not empty after releasing every object the span lent out")
	}
}

func TestCentralCacheReleasePartialKeepsSpan(t *testing.T) {
	cc, _ := newTestCentralCache(t)
	size := sizeOfClass(sizeClassIndex(8))
	idx := sizeClassIndex(size)

	obj1, _, actual1, err := cc.fetchRange(size, 1)
	if err != nil || actual1 != 1 {
		t.Fatalf("fetchRange #1 = (_, _, %d, %v), want (_, _, 1, nil)", actual1, err)
	}
	obj2, _, actual2, err := cc.fetchRange(size, 1)
	if err != nil || actual2 != 1 {
		t.Fatalf("fetchRange #2 = (_, _, %d, %v), want (_, _, 1, nil)", actual2, err)
	}
	if obj1 == obj2 {
		t.Fatal("fetchRange handed out the same object twice")
	}

	cc.releaseList(obj1, size)
	if cc.buckets[idx].empty() {
		t.Fatal("bucket emptied after returning only one of two lent objects")
	}

	cc.releaseList(obj2, size)
	if !cc.buckets[idx].empty() {
		t.Fatal("bucket not empty after returning every lent object")
	}
}

func TestCentralCacheFetchRangeInvalidSize(t *testing.T) {
	cc, _ := newTestCentralCache(t)
	defer func() {
		if recover() == nil {
			t.Fatal("fetchRange with an oversized class did not panic")
		}
	}()
	cc.fetchRange(maxSmallSize+1, 1)
}
