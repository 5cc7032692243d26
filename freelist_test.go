// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tcmalloc

import (
	"testing"
	"unsafe"
)

// testObjects returns n addresses, each pointerSize bytes apart, backed by
// a single live buffer, suitable for use as free-list objects in tests.
func testObjects(t *testing.T, n int) []uintptr {
	t.Helper()
	const stride = unsafe.Sizeof(uintptr(0))
	buf := make([]byte, uintptr(n)*stride)
	base := uintptr(unsafe.Pointer(&buf[0]))
	objs := make([]uintptr, n)
	for i := range objs {
		objs[i] = base + uintptr(i)*stride
	}
	t.Cleanup(func() { _ = buf })
	return objs
}

func TestFreeListPushPop(t *testing.T) {
	objs := testObjects(t, 3)
	l := newFreeList()
	if !l.empty() {
		t.Fatal("new free list not empty")
	}
	l.push(objs[0])
	l.push(objs[1])
	l.push(objs[2])
	if l.size != 3 {
		t.Fatalf("size = %d, want 3", l.size)
	}

	// LIFO order.
	if got := l.pop(); got != objs[2] {
		t.Fatalf("pop = %#x, want %#x", got, objs[2])
	}
	if got := l.pop(); got != objs[1] {
		t.Fatalf("pop = %#x, want %#x", got, objs[1])
	}
	if got := l.pop(); got != objs[0] {
		t.Fatalf("pop = %#x, want %#x", got, objs[0])
	}
	if !l.empty() {
		t.Fatal("list not empty after draining")
	}
}

func TestFreeListPopEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("pop of empty list did not panic")
		}
	}()
	l := newFreeList()
	l.pop()
}

func TestFreeListPushPopRange(t *testing.T) {
	objs := testObjects(t, 4)
	l := newFreeList()
	l.push(objs[0])

	// pushRange splices in a pre-chained run: objs[1] -> objs[2] -> objs[3] -> 0.
	*nextObj(objs[1]) = objLink(objs[2])
	*nextObj(objs[2]) = objLink(objs[3])
	*nextObj(objs[3]) = 0
	l.pushRange(objs[1], objs[3], 3)

	if l.size != 4 {
		t.Fatalf("size = %d, want 4", l.size)
	}

	start, end, actual := l.popRange(4)
	if actual != 4 {
		t.Fatalf("popRange actual = %d, want 4", actual)
	}
	if start != objs[1] || end != objs[0] {
		t.Fatalf("popRange start/end = %#x/%#x, want %#x/%#x", start, end, objs[1], objs[0])
	}
	if !l.empty() {
		t.Fatal("list not empty after popRange(4)")
	}
}

// TestFreeListPopRangeClampsNeverAsserts exercises the documented resolution
// of the open question: asking for more than is present returns however
// many are actually available instead of panicking.
func TestFreeListPopRangeClampsNeverAsserts(t *testing.T) {
	objs := testObjects(t, 2)
	l := newFreeList()
	l.push(objs[0])
	l.push(objs[1])

	start, end, actual := l.popRange(100)
	if actual != 2 {
		t.Fatalf("popRange(100) actual = %d, want 2", actual)
	}
	if start != objs[1] || end != objs[0] {
		t.Fatalf("popRange(100) start/end = %#x/%#x, want %#x/%#x", start, end, objs[1], objs[0])
	}
	if !l.empty() {
		t.Fatal("list not empty after over-requested popRange")
	}

	if start, _, actual := l.popRange(5); actual != 0 || start != 0 {
		t.Fatalf("popRange on empty list = (%#x, _, %d), want (0, _, 0)", start, actual)
	}
}
