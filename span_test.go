// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tcmalloc

import (
	"testing"
	"unsafe"
)

func TestSpanCarveExactCount(t *testing.T) {
	const pages = 2
	buf := make([]byte, (pages+1)*pageSize)
	base := uintptr(unsafe.Pointer(&buf[0]))
	aligned := (base + pageSize - 1) &^ (pageSize - 1)

	s := &span{pageID: pageID(aligned >> pageShift), n: pages}
	s.carve(8)

	count := 0
	for obj := s.freeList; obj != 0; obj = uintptr(*nextObj(obj)) {
		count++
	}
	// 2 pages * 8192 bytes / 8 bytes per object == 2048 objects.
	if count != 2048 {
		t.Fatalf("carve produced %d objects, want 2048", count)
	}
	if s.objSize != 8 {
		t.Fatalf("objSize = %d, want 8", s.objSize)
	}
	t.Cleanup(func() { _ = buf })
}

func TestSpanListPushPopFront(t *testing.T) {
	l := newSpanList()
	if !l.empty() {
		t.Fatal("new span list not empty")
	}

	a := &span{n: 1}
	b := &span{n: 2}
	l.pushFront(a)
	l.pushFront(b)

	if l.empty() {
		t.Fatal("list empty after pushes")
	}
	if got := l.popFront(); got != b {
		t.Fatalf("popFront = %p, want %p (b)", got, b)
	}
	if got := l.popFront(); got != a {
		t.Fatalf("popFront = %p, want %p (a)", got, a)
	}
	if !l.empty() {
		t.Fatal("list not empty after draining")
	}
}

func TestSpanListErase(t *testing.T) {
	l := newSpanList()
	a := &span{n: 1}
	b := &span{n: 2}
	c := &span{n: 3}
	l.pushFront(a)
	l.pushFront(b)
	l.pushFront(c) // order: c, b, a

	l.erase(b)

	var got []*span
	for it := l.begin(); it != l.end(); it = it.next {
		got = append(got, it)
	}
	if len(got) != 2 || got[0] != c || got[1] != a {
		t.Fatalf("list after erase(b) = %v, want [c a]", got)
	}
}
