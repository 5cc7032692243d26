// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tcmalloc

import "sync"

// spanList is a sentinel-headed, circular, doubly-linked list of spans,
// bundled with the bucket's own mutex so each bucket is an independent lock
// (spec §5's "per central-cache bucket: one mutex", "129 SpanLists" in the
// page cache). The sentinel is never returned to callers; its own next/prev
// always point into the live ring.
type spanList struct {
	mu       sync.Mutex
	sentinel span
}

func newSpanList() *spanList {
	l := &spanList{}
	l.sentinel.next = &l.sentinel
	l.sentinel.prev = &l.sentinel
	return l
}

func (l *spanList) empty() bool {
	return l.sentinel.next == &l.sentinel
}

func (l *spanList) begin() *span {
	return l.sentinel.next
}

func (l *spanList) end() *span {
	return &l.sentinel
}

// insert links newSpan immediately before pos.
func (l *spanList) insert(pos, newSpan *span) {
	prev := pos.prev
	prev.next = newSpan
	newSpan.prev = prev
	newSpan.next = pos
	pos.prev = newSpan
}

func (l *spanList) pushFront(s *span) {
	l.insert(l.begin(), s)
}

func (l *spanList) popFront() *span {
	front := l.begin()
	l.erase(front)
	return front
}

// erase unlinks pos from the list. pos must not be the sentinel.
func (l *spanList) erase(pos *span) {
	prev := pos.prev
	next := pos.next
	prev.next = next
	next.prev = prev
	pos.next = nil
	pos.prev = nil
}
