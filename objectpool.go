// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Fixed-size object allocator, specialized for span records.
//
// See teacher_src/runtime/mfixalloc.go for the allocator this is adapted
// from: bump-allocate from a chunk, recycle freed records through a free
// list, fetch a new chunk (here, from the Go heap rather than sysAlloc, since
// span records are ordinary GC-visible Go values and must stay that way for
// PageCache's id->span map to hold live *span pointers safely).
package tcmalloc

// objectPoolChunkSpans is the number of span records bump-allocated per
// chunk, chosen so a chunk is a convenient handful of pages' worth of
// records without being a separate tunable (spec §4.7 doesn't name one).
const objectPoolChunkSpans = 512

// objectPool is a slab allocator for *span records, guarded entirely by
// PageCache.mu (spec §4.7: "guarded by page_mtx since it is only used from
// page-cache paths"). It never itself takes a lock.
type objectPool struct {
	free  *span // recycled records, threaded through span.next
	chunk []span
}

// new allocates a zero-valued span record, preferring a recycled one.
func (p *objectPool) new() *span {
	if p.free != nil {
		s := p.free
		p.free = s.next
		*s = span{}
		return s
	}
	if len(p.chunk) == 0 {
		p.chunk = make([]span, objectPoolChunkSpans)
	}
	s := &p.chunk[0]
	p.chunk = p.chunk[1:]
	return s
}

// delete recycles s. Callers must have already unlinked s from any spanList.
// Entries in the id->span map that still point at s are not cleared.
func (p *objectPool) delete(s *span) {
	*s = span{next: p.free}
	p.free = s
}
