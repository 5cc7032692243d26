// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tcmalloc implements a high-concurrency thread-caching allocator
// for small-to-medium objects (<= 256 KiB), modeled after the classic
// three-tier design: a per-goroutine ThreadCache, a size-class-sharded
// CentralCache, and a single global PageCache that talks to the OS.
//
// See Allocator and ThreadCache for the public surface, the unexported
// centralCache and pageCache types for how an allocation flows through the
// tiers, and sizeclass.go for the byte-size rounding rules.
package tcmalloc
