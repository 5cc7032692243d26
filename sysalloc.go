// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// OS backing contract (spec §6): SystemAlloc/SystemFree. Out of scope for
// the interesting subsystem per spec §1 ("raw OS page acquisition...
// treated as collaborators"); only the minimal contract matters here. See
// sysalloc_unix.go for the real implementation and sysalloc_other.go for a
// portable fallback.
package tcmalloc

// systemAllocator is the allocator's only escape hatch to the OS. Alloc
// must return a page-aligned region of k*pageSize bytes, read+write; Free
// releases a region previously returned by Alloc for the same k.
type systemAllocator interface {
	Alloc(kPages uintptr) (addr uintptr, err error)
	Free(addr uintptr, kPages uintptr)
}
