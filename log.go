// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Ambient structured logging, grounded in the same pack file that grounds
// errors.go and allocator.go's Config byte units:
// other_examples/71081cdd_inbarpatashnik-mimir__pkg-storage-tsdb-config.go.go,
// which threads a github.com/go-kit/log.Logger through its config/validate
// methods.
package tcmalloc

import kitlog "github.com/go-kit/log"

// allocLogger is the narrow logging surface PageCache and Allocator use
// for the handful of interesting, rare events: growing from the OS,
// refusing an oversized merge, and a corrupt free. It is never on the
// Alloc/Free fast path for a cache hit.
type allocLogger struct {
	logger kitlog.Logger
}

func newAllocLogger(l kitlog.Logger) allocLogger {
	if l == nil {
		l = kitlog.NewNopLogger()
	}
	return allocLogger{logger: l}
}

func (l allocLogger) growOS(pages uintptr) {
	l.logger.Log("event", "grow_from_os", "pages", pages, "bytes", pages<<pageShift)
}

func (l allocLogger) mergeRefused(n, neighbour uintptr) {
	l.logger.Log("event", "merge_refused_oversized", "span_pages", n, "neighbour_pages", neighbour, "cap", numPages-1)
}

func (l allocLogger) corruptFree(addr uintptr) {
	l.logger.Log("level", "error", "event", "corrupt_free", "addr", addr)
}
