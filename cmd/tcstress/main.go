// Command tcstress drives concurrent Alloc/Free traffic against a
// tcmalloc.Allocator, for manual soak testing.
//
// Flag-driven stdlib CLI style grounded in the retrieved
// cmd/api-docs-server/main.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/alecthomas/units"
	kitlog "github.com/go-kit/log"

	tcmalloc "github.com/Kutbas/ConcurrentMemory"
)

func main() {
	workers := flag.Int("workers", 32, "number of concurrent goroutines")
	ops := flag.Int("ops", 1_000_000, "allocations per worker")
	maxSize := flag.String("max-size", "256KiB", "largest object size a worker requests")
	flag.Parse()

	size, err := units.ParseBase2Bytes(*maxSize)
	if err != nil {
		log.Fatalf("invalid -max-size %q: %v", *maxSize, err)
	}

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	a := tcmalloc.New(tcmalloc.Config{Logger: logger})

	start := time.Now()
	err = a.RunWorker(context.Background(), *workers, func(ctx context.Context, tc *tcmalloc.ThreadCache) error {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		for i := 0; i < *ops; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			n := uintptr(1 + rng.Intn(int(size)))
			ptr, err := a.Alloc(tc, n)
			if err != nil {
				return err
			}
			if err := a.Free(tc, ptr, n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("stress run failed: %v", err)
	}

	fmt.Printf("%d workers x %d ops in %s\n", *workers, *ops, time.Since(start))
}
