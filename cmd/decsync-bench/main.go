// decsync-bench is a throughput smoke-test: it writes a configurable number
// of entries through one Decsync instance, runs a convergence pass through
// a second instance sharing the same directory, and reports elapsed time.
//
// Usage:
//
//	go run ./cmd/decsync-bench --entries 10000
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tjanson/decsync-go/internal/decsync"
	"github.com/tjanson/decsync-go/pkg/jsonvalue"
)

func main() {
	entries := flag.Int("entries", 1000, "number of entries to write and converge")
	dir := flag.String("dir", "", "decsync directory to use (default: a temp dir, removed on exit)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	root := *dir
	if root == "" {
		tmp, err := os.MkdirTemp("", "decsync-bench-*")
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating temp dir: %v\n", err)
			os.Exit(1)
		}

		defer os.RemoveAll(tmp)

		root = tmp
	}

	writer := decsync.New(root, "bench-writer", logger, nil)
	reader := decsync.New(root, "bench-reader", logger, nil)

	start := time.Now()

	for i := 0; i < *entries; i++ {
		key := jsonvalue.Int(int64(i))
		value := jsonvalue.String(fmt.Sprintf("value-%d", i))

		if err := writer.SetEntry([]string{"bench"}, key, value); err != nil {
			fmt.Fprintf(os.Stderr, "writing entry %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	writeElapsed := time.Since(start)

	convergeStart := time.Now()

	if err := reader.ExecuteAllNewEntries(nil); err != nil {
		fmt.Fprintf(os.Stderr, "converging: %v\n", err)
		os.Exit(1)
	}

	convergeElapsed := time.Since(convergeStart)

	fmt.Printf("wrote %d entries in %s (%.0f/s)\n", *entries, writeElapsed, float64(*entries)/writeElapsed.Seconds())
	fmt.Printf("converged in %s (%.0f/s)\n", convergeElapsed, float64(*entries)/convergeElapsed.Seconds())
}
