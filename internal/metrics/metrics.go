// Package metrics keeps process-wide operation counters. Counters are
// observability only; no store behaviour depends on them.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
)

// Global Registry using sync.Map for specific thread-safety on retrieval
// Keys are strings, Values are *int64
var registry sync.Map

// Inc increments a counter by 1.
func Inc(name string) {
	Add(name, 1)
}

// Add adds delta to a counter.
func Add(name string, delta int64) {
	val, ok := registry.Load(name)
	if !ok {
		newVal := new(int64)
		val, _ = registry.LoadOrStore(name, newVal)
	}
	atomic.AddInt64(val.(*int64), delta)
}

// Get returns the current value of a counter.
func Get(name string) int64 {
	val, ok := registry.Load(name)
	if !ok {
		return 0
	}
	return atomic.LoadInt64(val.(*int64))
}

// Snapshot copies every counter.
func Snapshot() map[string]int64 {
	snapshot := make(map[string]int64)
	registry.Range(func(key, value any) bool {
		snapshot[key.(string)] = atomic.LoadInt64(value.(*int64))
		return true
	})
	return snapshot
}

// Reset drops every counter.
func Reset() {
	registry.Range(func(key, _ any) bool {
		registry.Delete(key)
		return true
	})
}

// WriteTo prints the counters sorted by name, one per line.
func WriteTo(w io.Writer) error {
	snapshot := Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s %d\n", name, snapshot[name]); err != nil {
			return err
		}
	}
	return nil
}
