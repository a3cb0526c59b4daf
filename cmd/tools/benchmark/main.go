package main

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/alecthomas/kong"

	"github.com/myuser/nestkv/internal/storage"
)

type CLI struct {
	Backends []string      `default:"snapshot,savepoint" help:"Backends to run against."`
	Duration time.Duration `default:"5s" help:"Test duration per backend."`
	Keys     int           `default:"1000" help:"Size of the key space."`
	MaxDepth int           `default:"8" help:"Deepest transaction nesting to reach."`
	Seed     int64         `default:"1" help:"Workload seed, so runs are comparable."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("benchmark"),
		kong.Description("Run a random nested-transaction workload against each backend."))

	for _, name := range cli.Backends {
		store, err := storage.Open(storage.Options{Backend: name})
		if err != nil {
			log.Fatalf("open %s: %v", name, err)
		}
		fmt.Printf("Starting Benchmark: %s, %v duration, %d keys, depth <= %d\n",
			name, cli.Duration, cli.Keys, cli.MaxDepth)

		ops, failures := run(store, cli)
		if c, ok := store.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Printf("close %s: %v", name, err)
			}
		}

		fmt.Println("Benchmark Finished.")
		fmt.Printf("Total Ops: %d\n", ops)
		fmt.Printf("Failures: %d\n", failures)
		fmt.Printf("Throughput: %.2f ops/sec\n", float64(ops)/cli.Duration.Seconds())
	}
}

// Workload: 40% write, 30% read, 10% delete, 20% transaction control.
func run(store storage.Store, cli CLI) (ops, failures int64) {
	rng := rand.New(rand.NewSource(cli.Seed))
	depth := 0
	deadline := time.Now().Add(cli.Duration)
	for time.Now().Before(deadline) {
		key := fmt.Sprintf("user%d", rng.Intn(cli.Keys))

		var r storage.Result
		switch p := rng.Float32(); {
		case p < 0.4:
			r = store.Write(key, fmt.Sprintf("val%d", rng.Intn(1000)))
		case p < 0.7:
			r = store.Read(key)
			if r.IsFailure() {
				// misses are expected
				r = storage.Success()
			}
		case p < 0.8:
			r = store.Delete(key)
		case p < 0.87 && depth < cli.MaxDepth:
			if r = store.Start(); !r.IsFailure() {
				depth++
			}
		case depth > 0 && p < 0.94:
			if r = store.Commit(); !r.IsFailure() {
				depth--
			}
		case depth > 0:
			if r = store.Abort(); !r.IsFailure() {
				depth--
			}
		default:
			continue
		}
		ops++
		if r.IsFailure() {
			failures++
		}
	}
	return ops, failures
}
