package reporter

import (
	// Custom benchmark flags must be declared in a _test file before use.
	// Example: go test -bench=Reporter -benchmem -benchprocs=4 ./internal/reporter
	"context"
	"flag"
	"runtime"
	"testing"
	"time"

	"dash0.com/printer-status-backend/internal/machine"
	"dash0.com/printer-status-backend/internal/sink"
)

type benchPublisher struct{}

func (benchPublisher) Publish(_ context.Context, _ sink.Report) error { return nil }

var benchProcs = flag.Int("benchprocs", 0, "override GOMAXPROCS for reporter benchmarks (0 = use testing -cpu)")

func newBenchReporter(b *testing.B, maxQueue int) (*Reporter, context.CancelFunc) {
	b.Helper()

	m, err := machine.New(machine.DefaultDescription())
	if err != nil {
		b.Fatal(err)
	}

	r := New(1*time.Hour, 0, m, benchPublisher{}, discardLogger(), maxQueue, 512)
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)

	return r, cancel
}

// Ensure the reporter can keep up with a stream of single updates.
func BenchmarkReporter_Enqueue(b *testing.B) {
	if *benchProcs > 0 {
		runtime.GOMAXPROCS(*benchProcs)
	}

	r, cancel := newBenchReporter(b, 1<<16)

	b.Cleanup(func() { cancel(); r.Stop(context.Background()) })

	u := machine.Update{Op: machine.OpSetPosition, Target: "X", Value: 1}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for !r.Enqueue(u) {
			// spin until accepted to avoid drop influencing the benchmark
		}
	}
}

// Parallel producers enqueueing single updates.
func BenchmarkReporter_Enqueue_Parallel(b *testing.B) {
	if *benchProcs > 0 {
		runtime.GOMAXPROCS(*benchProcs)
	}

	r, cancel := newBenchReporter(b, 1<<16)

	b.Cleanup(func() { cancel(); r.Stop(context.Background()) })

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		u := machine.Update{Op: machine.OpSetPosition, Target: "Y", Value: 2}
		for pb.Next() {
			for !r.Enqueue(u) {
				runtime.Gosched()
			}
		}
	})
}

// Batches of 64 updates, as produced by a busy command stream.
func BenchmarkReporter_EnqueueBatch_64(b *testing.B) {
	if *benchProcs > 0 {
		runtime.GOMAXPROCS(*benchProcs)
	}

	r, cancel := newBenchReporter(b, 1<<12)

	b.Cleanup(func() { cancel(); r.Stop(context.Background()) })

	batch := make([]machine.Update, 64)
	for i := range batch {
		batch[i] = machine.Update{Op: machine.OpSetPosition, Target: "Z", Value: float64(i)}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for !r.EnqueueBatch(batch) {
			// spin until accepted
		}
	}
}
