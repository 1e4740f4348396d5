package reporter

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"dash0.com/printer-status-backend/internal/machine"
	"dash0.com/printer-status-backend/internal/sink"
	"dash0.com/printer-status-backend/internal/status"
)

// request is one queue entry: a batch of updates or a snapshot read.
// Both share one channel so a read observes every update queued before it.
type request struct {
	updates []machine.Update
	snap    chan<- machine.Snapshot
}

// Reporter applies queued machine updates and periodically publishes a status report.
type Reporter struct {
	in        chan request
	interval  time.Duration
	level     uint32
	machine   *machine.Machine
	publisher sink.Publisher
	logger    *slog.Logger

	nowFn func() time.Time

	// Single-goroutine owned fields
	buf   []byte
	seq   uint64
	dirty bool

	// Drops recorded from producers when the queue is full
	externalDropped atomic.Uint64

	done chan struct{}

	// Optional metric callbacks provided by the owner (e.g., orchestrator).
	incrReports       func(int64)
	incrPublishFailed func(int64)
	incrTruncated     func(int64)
	incrApplied       func(int64)
}

func New(interval time.Duration, level uint32, m *machine.Machine, p sink.Publisher, logger *slog.Logger, maxQueue, bufferSize int) *Reporter {
	if maxQueue < 0 {
		maxQueue = 0
	}

	if bufferSize < 1 {
		bufferSize = 1
	}

	r := &Reporter{
		in:        make(chan request, maxQueue),
		interval:  interval,
		level:     level,
		machine:   m,
		publisher: p,
		logger:    logger,
		buf:       make([]byte, bufferSize),
		dirty:     true,
		done:      make(chan struct{}),
	}
	r.nowFn = time.Now

	return r
}

// SetMetricsCallbacks installs optional callbacks for metrics updates.
// If not provided, metrics are not recorded by the reporter.
func (r *Reporter) SetMetricsCallbacks(incrReports, incrPublishFailed, incrTruncated, incrApplied func(int64)) {
	r.incrReports = incrReports
	r.incrPublishFailed = incrPublishFailed
	r.incrTruncated = incrTruncated
	r.incrApplied = incrApplied
}

// Enqueue attempts to add an update without blocking. Returns false if queue is full.
func (r *Reporter) Enqueue(u machine.Update) bool {
	return r.EnqueueBatch([]machine.Update{u})
}

// EnqueueBatch attempts to add a batch of updates without blocking. Returns false if queue is full.
// The batch is applied in order by the reporter goroutine.
func (r *Reporter) EnqueueBatch(us []machine.Update) bool {
	if len(us) == 0 {
		return true
	}

	select {
	case r.in <- request{updates: us}:
		return true
	default:
		return false
	}
}

// Snapshot returns the machine state after every update queued before the call
// has been applied. Once the loop has exited it reads the machine directly.
func (r *Reporter) Snapshot(ctx context.Context) (machine.Snapshot, error) {
	ch := make(chan machine.Snapshot, 1)

	select {
	case r.in <- request{snap: ch}:
	case <-r.done:
		return r.machine.Snapshot(), nil
	case <-ctx.Done():
		return machine.Snapshot{}, ctx.Err()
	}

	select {
	case snap := <-ch:
		return snap, nil
	case <-r.done:
		return r.machine.Snapshot(), nil
	case <-ctx.Done():
		return machine.Snapshot{}, ctx.Err()
	}
}

// RecordDrop adds to the external drop counter; it is logged with the next report.
func (r *Reporter) RecordDrop(n uint64) { r.externalDropped.Add(n) }

// Start begins the reporting loop.
func (r *Reporter) Start(ctx context.Context) {
	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.report()
				return
			case req := <-r.in:
				for _, u := range req.updates {
					r.apply(u)
				}

				if req.snap != nil {
					req.snap <- r.machine.Snapshot()
				}
			case <-ticker.C:
				r.report()
			}
		}
	}()
}

// Stop waits for the loop to finish; the caller cancels the context passed to Start.
func (r *Reporter) Stop(ctx context.Context) {
	select {
	case <-r.done:
		return
	case <-ctx.Done():
		return
	}
}

func (r *Reporter) apply(u machine.Update) {
	if err := r.machine.Apply(u); err != nil {
		r.logger.Warn("dropping machine update", slog.String("err", err.Error()), slog.String("target", u.Target))
		return
	}

	r.dirty = true

	if r.incrApplied != nil {
		r.incrApplied(1)
	}
}

func (r *Reporter) report() {
	dropped := r.externalDropped.Swap(0)
	if !r.dirty {
		if dropped > 0 {
			r.logger.Warn("updates dropped since last report", slog.Uint64("dropped", dropped))
		}

		return
	}

	snap := r.machine.Snapshot()

	n, truncated, err := status.EncodeBuffer(r.buf, snap, r.level)
	if err != nil {
		r.logger.Error("failed to encode report", slog.String("err", err.Error()))
		return
	}

	if truncated {
		// A cut document is not valid JSON; do not hand it on.
		r.logger.Error(
			"status report does not fit the report buffer",
			slog.Int("buffer_size", len(r.buf)),
			slog.Int("written", n),
			slog.Uint64("level", uint64(r.level)),
		)

		if r.incrTruncated != nil {
			r.incrTruncated(1)
		}

		r.dirty = false

		return
	}

	r.seq++
	body := make([]byte, n)
	copy(body, r.buf[:n])

	rep := sink.Report{
		Seq:   r.seq,
		At:    r.nowFn().UnixMilli(),
		Level: r.level,
		Body:  body,
	}

	if err := r.publisher.Publish(context.Background(), rep); err != nil {
		r.logger.Error(
			"failed to publish report",
			slog.String("err", err.Error()),
			slog.Uint64("seq", rep.Seq),
			slog.Uint64("dropped", dropped),
			slog.String("publisher", fmt.Sprintf("%T", r.publisher)),
		)

		if r.incrPublishFailed != nil {
			r.incrPublishFailed(1)
		}
		// Stay dirty so the next tick retries with fresh state.
		return
	}

	if dropped > 0 {
		r.logger.Warn("updates dropped before report", slog.Uint64("seq", rep.Seq), slog.Uint64("dropped", dropped))
	}

	if r.incrReports != nil {
		r.incrReports(1)
	}

	r.dirty = false
}

// QueueLen returns the current queue length; can be observed for metrics.
func (r *Reporter) QueueLen() int { return len(r.in) }
