package orchestrator

//go:generate mockgen -source=orchestrator.go -destination=./mocks/mock_orchestrator.go -package=mocks

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	cfgpkg "dash0.com/printer-status-backend/internal/config"
	"dash0.com/printer-status-backend/internal/machine"
	"dash0.com/printer-status-backend/internal/reporter"
	"dash0.com/printer-status-backend/internal/sink"
	"dash0.com/printer-status-backend/internal/status"
)

const instrumentationName = "dash0.com/printer-status-backend"

type Orchestrator interface {
	Status(ctx context.Context, ch sink.ReplyChannel, level uint32) error
	HasAxis(name string) bool
	LinearAxes() []string
	EnqueueUpdates(us []machine.Update) bool
	RecordDrop(n uint64)
	IncrMetric(ctx context.Context, mt MetricType, n int64)
}

// orchestratorSvc holds all instance-scoped dependencies and metrics.
type orchestratorSvc struct {
	Cfg    cfgpkg.Config
	Logger *slog.Logger
	Tracer oteltrace.Tracer
	Meter  otelmetric.Meter

	// Metrics
	CommandsReceived otelmetric.Int64Counter
	StatusReplies    otelmetric.Int64Counter
	UpdatesApplied   otelmetric.Int64Counter
	UpdatesDropped   otelmetric.Int64Counter
	Reports          otelmetric.Int64Counter
	PublishFailed    otelmetric.Int64Counter
	ReportsTruncated otelmetric.Int64Counter
	ReplyBytes       otelmetric.Int64Counter

	Machine  *machine.Machine
	Reporter *reporter.Reporter

	status    *status.Handler
	publisher sink.Publisher
	linear    []string

	running   atomic.Bool
	repCancel context.CancelFunc
}

// Option customizes New.
type Option func(*orchestratorSvc) error

// WithPublisher overrides the default stdout publisher for periodic reports (useful for tests).
func WithPublisher(p sink.Publisher) Option {
	return func(svc *orchestratorSvc) error { svc.publisher = p; return nil }
}

// WithMachine uses m instead of building one from the configured description.
func WithMachine(m *machine.Machine) Option {
	return func(svc *orchestratorSvc) error { svc.Machine = m; return nil }
}

// New constructs the service with instance-level instruments.
func New(cfg cfgpkg.Config, logger *slog.Logger, opts ...Option) (*orchestratorSvc, error) {
	s := &orchestratorSvc{
		Cfg:    cfg,
		Logger: logger,
		Tracer: otel.Tracer(instrumentationName),
		Meter:  otel.Meter(instrumentationName),
		status: status.NewHandler(logger),
	}

	counter := func(name, desc, unit string) (otelmetric.Int64Counter, error) {
		return s.Meter.Int64Counter(name, otelmetric.WithDescription(desc), otelmetric.WithUnit(unit))
	}

	var err error
	if s.CommandsReceived, err = counter("printer.commands.received", "The number of commands received", "{command}"); err != nil {
		return nil, err
	}

	if s.StatusReplies, err = counter("printer.status.replies", "The number of status documents sent as command replies", "{reply}"); err != nil {
		return nil, err
	}

	if s.UpdatesApplied, err = counter("printer.updates.applied", "The number of machine updates applied", "{update}"); err != nil {
		return nil, err
	}

	if s.UpdatesDropped, err = counter("printer.updates.dropped", "The number of machine updates dropped on a full queue", "{update}"); err != nil {
		return nil, err
	}

	if s.Reports, err = counter("printer.reports", "Number of periodic status reports published", "{report}"); err != nil {
		return nil, err
	}

	if s.PublishFailed, err = counter("printer.publish.failed", "Number of failed report publishes", "{failure}"); err != nil {
		return nil, err
	}

	if s.ReportsTruncated, err = counter("printer.reports.truncated", "Number of reports that did not fit the report buffer", "{report}"); err != nil {
		return nil, err
	}

	if s.ReplyBytes, err = counter("printer.reply.bytes", "Bytes written to command replies", "By"); err != nil {
		return nil, err
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.Machine == nil {
		if s.Machine, err = loadMachine(cfg.MachineConfig); err != nil {
			return nil, err
		}
	}

	// Default publisher to stdout lines if not set
	if s.publisher == nil {
		s.publisher = sink.NewStdoutLines()
	}

	for _, a := range s.Machine.Snapshot().Linear() {
		s.linear = append(s.linear, a.Name)
	}

	s.Reporter = reporter.New(cfg.ReportInterval, uint32(cfg.ReportLevel), s.Machine, s.publisher, logger, cfg.MaxQueue, cfg.ReportBufferSize)
	// Wire reporter metric callbacks
	s.Reporter.SetMetricsCallbacks(
		func(n int64) { s.IncrMetric(context.Background(), MetricReports, n) },
		func(n int64) { s.IncrMetric(context.Background(), MetricPublishFailed, n) },
		func(n int64) { s.IncrMetric(context.Background(), MetricReportsTruncated, n) },
		func(n int64) { s.IncrMetric(context.Background(), MetricUpdatesApplied, n) },
	)

	return s, nil
}

func loadMachine(path string) (*machine.Machine, error) {
	desc := machine.DefaultDescription()

	if path != "" {
		var err error
		if desc, err = machine.LoadDescriptionFile(path); err != nil {
			return nil, err
		}
	}

	return machine.New(desc)
}

// Close stops the reporter and waits for its final report.
func (s *orchestratorSvc) Close(ctx context.Context) error {
	ctx, span := s.Tracer.Start(ctx, "orchestrator.Close")
	defer span.End()

	s.Logger.DebugContext(ctx, "orchestrator.Close: begin")

	if s.repCancel != nil {
		s.repCancel()

		if s.Reporter != nil {
			s.Reporter.Stop(ctx)
		}

		s.repCancel = nil
		s.running.Store(false)
	}

	s.Logger.DebugContext(ctx, "orchestrator.Close: end")

	return nil
}

// Start starts the service's internal components (the reporter).
// It is safe to call more than once; subsequent calls are no-ops until Close.
func (s *orchestratorSvc) Start(ctx context.Context) {
	if s.Reporter == nil || s.repCancel != nil {
		return
	}

	ctx, span := s.Tracer.Start(ctx, "orchestrator.Start")
	defer span.End()

	s.Logger.DebugContext(ctx, "orchestrator.Start: begin")
	repCtx, cancel := context.WithCancel(ctx)
	s.repCancel = cancel
	s.Reporter.Start(repCtx)
	s.running.Store(true)
	s.Logger.DebugContext(ctx, "orchestrator.Start: started reporter", slog.Int("queue_len", s.Reporter.QueueLen()))
}

// Status replies with the current status document at the given level.
func (s *orchestratorSvc) Status(ctx context.Context, ch sink.ReplyChannel, level uint32) error {
	ctx, span := s.Tracer.Start(ctx, "orchestrator.Status")
	defer span.End()

	span.SetAttributes(attribute.Int64("status.level", int64(level)))

	snap := s.Machine.Snapshot()
	if s.running.Load() {
		var err error
		if snap, err = s.Reporter.Snapshot(ctx); err != nil {
			span.RecordError(err)
			return err
		}
	}

	if err := s.status.Reply(ctx, ch, snap, level); err != nil {
		span.RecordError(err)
		return err
	}

	s.IncrMetric(ctx, MetricStatusReplies, 1)

	return nil
}

// HasAxis reports whether name is a configured axis.
func (s *orchestratorSvc) HasAxis(name string) bool { return s.Machine.HasAxis(name) }

// LinearAxes returns the names of the non-extruder axes in configured order.
func (s *orchestratorSvc) LinearAxes() []string { return s.linear }

// EnqueueUpdates forwards a batch of updates to the reporter.
func (s *orchestratorSvc) EnqueueUpdates(us []machine.Update) bool {
	if s.Reporter == nil {
		return false
	}
	// Use a background context for logging/tracing as this method has no ctx param
	ctx, span := s.Tracer.Start(context.Background(), "orchestrator.EnqueueUpdates")
	defer span.End()

	span.SetAttributes(attribute.Int("batch.size", len(us)))
	s.Logger.DebugContext(ctx, "orchestrator.EnqueueUpdates: begin", slog.Int("batch_size", len(us)))
	ok := s.Reporter.EnqueueBatch(us)
	s.Logger.DebugContext(ctx, "orchestrator.EnqueueUpdates: end", slog.Bool("enqueued", ok), slog.Int("queue_len", s.Reporter.QueueLen()))

	return ok
}

// RecordDrop forwards a drop count to the reporter and the drop counter.
func (s *orchestratorSvc) RecordDrop(n uint64) {
	ctx, span := s.Tracer.Start(context.Background(), "orchestrator.RecordDrop")
	defer span.End()

	span.SetAttributes(attribute.Int64("dropped", int64(n)))

	if s.Reporter != nil {
		s.Reporter.RecordDrop(n)
	}

	s.IncrMetric(ctx, MetricUpdatesDropped, int64(n))
}

// MetricType enumerates orchestrator metric counters.
type MetricType int

const (
	MetricCommandsReceived MetricType = iota
	MetricStatusReplies
	MetricUpdatesApplied
	MetricUpdatesDropped
	MetricReports
	MetricPublishFailed
	MetricReportsTruncated
	MetricReplyBytes
)

// IncrMetric increments the selected metric by n (if n > 0).
func (s *orchestratorSvc) IncrMetric(ctx context.Context, mt MetricType, n int64) {
	if n <= 0 {
		return
	}

	switch mt {
	case MetricCommandsReceived:
		s.CommandsReceived.Add(ctx, n)
	case MetricStatusReplies:
		s.StatusReplies.Add(ctx, n)
	case MetricUpdatesApplied:
		s.UpdatesApplied.Add(ctx, n)
	case MetricUpdatesDropped:
		s.UpdatesDropped.Add(ctx, n)
	case MetricReports:
		s.Reports.Add(ctx, n)
	case MetricPublishFailed:
		s.PublishFailed.Add(ctx, n)
	case MetricReportsTruncated:
		s.ReportsTruncated.Add(ctx, n)
	case MetricReplyBytes:
		s.ReplyBytes.Add(ctx, n)
	}
}
