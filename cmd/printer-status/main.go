package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/c2h5oh/datasize"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cfgpkg "dash0.com/printer-status-backend/internal/config"
	"dash0.com/printer-status-backend/internal/orchestrator"
	otelsetup "dash0.com/printer-status-backend/internal/otel"
	"dash0.com/printer-status-backend/internal/server"
	"dash0.com/printer-status-backend/internal/sink"
)

const name = "dash0.com/printer-status-backend"

func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() (err error) {
	readFlags := cfgpkg.RegisterFlags()

	flag.Parse()

	cfg := readFlags()
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}

	// Instance logger bridged to OTel.
	logger := slog.New(newLevelHandler(level, otelslog.NewLogger(name).Handler()))
	slog.SetDefault(logger)
	logger.Info("Starting application",
		slog.String("listenAddr", cfg.ListenAddr),
		slog.String("reportBuffer", datasize.ByteSize(cfg.ReportBufferSize).HumanReadable()),
	)

	otelShutdown, err := otelsetup.Setup(context.Background())
	if err != nil {
		return
	}

	defer func() { err = errors.Join(err, otelShutdown(context.Background())) }()

	var opts []orchestrator.Option

	if cfg.OutputFile != "" {
		f, openErr := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if openErr != nil {
			return openErr
		}

		defer func() { err = errors.Join(err, f.Close()) }()

		opts = append(opts, orchestrator.WithPublisher(sink.NewLinePublisher(f)))
	}

	orchestratorSvc, err := orchestrator.New(cfg, logger, opts...)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return err
	}

	// Derive a context canceled on SIGINT/SIGTERM for graceful shutdown
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestratorSvc.Start(sigCtx)

	grpcServer, healthSrv := newHealthServer()

	if cfg.HealthAddr != "" {
		healthLis, lisErr := net.Listen("tcp", cfg.HealthAddr)
		if lisErr != nil {
			_ = listener.Close()
			return lisErr
		}

		go func() {
			if err := grpcServer.Serve(healthLis); err != nil {
				slog.Error("health server stopped", slog.String("err", err.Error()))
			}
		}()
	}

	cmdCtx, cancelCmd := context.WithCancel(context.Background())
	defer cancelCmd()

	serveErr := make(chan error, 1)

	go func() { serveErr <- server.New(orchestratorSvc, logger).Serve(cmdCtx, listener) }()

	slog.Debug("Serving commands")

	select {
	case err := <-serveErr:
		grpcServer.Stop()
		return errors.Join(err, orchestratorSvc.Close(context.Background()))
	case <-sigCtx.Done():
	}

	slog.Info("Shutdown signal received; beginning graceful shutdown")
	healthSrv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulTimeout)
	defer cancel()

	// Closing the listener and open connections ends Serve.
	cancelCmd()

	select {
	case err = <-serveErr:
	case <-shutdownCtx.Done():
		slog.Warn("Graceful stop timed out")
	}

	done := make(chan struct{})

	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}

	return errors.Join(err, orchestratorSvc.Close(shutdownCtx))
}

// newHealthServer returns a gRPC server exposing the standard health service, reporting SERVING.
func newHealthServer() (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.Creds(insecure.NewCredentials()),
	)

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(otelsetup.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	return grpcServer, healthSrv
}

// levelHandler drops records below the configured level before they reach the OTel bridge.
type levelHandler struct {
	level slog.Leveler
	slog.Handler
}

func newLevelHandler(level slog.Leveler, h slog.Handler) *levelHandler {
	return &levelHandler{level: level, Handler: h}
}

func (h *levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level() && h.Handler.Enabled(ctx, l)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newLevelHandler(h.level, h.Handler.WithAttrs(attrs))
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return newLevelHandler(h.level, h.Handler.WithGroup(name))
}
