package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/c2h5oh/datasize"
)

// MaxReportBufferSize bounds the fixed report buffer.
const MaxReportBufferSize = datasize.MB

// Config holds instance-level configuration for the service.
type Config struct {
	ListenAddr string
	HealthAddr string

	MachineConfig    string
	ReportInterval   time.Duration
	ReportLevel      uint
	ReportBufferSize int
	OutputFile       string
	MaxQueue         int
	LogLevel         string
	GracefulTimeout  time.Duration
}

// RegisterFlags registers CLI flags and returns a reader that captures them after flag.Parse().
func RegisterFlags() func() Config {
	listenAddr := flag.String("listenAddr", "localhost:2560", "The command listen address")
	healthAddr := flag.String("healthAddr", "localhost:4317", "The gRPC health listen address (empty disables it)")

	machineCfg := flag.String("machineConfig", "", "Path to a YAML machine description (empty uses the built-in machine)")
	interval := flag.Duration("reportInterval", 5*time.Second, "Status report interval")
	level := flag.Uint("reportLevel", 0, "Status level used for periodic reports (M408 S parameter)")
	bufSize := 512 * datasize.B
	flag.TextVar(&bufSize, "reportBufferSize", bufSize, "Size of the fixed report buffer (e.g. 512B, 2KB)")
	outFile := flag.String("outputFile", "", "Append status reports to this file instead of stdout")
	maxQueue := flag.Int("maxQueue", 1024, "Max queued machine updates")
	logLevel := flag.String("logLevel", "info", "Log level: debug|info|warn|error")
	graceful := flag.Duration("gracefulTimeout", 10*time.Second, "Graceful shutdown timeout")

	return func() Config {
		return Config{
			ListenAddr:       *listenAddr,
			HealthAddr:       *healthAddr,
			MachineConfig:    *machineCfg,
			ReportInterval:   *interval,
			ReportLevel:      *level,
			ReportBufferSize: int(bufSize.Bytes()),
			OutputFile:       *outFile,
			MaxQueue:         *maxQueue,
			LogLevel:         *logLevel,
			GracefulTimeout:  *graceful,
		}
	}
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	var errs []error

	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listenAddr must not be empty"))
	}

	if c.ReportInterval <= 0 {
		errs = append(errs, fmt.Errorf("reportInterval must be positive, got %s", c.ReportInterval))
	}

	if c.ReportBufferSize <= 0 || datasize.ByteSize(c.ReportBufferSize) > MaxReportBufferSize {
		errs = append(errs, fmt.Errorf("reportBufferSize must be in (0, %s], got %d", MaxReportBufferSize.HumanReadable(), c.ReportBufferSize))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("logLevel: %w", err)
	}

	return l, nil
}
