// Package server implements the line-oriented command protocol.
//
// Each line carries one command; each command gets exactly one reply:
//
//	M408 [S<n>]      status document at level n
//	G92 <A><v>...    set axis positions
//	G28 [<A>...]     mark axes homed (all linear axes when none are given)
//	M17 / M18        set active true / false
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"dash0.com/printer-status-backend/internal/machine"
	"dash0.com/printer-status-backend/internal/orchestrator"
	"dash0.com/printer-status-backend/internal/reply"
)

const (
	replyOK        = "ok\n"
	replyBusy      = "Error:Busy\n"
	replyUnknown   = "Error:Unknown command\n"
	replyBadParam  = "Error:Bad parameter\n"
	maxLineLength  = 4096
	instrumentName = "dash0.com/printer-status-backend/server"
)

var errBadParam = errors.New("bad parameter")

type Server struct {
	svc    orchestrator.Orchestrator
	logger *slog.Logger
	tracer oteltrace.Tracer
}

// New returns a Server backed by svc.
func New(svc orchestrator.Orchestrator, logger *slog.Logger) *Server {
	return &Server{svc: svc, logger: logger, tracer: otel.Tracer(instrumentName)}
}

// Serve accepts connections on ln until ctx is cancelled, then closes ln and
// waits for open connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("accept: %w", err)
		}

		wg.Add(1)

		go func() {
			defer wg.Done()
			defer conn.Close()

			closeConn := context.AfterFunc(ctx, func() { _ = conn.Close() })
			defer closeConn()

			if err := s.ServeConn(ctx, conn); err != nil && ctx.Err() == nil {
				s.logger.WarnContext(ctx, "connection closed with error",
					slog.String("remote", conn.RemoteAddr().String()),
					slog.String("err", err.Error()),
				)
			}
		}()
	}
}

// ServeConn reads commands from rw and writes one reply per command until EOF.
func (s *Server) ServeConn(ctx context.Context, rw io.ReadWriter) error {
	scanner := bufio.NewScanner(rw)
	scanner.Buffer(make([]byte, 0, 256), maxLineLength)

	ch := reply.NewChannel(rw)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		before := ch.Written()
		if err := s.handle(ctx, ch, line); err != nil {
			return err
		}

		s.svc.IncrMetric(ctx, orchestrator.MetricReplyBytes, int64(ch.Written()-before))
	}

	return scanner.Err()
}

func (s *Server) handle(ctx context.Context, ch *reply.Channel, line string) error {
	fields := strings.Fields(line)
	cmd := strings.ToUpper(fields[0])
	args := fields[1:]

	ctx, span := s.tracer.Start(ctx, "server.command")
	defer span.End()

	span.SetAttributes(attribute.String("command", cmd), attribute.Int("command.args", len(args)))
	s.logger.DebugContext(ctx, "command received", slog.String("command", cmd), slog.Int("args", len(args)))
	s.svc.IncrMetric(ctx, orchestrator.MetricCommandsReceived, 1)

	var (
		updates []machine.Update
		err     error
	)

	switch cmd {
	case "M408":
		level, err := parseLevel(args)
		if err != nil {
			return s.send(ch, replyBadParam)
		}

		if err := s.svc.Status(ctx, ch, level); err != nil {
			span.RecordError(err)
			return err
		}

		return nil
	case "G92":
		updates, err = s.positions(args)
	case "G28":
		updates, err = s.homing(args)
	case "M17":
		updates = []machine.Update{{Op: machine.OpSetActive, Value: 1}}
	case "M18":
		updates = []machine.Update{{Op: machine.OpSetActive, Value: 0}}
	default:
		return s.send(ch, replyUnknown)
	}

	if err != nil {
		s.logger.DebugContext(ctx, "rejecting command", slog.String("command", cmd), slog.String("err", err.Error()))
		return s.send(ch, replyBadParam)
	}

	if !s.svc.EnqueueUpdates(updates) {
		s.svc.RecordDrop(uint64(len(updates)))
		span.SetAttributes(attribute.Int("updates.dropped", len(updates)))

		return s.send(ch, replyBusy)
	}

	return s.send(ch, replyOK)
}

func (s *Server) send(ch *reply.Channel, text string) error {
	ch.AppendString(text)
	return ch.Finish()
}

// positions parses G92 words such as X10 or E-2.5.
func (s *Server) positions(args []string) ([]machine.Update, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: G92 needs at least one axis", errBadParam)
	}

	updates := make([]machine.Update, 0, len(args))

	for _, w := range args {
		axis, rest := strings.ToUpper(w[:1]), w[1:]
		if !s.svc.HasAxis(axis) {
			return nil, fmt.Errorf("%w: unknown axis %q", errBadParam, axis)
		}

		v, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: axis %s: %w", errBadParam, axis, err)
		}

		updates = append(updates, machine.Update{Op: machine.OpSetPosition, Target: axis, Value: v})
	}

	return updates, nil
}

// homing parses G28 words; any value after the axis letter is ignored.
func (s *Server) homing(args []string) ([]machine.Update, error) {
	if len(args) == 0 {
		linear := s.svc.LinearAxes()
		updates := make([]machine.Update, 0, len(linear))

		for _, a := range linear {
			updates = append(updates, machine.Update{Op: machine.OpSetHomed, Target: a})
		}

		return updates, nil
	}

	updates := make([]machine.Update, 0, len(args))

	for _, w := range args {
		axis := strings.ToUpper(w[:1])
		if !s.isLinear(axis) {
			return nil, fmt.Errorf("%w: axis %q cannot be homed", errBadParam, axis)
		}

		updates = append(updates, machine.Update{Op: machine.OpSetHomed, Target: axis})
	}

	return updates, nil
}

func (s *Server) isLinear(axis string) bool {
	for _, a := range s.svc.LinearAxes() {
		if a == axis {
			return true
		}
	}

	return false
}

func parseLevel(args []string) (uint32, error) {
	var level uint32

	for _, w := range args {
		if len(w) < 2 || (w[0] != 'S' && w[0] != 's') {
			continue
		}

		v, err := strconv.ParseUint(w[1:], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", errBadParam, err)
		}

		level = uint32(v)
	}

	return level, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}

	return strings.TrimSpace(line)
}
