package server

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	cfgpkg "dash0.com/printer-status-backend/internal/config"
	"dash0.com/printer-status-backend/internal/machine"
	"dash0.com/printer-status-backend/internal/orchestrator"
	"dash0.com/printer-status-backend/internal/orchestrator/mocks"
	"dash0.com/printer-status-backend/internal/sink"
)

type conn struct {
	io.Reader
	io.Writer
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startOrchestrator(t *testing.T) orchestrator.Orchestrator {
	t.Helper()

	m, err := machine.New(machine.Description{
		Axes: []machine.AxisSpec{{Name: "X"}, {Name: "Y"}, {Name: "Z"}, {Name: "E", Extruder: true}},
	})
	require.NoError(t, err)

	cfg := cfgpkg.Config{
		ReportInterval:   time.Hour,
		ReportBufferSize: 512,
		MaxQueue:         16,
		LogLevel:         "info",
		GracefulTimeout:  time.Second,
	}

	svc, err := orchestrator.New(cfg, discardLogger(), orchestrator.WithMachine(m), orchestrator.WithPublisher(sink.NewLinePublisher(io.Discard)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(func() {
		cancel()
		require.NoError(t, svc.Close(context.Background()))
	})

	return svc
}

func run(t *testing.T, svc orchestrator.Orchestrator, input string) string {
	t.Helper()

	out := new(bytes.Buffer)
	require.NoError(t, New(svc, discardLogger()).ServeConn(context.Background(), conn{strings.NewReader(input), out}))

	return out.String()
}

func TestServeConn_StatusAfterPositions(t *testing.T) {
	svc := startOrchestrator(t)

	got := run(t, svc, "G92 E12.5 Y10 Z20.25\nM408\n")

	require.Equal(t, "ok\n"+`{"active":false,"coords":{"axesHomed":[0,0,0],"extr":[12.5],"xyz":[0,10,20.25]}}`+"\n", got)
}

func TestServeConn_Commands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "home_all_then_activate",
			input: "G28\nM17\nM408 S0\n",
			want:  "ok\nok\n" + `{"active":true,"coords":{"axesHomed":[1,1,1],"extr":[0],"xyz":[0,0,0]}}` + "\n",
		},
		{
			name:  "home_listed",
			input: "g28 Y0 ; comment\nM408\n",
			want:  "ok\n" + `{"active":false,"coords":{"axesHomed":[0,1,0],"extr":[0],"xyz":[0,0,0]}}` + "\n",
		},
		{
			name:  "deactivate",
			input: "M17\nM18\nM408\n",
			want:  "ok\nok\n" + `{"active":false,"coords":{"axesHomed":[0,0,0],"extr":[0],"xyz":[0,0,0]}}` + "\n",
		},
		{
			name:  "level_one_without_heaters",
			input: "M408 S1\n",
			want:  `{"active":false,"coords":{"axesHomed":[0,0,0],"extr":[0],"xyz":[0,0,0]},"temps":{"heads":{"current":[]}}}` + "\n",
		},
		{
			name:  "blank_lines_ignored",
			input: "\n   \n; only a comment\n",
			want:  "",
		},
		{name: "unknown", input: "M999\n", want: "Error:Unknown command\n"},
		{name: "unknown_axis", input: "G92 Q1\n", want: "Error:Bad parameter\n"},
		{name: "bad_number", input: "G92 X1.2.3\n", want: "Error:Bad parameter\n"},
		{name: "missing_axes", input: "G92\n", want: "Error:Bad parameter\n"},
		{name: "home_extruder", input: "G28 E\n", want: "Error:Bad parameter\n"},
		{name: "bad_level", input: "M408 S-1\n", want: "Error:Bad parameter\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, run(t, startOrchestrator(t), tt.input))
		})
	}
}

func TestServeConn_BusyRecordsDrop(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrchestrator(ctrl)

	svc.EXPECT().IncrMetric(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	svc.EXPECT().HasAxis("X").Return(true)
	svc.EXPECT().HasAxis("Y").Return(true)
	svc.EXPECT().EnqueueUpdates([]machine.Update{
		{Op: machine.OpSetPosition, Target: "X", Value: 1},
		{Op: machine.OpSetPosition, Target: "Y", Value: 2},
	}).Return(false)
	svc.EXPECT().RecordDrop(uint64(2))

	require.Equal(t, "Error:Busy\n", run(t, svc, "G92 X1 Y2\n"))
}

func TestServeConn_CountsCommandsAndReplyBytes(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrchestrator(ctrl)

	gomock.InOrder(
		svc.EXPECT().IncrMetric(gomock.Any(), orchestrator.MetricCommandsReceived, int64(1)),
		svc.EXPECT().EnqueueUpdates(gomock.Len(1)).Return(true),
		svc.EXPECT().IncrMetric(gomock.Any(), orchestrator.MetricReplyBytes, int64(len("ok\n"))),
		svc.EXPECT().IncrMetric(gomock.Any(), orchestrator.MetricCommandsReceived, int64(1)),
		svc.EXPECT().IncrMetric(gomock.Any(), orchestrator.MetricReplyBytes, int64(len("Error:Unknown command\n"))),
	)

	run(t, svc, "M17\nT0\n")
}

func TestServeConn_StatusErrorEndsConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrchestrator(ctrl)

	boom := errors.New("broken pipe")
	svc.EXPECT().IncrMetric(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	svc.EXPECT().Status(gomock.Any(), gomock.Any(), uint32(2)).Return(boom)

	err := New(svc, discardLogger()).ServeConn(context.Background(), conn{strings.NewReader("M408 S2\nM17\n"), io.Discard})
	require.ErrorIs(t, err, boom)
}

func TestServeConn_LineTooLong(t *testing.T) {
	svc := startOrchestrator(t)

	long := "M408 " + strings.Repeat("x", maxLineLength) + "\n"
	err := New(svc, discardLogger()).ServeConn(context.Background(), conn{strings.NewReader(long), io.Discard})
	require.ErrorIs(t, err, bufio.ErrTooLong)
}

func TestServe_TCPRoundTrip(t *testing.T) {
	svc := startOrchestrator(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- New(svc, discardLogger()).Serve(ctx, ln) }()

	c, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer c.Close()

	_, err = io.WriteString(c, "G92 X100.5 E1234567\nM408\n")
	require.NoError(t, err)

	r := bufio.NewReader(c)

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "ok\n", line)

	line, err = r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, `{"active":false,"coords":{"axesHomed":[0,0,0],"extr":[1.23457e+06],"xyz":[100.5,0,0]}}`+"\n", line)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
