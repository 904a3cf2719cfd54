package grpc

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/quentinrf/brightness-tracker/internal/adapters/memory"
	"github.com/quentinrf/brightness-tracker/internal/adapters/mock"
	"github.com/quentinrf/brightness-tracker/internal/domain"
	"github.com/quentinrf/brightness-tracker/internal/eventlog"
	"github.com/quentinrf/brightness-tracker/internal/ports"
)

// startTestServer creates an in-process gRPC server and returns a connected client.
// The server is stopped when the test ends.
func startTestServer(t *testing.T, events *eventlog.EventLog, opts ...grpc.ServerOption) *Client {
	t.Helper()

	session := ports.NewSession(context.Background(), events, memory.NewThresholdStore(), domain.DefaultThreshold)
	return startSessionServer(t, session, events, opts...)
}

// startSessionServer serves a handler around an already configured session
func startSessionServer(t *testing.T, session *ports.Session, events *eventlog.EventLog, opts ...grpc.ServerOption) *Client {
	t.Helper()

	handler := NewTrackerHandler(session, events)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	srv := grpc.NewServer(opts...)
	RegisterTrackerServer(srv, handler)

	go srv.Serve(lis)
	t.Cleanup(func() {
		srv.GracefulStop()
	})

	conn, err := grpc.NewClient(
		lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn)
}

func newFileEventLog(t *testing.T) *eventlog.EventLog {
	t.Helper()
	file, err := eventlog.OpenFileSink(filepath.Join(t.TempDir(), "brightness_log.txt"))
	if err != nil {
		t.Fatalf("failed to open file sink: %v", err)
	}
	return eventlog.New(eventlog.NewMultiSink(eventlog.NewConsoleSink(zerolog.Nop()), file))
}

// messages strips timestamps from log lines
func messages(contents string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSuffix(contents, "\n"), "\n") {
		if line == "" {
			continue
		}
		out = append(out, line[len(domain.TimestampLayout)+1:])
	}
	return out
}

func TestSessionFlow(t *testing.T) {
	client := startTestServer(t, newFileEventLog(t))
	ctx := context.Background()

	if err := client.StartSession(ctx); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	for _, lux := range []float64{-1, 80, 80, 120, 81, 121} {
		if err := client.ReportBrightness(ctx, lux); err != nil {
			t.Fatalf("ReportBrightness(%v) failed: %v", lux, err)
		}
	}
	if err := client.StopSession(ctx); err != nil {
		t.Fatalf("StopSession failed: %v", err)
	}

	contents, err := client.Log(ctx)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	want := []string{
		"Service started",
		"Threshold changed to 100",
		"Initial value: 80.0 lx",
		"Threshold crossed: 80.0 -> 120.0 lx",
		"Threshold crossed: 120.0 -> 81.0 lx",
		"Threshold crossed: 81.0 -> 121.0 lx",
		"Service stopped",
	}
	got := messages(contents)
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestStopSession_NotRunning(t *testing.T) {
	client := startTestServer(t, newFileEventLog(t))

	err := client.StopSession(context.Background())
	if status.Code(err) != codes.FailedPrecondition {
		t.Errorf("expected FailedPrecondition, got %v", err)
	}
}

func TestSetThreshold(t *testing.T) {
	client := startTestServer(t, newFileEventLog(t))
	ctx := context.Background()

	cases := []struct {
		input string
		want  int
		code  codes.Code
	}{
		{"250", 250, codes.OK},
		{"", domain.NoThreshold, codes.OK},
		{"-3", 0, codes.InvalidArgument},
		{"lots", 0, codes.InvalidArgument},
	}

	for _, tc := range cases {
		got, err := client.SetThreshold(ctx, tc.input)
		if status.Code(err) != tc.code {
			t.Fatalf("SetThreshold(%q): expected code %v, got %v", tc.input, tc.code, err)
		}
		if tc.code == codes.OK && got != tc.want {
			t.Errorf("SetThreshold(%q): expected %d, got %d", tc.input, tc.want, got)
		}
	}
}

func TestClearLog(t *testing.T) {
	client := startTestServer(t, newFileEventLog(t))
	ctx := context.Background()

	if err := client.StartSession(ctx); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if err := client.ClearLog(ctx); err != nil {
		t.Fatalf("ClearLog failed: %v", err)
	}

	contents, err := client.Log(ctx)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if contents != "" {
		t.Errorf("expected empty log after clear, got %q", contents)
	}

	if _, err := client.SetThreshold(ctx, "75"); err != nil {
		t.Fatalf("SetThreshold failed: %v", err)
	}
	contents, err = client.Log(ctx)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if got := messages(contents); len(got) != 1 || got[0] != "Threshold changed to 75" {
		t.Errorf("expected exactly one line after clear, got %q", got)
	}
}

func TestGetLog_ConsoleOnly(t *testing.T) {
	events := eventlog.New(eventlog.NewConsoleSink(zerolog.Nop()))
	client := startTestServer(t, events)

	_, err := client.Log(context.Background())
	if status.Code(err) != codes.FailedPrecondition {
		t.Errorf("expected FailedPrecondition, got %v", err)
	}
}

func TestInterceptorSeesFullMethod(t *testing.T) {
	var calls atomic.Int32
	var lastMethod atomic.Value
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		calls.Add(1)
		lastMethod.Store(info.FullMethod)
		return handler(ctx, req)
	}

	client := startTestServer(t, newFileEventLog(t), grpc.UnaryInterceptor(interceptor))

	if _, err := client.SetThreshold(context.Background(), "10"); err != nil {
		t.Fatalf("SetThreshold failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 intercepted call, got %d", calls.Load())
	}
	if got := lastMethod.Load(); got != "/brightnesstracker.v1.TrackerService/SetThreshold" {
		t.Errorf("unexpected full method %v", got)
	}
}

// readOnlyStore loads nothing and refuses every save
type readOnlyStore struct{}

func (readOnlyStore) GetThreshold(ctx context.Context) (int, error) {
	return 0, domain.ErrThresholdNotSet
}

func (readOnlyStore) SetThreshold(ctx context.Context, threshold int) error {
	return errors.New("preferences are read-only")
}

func TestStartSession_NoLightSensor(t *testing.T) {
	events := newFileEventLog(t)
	ctx := context.Background()

	session := ports.NewSession(ctx, events, memory.NewThresholdStore(), domain.DefaultThreshold,
		ports.WithSensorCheck(ports.ProbeSensor(ctx, mock.AbsentSensor{})))
	client := startSessionServer(t, session, events)

	err := client.StartSession(ctx)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", err)
	}
	if session.Running() {
		t.Error("session must not run without a light sensor")
	}

	contents, err := client.Log(ctx)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if contents != "" {
		t.Errorf("expected no events, got %q", contents)
	}
}

func TestSetThreshold_SaveFailureKeepsValue(t *testing.T) {
	events := newFileEventLog(t)
	ctx := context.Background()

	session := ports.NewSession(ctx, events, readOnlyStore{}, domain.DefaultThreshold)
	client := startSessionServer(t, session, events)

	if err := client.StartSession(ctx); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	got, err := client.SetThreshold(ctx, "40")
	if err != nil {
		t.Fatalf("expected the threshold to apply despite the failed save, got %v", err)
	}
	if got != 40 {
		t.Errorf("expected 40, got %d", got)
	}
	if session.Threshold() != 40 {
		t.Errorf("expected session threshold 40, got %d", session.Threshold())
	}

	contents, err := client.Log(ctx)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	lines := messages(contents)
	if lines[len(lines)-1] != "Threshold changed to 40" {
		t.Errorf("expected the change to be logged, got %q", lines)
	}
}
