package grpc

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/quentinrf/brightness-tracker/internal/domain"
)

// SessionControl is the part of ports.Session the handler drives
type SessionControl interface {
	Start() error
	Stop() error
	Brightness(lux float64)
	SetThresholdInput(ctx context.Context, text string) (int, error)
}

// EventStore is the part of eventlog.EventLog the handler exposes
type EventStore interface {
	Contents() (string, error)
	Clear() error
}

// TrackerHandler implements TrackerServer
type TrackerHandler struct {
	session SessionControl
	events  EventStore
}

// NewTrackerHandler creates a new gRPC handler
func NewTrackerHandler(session SessionControl, events EventStore) *TrackerHandler {
	return &TrackerHandler{
		session: session,
		events:  events,
	}
}

// StartSession starts a tracking session, restarting a running one.
// Without a light sensor it fails with FailedPrecondition.
func (h *TrackerHandler) StartSession(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	log.Info().Msg("StartSession called")

	if err := h.session.Start(); err != nil {
		if errors.Is(err, domain.ErrNoLightSensor) {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		log.Error().Err(err).Msg("failed to start session")
		return nil, status.Error(codes.Internal, "failed to start session")
	}
	return &emptypb.Empty{}, nil
}

// StopSession stops the running tracking session
func (h *TrackerHandler) StopSession(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	log.Info().Msg("StopSession called")

	if err := h.session.Stop(); err != nil {
		if errors.Is(err, domain.ErrSessionNotRunning) {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		log.Error().Err(err).Msg("failed to stop session")
		return nil, status.Error(codes.Internal, "failed to stop session")
	}
	return &emptypb.Empty{}, nil
}

// ReportBrightness feeds one externally measured sample
func (h *TrackerHandler) ReportBrightness(ctx context.Context, req *wrapperspb.DoubleValue) (*emptypb.Empty, error) {
	log.Debug().Float64("lux", req.GetValue()).Msg("ReportBrightness called")

	h.session.Brightness(req.GetValue())
	return &emptypb.Empty{}, nil
}

// SetThreshold applies threshold input; blank unsets the threshold.
// A failed save is logged only: the threshold is already in effect.
func (h *TrackerHandler) SetThreshold(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.Int64Value, error) {
	log.Info().Str("input", req.GetValue()).Msg("SetThreshold called")

	threshold, err := h.session.SetThresholdInput(ctx, req.GetValue())
	if errors.Is(err, domain.ErrInvalidThreshold) {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err != nil {
		log.Error().Err(err).Int("threshold", threshold).Msg("threshold applied but not persisted")
	}

	return wrapperspb.Int64(int64(threshold)), nil
}

// GetLog returns the durable event log
func (h *TrackerHandler) GetLog(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	log.Info().Msg("GetLog called")

	contents, err := h.events.Contents()
	if errors.Is(err, domain.ErrLogNotReadable) {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to read event log")
		return nil, status.Error(codes.Internal, "failed to read event log")
	}

	return wrapperspb.String(contents), nil
}

// ClearLog truncates the durable event log
func (h *TrackerHandler) ClearLog(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	log.Info().Msg("ClearLog called")

	if err := h.events.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear event log")
		return nil, status.Error(codes.Internal, "failed to clear event log")
	}
	return &emptypb.Empty{}, nil
}
