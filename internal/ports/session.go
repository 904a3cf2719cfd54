package ports

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/brightness-tracker/internal/detector"
	"github.com/quentinrf/brightness-tracker/internal/domain"
)

// Session connects a sample feed and threshold configuration to a detector.
// It owns one detector per tracking session and serializes every call into
// it, so samples and threshold changes may arrive from different goroutines.
type Session struct {
	mu        sync.Mutex
	events    detector.EventWriter
	store     domain.ThresholdStore
	clock     func() time.Time
	threshold int
	det       *detector.Detector
	sensorErr error
	logger    zerolog.Logger
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithSessionClock overrides the event timestamp source
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.clock = now
	}
}

// WithSensorCheck records the outcome of ProbeSensor. When it reports
// domain.ErrNoLightSensor, Start refuses to run.
func WithSensorCheck(err error) SessionOption {
	return func(s *Session) {
		s.sensorErr = err
	}
}

// NewSession resolves the starting threshold from store, falling back to
// defaultThreshold when nothing usable is stored
func NewSession(ctx context.Context, events detector.EventWriter, store domain.ThresholdStore, defaultThreshold int, opts ...SessionOption) *Session {
	s := &Session{
		events:    events,
		store:     store,
		clock:     time.Now,
		threshold: defaultThreshold,
		logger:    log.With().Str("component", "session").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	stored, err := store.GetThreshold(ctx)
	switch {
	case err == nil:
		s.threshold = stored
	case errors.Is(err, domain.ErrThresholdNotSet):
		s.logger.Info().Int("threshold", defaultThreshold).Msg("no stored threshold, using default")
	default:
		s.logger.Warn().Err(err).Int("threshold", defaultThreshold).Msg("failed to load threshold, using default")
	}

	return s
}

// Start begins a tracking session with a fresh detector. A running session
// is stopped first. Without a light sensor nothing starts and nothing is
// logged.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if errors.Is(s.sensorErr, domain.ErrNoLightSensor) {
		s.logger.Error().Err(s.sensorErr).Msg("tracking session not started")
		return s.sensorErr
	}

	if s.det != nil {
		s.stopLocked()
	}

	id := uuid.NewString()
	s.logger = log.With().Str("component", "session").Str("session_id", id).Logger()
	s.det = detector.New(s.events, detector.WithClock(s.clock))

	s.report(s.det.OnServiceStarted())
	s.report(s.det.SetThreshold(s.threshold))

	s.logger.Info().Int("threshold", s.threshold).Msg("tracking session started")
	return nil
}

// Stop ends the tracking session and discards its detector
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.det == nil {
		return domain.ErrSessionNotRunning
	}
	s.stopLocked()
	return nil
}

func (s *Session) stopLocked() {
	s.report(s.det.OnServiceStopped())

	ev := s.logger.Info()
	if last, known := s.det.LastValue(); known {
		ev = ev.Float64("last_lux", last)
	}
	ev.Msg("tracking session stopped")
	s.det = nil
}

// Running reports whether a tracking session is active
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.det != nil
}

// Threshold returns the current threshold, or domain.NoThreshold
func (s *Session) Threshold() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threshold
}

// Brightness feeds one raw sample, rounded to one decimal, to the detector.
// Samples outside a session are dropped.
func (s *Session) Brightness(lux float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.det == nil {
		return
	}
	s.report(s.det.OnBrightnessChanged(domain.RoundBrightness(lux)))
}

// SetThreshold applies, logs and persists a threshold. Only non-negative
// values and domain.NoThreshold are accepted. While idle the change is logged
// directly and the value is handed to the next session's detector.
func (s *Session) SetThreshold(ctx context.Context, threshold int) error {
	if threshold < 0 && threshold != domain.NoThreshold {
		return domain.ErrInvalidThreshold
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.threshold = threshold
	if s.det != nil {
		s.report(s.det.SetThreshold(threshold))
	} else if s.events != nil {
		s.report(s.events.Write(domain.NewThresholdChanged(s.clock(), threshold)))
	}

	if err := s.store.SetThreshold(ctx, threshold); err != nil {
		s.logger.Error().Err(err).Int("threshold", threshold).Msg("failed to persist threshold")
		return fmt.Errorf("persist threshold: %w", err)
	}
	s.logger.Debug().Int("threshold", threshold).Msg("new threshold")
	return nil
}

// SetThresholdInput parses human input: blank unsets the threshold, anything
// that is not a non-negative integer is rejected without touching the detector.
// It returns the threshold now in effect.
func (s *Session) SetThresholdInput(ctx context.Context, text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.NoThreshold, s.SetThreshold(ctx, domain.NoThreshold)
	}

	value, err := strconv.Atoi(text)
	if err != nil || value < 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.logger.Error().Str("input", text).Msg("ignoring invalid threshold value")
		return s.threshold, domain.ErrInvalidThreshold
	}
	return value, s.SetThreshold(ctx, value)
}

// report logs a failed event write; tracking carries on regardless.
// Callers hold s.mu.
func (s *Session) report(err error) {
	if err != nil {
		s.logger.Warn().Err(err).Msg("event not recorded")
	}
}
