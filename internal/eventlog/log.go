// Package eventlog records brightness events as timestamped text lines.
//
// EventLog owns the formatting and a single lock; where the lines go is up
// to the Sink it is given (console, file, or a MultiSink of both).
package eventlog

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/brightness-tracker/internal/domain"
)

// EventLog is an append-only, concurrency-safe event recorder.
// Write and Clear share one lock, so lines land in lock order and a Clear
// never interleaves with a Write.
type EventLog struct {
	mu     sync.Mutex
	sink   Sink
	logger zerolog.Logger
}

// New wraps sink
func New(sink Sink) *EventLog {
	return &EventLog{
		sink:   sink,
		logger: log.With().Str("component", "eventlog").Logger(),
	}
}

// NewWithFallback layers the durable file at path on top of console. When
// the file cannot be opened the log is console-only and the open error is
// returned alongside it; the log is usable either way.
func NewWithFallback(path string, console Sink) (*EventLog, error) {
	file, err := OpenFileSink(path)
	if err != nil {
		return New(NewMultiSink(console)), fmt.Errorf("durable event log unavailable, using console only: %w", err)
	}
	return New(NewMultiSink(console, file)), nil
}

// Write formats event and appends it to the sink
func (l *EventLog) Write(event domain.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := event.Line()
	if err := l.sink.WriteLine(line); err != nil {
		l.logger.Error().
			Err(err).
			Str("kind", event.Kind.String()).
			Msg("failed to record event")
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// Clear empties the sink
func (l *EventLog) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.sink.Clear(); err != nil {
		l.logger.Error().Err(err).Msg("failed to clear event log")
		return fmt.Errorf("clear event log: %w", err)
	}
	l.logger.Info().Msg("event log cleared")
	return nil
}

// Contents returns the text of the durable sink, or domain.ErrLogNotReadable
func (l *EventLog) Contents() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.sink.(Reader)
	if !ok {
		return "", domain.ErrLogNotReadable
	}
	data, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read event log: %w", err)
	}
	return string(data), nil
}
