package eventlog

import (
	"errors"

	"github.com/quentinrf/brightness-tracker/internal/domain"
)

// Sink is one output target for formatted event lines
type Sink interface {
	// WriteLine appends a single line; the sink adds the line terminator
	WriteLine(line string) error

	// Clear drops everything written so far. Transient sinks may no-op.
	Clear() error
}

// Reader is implemented by sinks whose contents can be read back
type Reader interface {
	ReadAll() ([]byte, error)
}

// MultiSink fans every call out to all of its layers. A failing layer does
// not stop the others from receiving the line; failures are joined.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink composes sinks in call order, skipping nils
func NewMultiSink(sinks ...Sink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// WriteLine writes to every layer
func (m *MultiSink) WriteLine(line string) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.WriteLine(line); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Clear clears every layer
func (m *MultiSink) Clear() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReadAll reads back the first layer that supports it
func (m *MultiSink) ReadAll() ([]byte, error) {
	for _, s := range m.sinks {
		if r, ok := s.(Reader); ok {
			return r.ReadAll()
		}
	}
	return nil, domain.ErrLogNotReadable
}
