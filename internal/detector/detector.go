// Package detector turns raw brightness samples and threshold changes into
// discrete log events.
package detector

import (
	"time"

	"github.com/quentinrf/brightness-tracker/internal/domain"
)

// EventWriter receives every event the detector emits
type EventWriter interface {
	Write(event domain.Event) error
}

// Option configures a Detector
type Option func(*Detector)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

// Detector holds the state of one tracking session: the current threshold
// and the last reported sample. It is not safe for concurrent use; callers
// serialize access.
type Detector struct {
	out       EventWriter
	now       func() time.Time
	threshold int
	lastValue float64
}

// New creates a detector with no threshold and no reference value
func New(out EventWriter, opts ...Option) *Detector {
	d := &Detector{
		out:       out,
		now:       time.Now,
		threshold: domain.NoThreshold,
		lastValue: domain.InvalidBrightness,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnServiceStarted emits ServiceStarted
func (d *Detector) OnServiceStarted() error {
	return d.emit(domain.NewServiceStarted(d.now()))
}

// OnServiceStopped emits ServiceStopped
func (d *Detector) OnServiceStopped() error {
	return d.emit(domain.NewServiceStopped(d.now()))
}

// SetThreshold stores the threshold and emits ThresholdChanged.
// domain.NoThreshold disables crossing detection from the next sample on.
func (d *Detector) SetThreshold(threshold int) error {
	d.threshold = threshold
	return d.emit(domain.NewThresholdChanged(d.now(), threshold))
}

// OnBrightnessChanged consumes one sample and emits at most one event.
//
// The reference value only moves when something is emitted, so a crossing
// is measured against the last reported value, not the last seen one.
func (d *Detector) OnBrightnessChanged(value float64) error {
	if !domain.IsThresholdSet(d.threshold) {
		return nil
	}

	if !domain.IsValidBrightness(value) {
		// forget the reference so no crossing is inferred across the gap
		d.lastValue = domain.InvalidBrightness
		return nil
	}

	if !domain.IsValidBrightness(d.lastValue) {
		d.lastValue = value
		return d.emit(domain.NewInitialValue(d.now(), value))
	}

	limit := float64(d.threshold)
	if (d.lastValue < limit) != (value < limit) {
		from := d.lastValue
		d.lastValue = value
		return d.emit(domain.NewThresholdCrossed(d.now(), from, value))
	}

	return nil
}

// Threshold returns the current threshold, or domain.NoThreshold
func (d *Detector) Threshold() int {
	return d.threshold
}

// LastValue returns the current reference value and whether one is known
func (d *Detector) LastValue() (float64, bool) {
	return d.lastValue, domain.IsValidBrightness(d.lastValue)
}

func (d *Detector) emit(event domain.Event) error {
	if d.out == nil {
		return nil
	}
	return d.out.Write(event)
}
