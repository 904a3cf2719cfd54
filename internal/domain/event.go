package domain

import (
	"fmt"
	"time"
)

// TimestampLayout is the second-resolution layout used for log lines
const TimestampLayout = "2006-01-02 15:04:05"

// EventKind identifies what happened
type EventKind int

const (
	ServiceStarted EventKind = iota + 1
	ServiceStopped
	ThresholdChanged
	InitialValue
	ThresholdCrossed
)

// String returns the kind name used in diagnostic logs
func (k EventKind) String() string {
	switch k {
	case ServiceStarted:
		return "service_started"
	case ServiceStopped:
		return "service_stopped"
	case ThresholdChanged:
		return "threshold_changed"
	case InitialValue:
		return "initial_value"
	case ThresholdCrossed:
		return "threshold_crossed"
	default:
		return "unknown"
	}
}

// Event is an immutable, timestamped record produced by the detector.
// Only the fields relevant to Kind are meaningful.
type Event struct {
	Kind      EventKind
	Timestamp time.Time
	Threshold int     // ThresholdChanged
	From      float64 // ThresholdCrossed
	Value     float64 // InitialValue, and the "to" side of ThresholdCrossed
}

func NewServiceStarted(at time.Time) Event {
	return Event{Kind: ServiceStarted, Timestamp: at}
}

func NewServiceStopped(at time.Time) Event {
	return Event{Kind: ServiceStopped, Timestamp: at}
}

func NewThresholdChanged(at time.Time, threshold int) Event {
	return Event{Kind: ThresholdChanged, Timestamp: at, Threshold: threshold}
}

func NewInitialValue(at time.Time, value float64) Event {
	return Event{Kind: InitialValue, Timestamp: at, Value: value}
}

func NewThresholdCrossed(at time.Time, from, to float64) Event {
	return Event{Kind: ThresholdCrossed, Timestamp: at, From: from, Value: to}
}

// Message returns the English text of the event, without timestamp.
// The wording is part of the log file format and must not change.
func (e Event) Message() string {
	switch e.Kind {
	case ServiceStarted:
		return "Service started"
	case ServiceStopped:
		return "Service stopped"
	case ThresholdChanged:
		return fmt.Sprintf("Threshold changed to %d", e.Threshold)
	case InitialValue:
		return fmt.Sprintf("Initial value: %s lx", FormatLux(e.Value))
	case ThresholdCrossed:
		return fmt.Sprintf("Threshold crossed: %s -> %s lx", FormatLux(e.From), FormatLux(e.Value))
	default:
		return fmt.Sprintf("Unknown event %d", int(e.Kind))
	}
}

// Line formats the event as "<yyyy-MM-dd HH:mm:ss> <message>"
func (e Event) Line() string {
	return e.Timestamp.Format(TimestampLayout) + " " + e.Message()
}
