package domain

import "errors"

var (
	// ErrNoLightSensor indicates the device has no light sensor; a session cannot start
	ErrNoLightSensor = errors.New("no light sensor available")

	// ErrSensorUnavailable indicates a single read failed; treated as an invalid sample
	ErrSensorUnavailable = errors.New("sensor unavailable")

	// ErrThresholdNotSet indicates no threshold has been stored
	ErrThresholdNotSet = errors.New("threshold not set")

	// ErrInvalidThreshold indicates human input that is not a non-negative integer
	ErrInvalidThreshold = errors.New("threshold must be a non-negative integer")

	// ErrSessionNotRunning indicates an operation that needs an active tracking session
	ErrSessionNotRunning = errors.New("tracking session not running")

	// ErrLogNotReadable indicates no configured sink can be read back
	ErrLogNotReadable = errors.New("event log has no readable durable sink")
)
