package domain

import "context"

// ThresholdStore persists the configured threshold across process restarts.
// This is a PORT - adapters (SQLite, YAML file, Memory) will implement it
type ThresholdStore interface {
	// GetThreshold returns the stored threshold, or ErrThresholdNotSet
	// when nothing is stored or the stored value is the unset sentinel
	GetThreshold(ctx context.Context) (int, error)

	// SetThreshold stores a threshold; NoThreshold is stored as-is
	SetThreshold(ctx context.Context, threshold int) error
}
