package memory

import (
	"context"
	"sync"

	"github.com/quentinrf/brightness-tracker/internal/domain"
)

// ThresholdStore implements domain.ThresholdStore in memory
// Nothing survives a restart - useful for development and tests
type ThresholdStore struct {
	mu        sync.RWMutex
	threshold int
	stored    bool
}

// NewThresholdStore creates an empty store
func NewThresholdStore() *ThresholdStore {
	return &ThresholdStore{threshold: domain.NoThreshold}
}

// GetThreshold returns the stored threshold
func (s *ThresholdStore) GetThreshold(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.stored || !domain.IsThresholdSet(s.threshold) {
		return domain.NoThreshold, domain.ErrThresholdNotSet
	}
	return s.threshold, nil
}

// SetThreshold stores a threshold
func (s *ThresholdStore) SetThreshold(ctx context.Context, threshold int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.threshold = threshold
	s.stored = true
	return nil
}
