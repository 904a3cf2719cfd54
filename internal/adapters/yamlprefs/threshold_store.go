// Package yamlprefs keeps tracker preferences in a small YAML file.
package yamlprefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/quentinrf/brightness-tracker/internal/domain"
)

type prefsFile struct {
	Threshold *int `yaml:"threshold,omitempty"`
}

// ThresholdStore implements domain.ThresholdStore on a YAML file
type ThresholdStore struct {
	mu   sync.Mutex
	path string
}

// NewThresholdStore uses the file at path, creating its directory if needed.
// The file itself is written on the first SetThreshold.
func NewThresholdStore(path string) (*ThresholdStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create prefs directory: %w", err)
	}
	return &ThresholdStore{path: path}, nil
}

// GetThreshold reads the threshold from the file
func (s *ThresholdStore) GetThreshold(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.load()
	if err != nil {
		return domain.NoThreshold, err
	}
	if prefs.Threshold == nil || !domain.IsThresholdSet(*prefs.Threshold) {
		return domain.NoThreshold, domain.ErrThresholdNotSet
	}
	return *prefs.Threshold, nil
}

// SetThreshold rewrites the file with the new threshold
func (s *ThresholdStore) SetThreshold(ctx context.Context, threshold int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.load()
	if err != nil {
		return err
	}
	prefs.Threshold = &threshold

	data, err := yaml.Marshal(&prefs)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func (s *ThresholdStore) load() (prefsFile, error) {
	var prefs prefsFile

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("read prefs: %w", err)
	}

	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return prefs, fmt.Errorf("decode prefs: %w", err)
	}
	return prefs, nil
}
