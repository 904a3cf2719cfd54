package mock

import (
	"context"
	"math/rand"
	"sync"

	"github.com/quentinrf/brightness-tracker/internal/domain"
)

// FakeSensor simulates a light sensor for development
// This implements the ports.LightSensor interface
type FakeSensor struct {
	baseValue float64
	variation float64
	dropout   float64
}

// NewFakeSensor creates a sensor that returns realistic values
// baseValue: average lux (e.g., 500 for indoor lighting)
// variation: +/- range (e.g., 100 means 400-600)
func NewFakeSensor(baseValue, variation float64) *FakeSensor {
	return &FakeSensor{
		baseValue: baseValue,
		variation: variation,
	}
}

// WithDropout makes a fraction p of reads fail, like a sensor that
// occasionally has no reading
func (s *FakeSensor) WithDropout(p float64) *FakeSensor {
	s.dropout = p
	return s
}

// ReadLux returns a simulated light reading
// Simulates realistic variance (lights flicker, clouds pass, etc.)
func (s *FakeSensor) ReadLux(ctx context.Context) (float64, error) {
	if s.dropout > 0 && rand.Float64() < s.dropout {
		return domain.InvalidBrightness, domain.ErrSensorUnavailable
	}

	// Random value around base +/- variation
	variance := (rand.Float64() - 0.5) * 2 * s.variation
	lux := s.baseValue + variance

	// Ensure non-negative
	if lux < 0 {
		lux = 0
	}

	return lux, nil
}

// Close is a no-op for fake sensor
func (s *FakeSensor) Close() error {
	return nil
}

// ScriptedSensor replays a fixed list of readings, then keeps returning the
// last one. Negative entries are reported as failed reads.
type ScriptedSensor struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewScriptedSensor replays values in order
func NewScriptedSensor(values ...float64) *ScriptedSensor {
	return &ScriptedSensor{values: values}
}

// ReadLux returns the next scripted reading
func (s *ScriptedSensor) ReadLux(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.values) == 0 {
		return domain.InvalidBrightness, domain.ErrSensorUnavailable
	}

	v := s.values[s.next]
	if s.next < len(s.values)-1 {
		s.next++
	}
	if v < 0 {
		return domain.InvalidBrightness, domain.ErrSensorUnavailable
	}
	return v, nil
}

// Close is a no-op
func (s *ScriptedSensor) Close() error {
	return nil
}

// AbsentSensor stands in for hardware without a light sensor
type AbsentSensor struct{}

// ReadLux always reports the sensor as missing
func (AbsentSensor) ReadLux(ctx context.Context) (float64, error) {
	return domain.InvalidBrightness, domain.ErrNoLightSensor
}

// Close is a no-op
func (AbsentSensor) Close() error {
	return nil
}
