package ports

import (
	"context"
	"errors"

	"github.com/quentinrf/brightness-tracker/internal/domain"
)

// LightSensor defines how to read light levels
// This is a PORT - adapters (GPIO, Mock) will implement it
type LightSensor interface {
	// ReadLux returns current light level in lux.
	// domain.ErrNoLightSensor means the hardware is missing altogether;
	// any other error is a one-off failed reading.
	ReadLux(ctx context.Context) (float64, error)

	// Close releases any resources
	Close() error
}

// ProbeSensor checks that a light sensor is present before a session starts
func ProbeSensor(ctx context.Context, sensor LightSensor) error {
	if sensor == nil {
		return domain.ErrNoLightSensor
	}
	if _, err := sensor.ReadLux(ctx); errors.Is(err, domain.ErrNoLightSensor) {
		return err
	}
	return nil
}
