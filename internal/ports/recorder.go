package ports

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/brightness-tracker/internal/domain"
)

// SampleConsumer receives raw brightness samples
type SampleConsumer interface {
	Brightness(lux float64)
}

// Recorder polls a LightSensor at a fixed interval and forwards each sample
type Recorder struct {
	sensor   LightSensor
	consumer SampleConsumer
	interval time.Duration
}

// NewRecorder creates a Recorder; call Start to run it
func NewRecorder(sensor LightSensor, consumer SampleConsumer, interval time.Duration) *Recorder {
	return &Recorder{
		sensor:   sensor,
		consumer: consumer,
		interval: interval,
	}
}

// Start samples once immediately, then on every tick until ctx is done
func (r *Recorder) Start(ctx context.Context) {
	log.Info().
		Dur("interval", r.interval).
		Msg("sample recorder running")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.recordOnce(ctx)

	for {
		select {
		case <-ticker.C:
			r.recordOnce(ctx)

		case <-ctx.Done():
			log.Info().Msg("sample recorder stopped")
			return
		}
	}
}

// recordOnce reads the sensor; a failed read becomes the invalid sample so
// the detector drops its reference value
func (r *Recorder) recordOnce(ctx context.Context) {
	lux, err := r.sensor.ReadLux(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("sensor read failed, reporting no reading")
		lux = domain.InvalidBrightness
	}

	log.Debug().Float64("lux", lux).Msg("brightness sample")
	r.consumer.Brightness(lux)
}
