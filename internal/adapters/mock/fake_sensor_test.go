package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/quentinrf/brightness-tracker/internal/domain"
)

func TestFakeSensor_Range(t *testing.T) {
	sensor := NewFakeSensor(500, 100)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		lux, err := sensor.ReadLux(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lux < 400 || lux > 600 {
			t.Fatalf("lux %v outside 400-600", lux)
		}
	}
}

func TestFakeSensor_NeverNegative(t *testing.T) {
	sensor := NewFakeSensor(0, 50)
	for i := 0; i < 100; i++ {
		lux, _ := sensor.ReadLux(context.Background())
		if lux < 0 {
			t.Fatalf("got negative lux %v", lux)
		}
	}
}

func TestFakeSensor_FullDropout(t *testing.T) {
	sensor := NewFakeSensor(500, 0).WithDropout(1)

	_, err := sensor.ReadLux(context.Background())
	if !errors.Is(err, domain.ErrSensorUnavailable) {
		t.Errorf("expected ErrSensorUnavailable, got %v", err)
	}
}

func TestScriptedSensor(t *testing.T) {
	sensor := NewScriptedSensor(80, -1, 120)
	ctx := context.Background()

	want := []struct {
		lux     float64
		wantErr bool
	}{
		{lux: 80},
		{lux: domain.InvalidBrightness, wantErr: true},
		{lux: 120},
		{lux: 120},
	}

	for i, w := range want {
		lux, err := sensor.ReadLux(ctx)
		if (err != nil) != w.wantErr {
			t.Fatalf("read %d: unexpected error state %v", i, err)
		}
		if lux != w.lux {
			t.Errorf("read %d: got %v, want %v", i, lux, w.lux)
		}
	}
}

func TestAbsentSensor(t *testing.T) {
	_, err := AbsentSensor{}.ReadLux(context.Background())
	if !errors.Is(err, domain.ErrNoLightSensor) {
		t.Errorf("expected ErrNoLightSensor, got %v", err)
	}
}
