package domain

import (
	"math"
	"testing"
)

func TestRoundBrightness(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "already one digit", in: 120.5, want: 120.5},
		{name: "truncates extra digits", in: 57.89, want: 57.8},
		{name: "whole number", in: 80, want: 80},
		{name: "below one tenth", in: 0.05, want: 0},
		{name: "sentinel stays invalid", in: InvalidBrightness, want: -1},
		{name: "NaN becomes sentinel", in: math.NaN(), want: InvalidBrightness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundBrightness(tt.in); got != tt.want {
				t.Errorf("RoundBrightness(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsValidBrightness(t *testing.T) {
	tests := []struct {
		lux  float64
		want bool
	}{
		{lux: 0, want: true},
		{lux: 500, want: true},
		{lux: InvalidBrightness, want: false},
		{lux: -0.1, want: false},
		{lux: math.NaN(), want: false},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			if got := IsValidBrightness(tt.lux); got != tt.want {
				t.Errorf("IsValidBrightness(%v) = %v, want %v", tt.lux, got, tt.want)
			}
		})
	}
}

func TestFormatLux(t *testing.T) {
	tests := []struct {
		lux  float64
		want string
	}{
		{lux: 80, want: "80.0"},
		{lux: 0, want: "0.0"},
		{lux: 120.5, want: "120.5"},
		{lux: 57.8, want: "57.8"},
		{lux: 1000, want: "1000.0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatLux(tt.lux); got != tt.want {
				t.Errorf("FormatLux(%v) = %q, want %q", tt.lux, got, tt.want)
			}
		})
	}
}
