package domain

import (
	"math"
	"strconv"
	"strings"
)

const (
	// InvalidBrightness is the sentinel sample meaning "no valid reading"
	InvalidBrightness = -1.0

	// NoThreshold is the sentinel threshold meaning "crossing detection disabled"
	NoThreshold = -1

	// DefaultThreshold applies when nothing has been stored yet
	DefaultThreshold = 100
)

// IsValidBrightness reports whether a sample is a real reading.
// Any negative value is treated like the sentinel.
func IsValidBrightness(lux float64) bool {
	return lux >= 0 && !math.IsNaN(lux)
}

// IsThresholdSet reports whether crossing detection is enabled for t
func IsThresholdSet(t int) bool {
	return t >= 0
}

// RoundBrightness truncates a raw sample toward zero to one fractional digit.
// The sentinel stays negative, so it stays invalid.
func RoundBrightness(lux float64) float64 {
	if math.IsNaN(lux) {
		return InvalidBrightness
	}
	return math.Trunc(lux*10) / 10
}

// FormatLux renders a lux value the way it appears in log lines:
// shortest decimal form, always with a fractional part (80 -> "80.0").
func FormatLux(lux float64) string {
	s := strconv.FormatFloat(lux, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
