package model

import "math"

// sqmmPerSquareMeter is the number of square millimeters in one square meter.
const sqmmPerSquareMeter = 1_000_000

// Round2 rounds half-up to two decimals. Every duration and cost stored on a
// component or product goes through it.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// SquareMeters converts an area in mm² to m².
func SquareMeters(areaMM2 float64) float64 {
	return areaMM2 / sqmmPerSquareMeter
}

// Progress returns the share of completed statuses as a percentage.
// An empty list has progress 0.
func Progress(statuses []Status) float64 {
	if len(statuses) == 0 {
		return 0
	}
	done := 0
	for _, s := range statuses {
		if s == StatusCompleted {
			done++
		}
	}
	return float64(done) / float64(len(statuses)) * 100
}
