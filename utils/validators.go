// File: /utils/validators.go
package utils

import (
	"regexp"
)

var plateRegex = regexp.MustCompile(`(?i)^[A-Z0-9][A-Z0-9 \-]{1,15}$`)

// IsValidPlate reports whether a provider device name looks like a plate
// number worth matching against the fleet
func IsValidPlate(plate string) bool {
	return plateRegex.MatchString(plate)
}

func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func IsValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

func IsValidCoordinate(lat, lng float64) bool {
	return IsValidLatitude(lat) && IsValidLongitude(lng)
}

// IsValidRadius bounds fence circle radii to something a warehouse or yard
// perimeter could plausibly use (meters)
func IsValidRadius(radius float64) bool {
	return radius > 0 && radius <= 100000
}
