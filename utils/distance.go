package utils

import (
	"fmt"
)

// PresentableDistance formats a track length for summary logging
func PresentableDistance(km float64) string {
	nm := km * NauticalMilesPerKilometer
	if km < 1 {
		return fmt.Sprintf("%.0f m", km*1000)
	}
	return fmt.Sprintf("%.1f nm (%.1f km)", nm, km)
}

// KnotsToKmh converts a speed over ground reported in knots
func KnotsToKmh(kt float64) float64 {
	return kt * KilometersPerNauticalMile
}
