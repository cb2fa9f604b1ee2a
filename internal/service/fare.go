package service

import "math"

// CalculateFare computes the fare in cents for a distance travelled along a
// route: base fare plus distance times the per-km rate, rounded half away
// from zero on the cent total. Working in cents keeps the half-cent cases
// exact (87.5 rounds to 88, 102.5 to 103).
func CalculateFare(baseFareCents, pricePerKmCents int64, distanceKm float64) int64 {
	raw := float64(baseFareCents) + distanceKm*float64(pricePerKmCents)
	return int64(math.Round(raw))
}

// TripDistance returns the distance travelled between two stops on a route.
// The absolute value tolerates routes whose stop ordering runs against
// increasing distance.
func TripDistance(onKm, offKm float64) float64 {
	return math.Abs(offKm - onKm)
}
