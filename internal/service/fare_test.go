package service

import "testing"

func TestCalculateFare(t *testing.T) {
	t.Parallel()

	// Base fare 50 cents, 25 cents per km, per the campus loop tariff.
	testCases := []struct {
		name       string
		distanceKm float64
		want       int64
	}{
		{"zero distance charges base fare", 0.0, 50},
		{"0.8 km", 0.8, 70},
		{"1.5 km half cent rounds up", 1.5, 88},  // 87.5
		{"2.1 km half cent rounds up", 2.1, 103}, // 102.5
		{"1.3 km half cent rounds up", 1.3, 83},  // 82.5
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := CalculateFare(50, 25, tc.distanceKm)
			if got != tc.want {
				t.Errorf("CalculateFare(50, 25, %v) = %d, want %d", tc.distanceKm, got, tc.want)
			}
		})
	}
}

func TestCalculateFare_ZeroRate(t *testing.T) {
	t.Parallel()

	if got := CalculateFare(100, 0, 5.0); got != 100 {
		t.Errorf("expected flat fare 100, got %d", got)
	}
}

func TestTripDistance_IsAbsolute(t *testing.T) {
	t.Parallel()

	if d := TripDistance(0.8, 2.1); d != 1.3 {
		t.Errorf("expected forward distance 1.3, got %v", d)
	}
	if d := TripDistance(2.1, 0.8); d != 1.3 {
		t.Errorf("expected backward distance 1.3, got %v", d)
	}
}
