package domain

// Stop represents a physical shuttle stop.
type Stop struct {
	ID   string
	Name string
}

// Shuttle represents a vehicle that drives a route during a shift.
type Shuttle struct {
	ID       string
	Name     string
	Capacity int
}

// Route represents a priced shuttle line.
// Fares are stored in cents so fare arithmetic stays exact.
type Route struct {
	ID              string
	Name            string
	BaseFareCents   int64
	PricePerKmCents int64
}

// RouteStop is a stop's position on a route. Immutable once created.
// StopOrder defines the direction of travel; DistanceKm is measured from the
// route origin and is expected to be non-decreasing with StopOrder on a
// well-formed route.
type RouteStop struct {
	ID         string
	RouteID    string
	StopID     string
	StopOrder  int
	DistanceKm float64
}
