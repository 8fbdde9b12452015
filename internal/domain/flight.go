package domain

// FlightSnapshot is a point-in-time read of a flight from the remote
// inventory service. It is never cached across requests.
type FlightSnapshot struct {
	FlightID       int64
	PriceCents     int64
	TotalSeats     int
	AvailableSeats int
}
