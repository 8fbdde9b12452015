package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusFailed    BookingStatus = "FAILED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Terminal reports whether no further status transition is allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusBooked || s == BookingStatusFailed || s == BookingStatusCancelled
}

type Booking struct {
	ID             int64
	Reference      string
	FlightID       int64
	UserID         string
	Seats          int
	TotalCostCents int64
	Status         BookingStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
