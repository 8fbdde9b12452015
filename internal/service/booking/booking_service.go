package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/krsingh2254/flightbooking/internal/domain"
	"github.com/krsingh2254/flightbooking/internal/inventory"
	"github.com/krsingh2254/flightbooking/internal/kafka"
	"github.com/krsingh2254/flightbooking/internal/repository"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingConfirmation, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	SweepStuckBookings(ctx context.Context) ([]domain.Booking, error)
}

// Locker serializes the fetch-persist-decrement sequence per flight.
type Locker interface {
	AcquireFlightLock(ctx context.Context, flightID int64, ttl time.Duration) (bool, error)
	ReleaseFlightLock(ctx context.Context, flightID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	FlightID int64  `json:"flight_id"`
	UserID   string `json:"user_id"`
	Seats    int    `json:"no_of_seats"`
}

// BookingConfirmation is the merged view of the finalized booking and the
// post-decrement flight snapshot.
type BookingConfirmation struct {
	Booking domain.Booking
	Flight  domain.FlightSnapshot
}

type BookingService struct {
	bookings           repository.BookingRepository
	inventory          inventory.FlightInventory
	locker             Locker
	producer           Producer
	logger             *zap.Logger
	notificationsTopic string
	lockTTL            time.Duration
	sweepMinAge        time.Duration
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(logger *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	inv inventory.FlightInventory,
	locker Locker,
	producer Producer,
	lockTTL, sweepMinAge time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		inventory:   inv,
		locker:      locker,
		producer:    producer,
		logger:      zap.NewNop(),
		lockTTL:     lockTTL,
		sweepMinAge: sweepMinAge,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking runs the booking workflow: validate, lock the flight, read
// the inventory snapshot, price and persist a PENDING record, write the
// decremented seat count back to the inventory service, then mark the record
// BOOKED. A failed decrement leaves the record behind as a FAILED audit row;
// a failed finalization after a successful decrement is surfaced with its own
// kind so operators can reconcile the lost seats.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingConfirmation, error) {
	if input.FlightID <= 0 {
		return nil, domain.NewError(domain.KindValidation, "flight id is required", nil)
	}
	if input.UserID == "" {
		return nil, domain.NewError(domain.KindValidation, "user id is required", nil)
	}
	if input.Seats <= 0 {
		return nil, domain.NewError(domain.KindValidation, "number of seats must be positive", nil)
	}

	if s.locker != nil {
		ok, err := s.locker.AcquireFlightLock(ctx, input.FlightID, s.lockTTL)
		if err != nil {
			return nil, domain.NewError(domain.KindStoreUnavailable, "could not lock flight for booking", err)
		}
		if !ok {
			return nil, domain.NewError(domain.KindFlightBusy, "flight is being booked by another request", nil)
		}
		defer func() {
			if err := s.locker.ReleaseFlightLock(context.WithoutCancel(ctx), input.FlightID); err != nil {
				s.logger.Warn("failed to release flight lock",
					zap.Int64("flight_id", input.FlightID),
					zap.Error(err),
				)
			}
		}()
	}

	snapshot, err := s.inventory.GetFlight(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if input.Seats > snapshot.AvailableSeats {
		return nil, domain.NewError(domain.KindInsufficientInventory, "insufficient seats on the flight", nil)
	}

	booking := &domain.Booking{
		Reference:      uuid.NewString(),
		FlightID:       input.FlightID,
		UserID:         input.UserID,
		Seats:          input.Seats,
		TotalCostCents: snapshot.PriceCents * int64(input.Seats),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		if domain.IsKind(err, domain.KindValidation) {
			return nil, err
		}
		return nil, domain.NewError(domain.KindPersistence, "failed to persist booking", err)
	}
	s.publish(ctx, "booking_created", booking)

	updatedFlight, err := s.inventory.SetAvailableSeats(ctx, input.FlightID, snapshot.AvailableSeats-input.Seats)
	if err != nil {
		s.markFailed(ctx, booking)
		return nil, domain.NewError(domain.KindInventoryUpdate, "failed to update flight inventory", err)
	}

	confirmed, err := s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusPending, domain.BookingStatusBooked)
	if err != nil {
		s.logger.Error("inventory decremented but booking confirmation failed, reconciliation required",
			zap.Int64("booking_id", booking.ID),
			zap.String("reference", booking.Reference),
			zap.Int64("flight_id", booking.FlightID),
			zap.Int("seats", booking.Seats),
			zap.Error(err),
		)
		return nil, domain.NewError(domain.KindFinalization, "inventory was updated but booking confirmation failed, manual reconciliation required", err)
	}
	s.publish(ctx, "booking_confirmed", confirmed)

	return &BookingConfirmation{Booking: *confirmed, Flight: *updatedFlight}, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// SweepStuckBookings marks bookings stuck in PENDING past the minimum age as
// FAILED. These are crash windows where even the inline FAILED mark was lost.
func (s *BookingService) SweepStuckBookings(ctx context.Context) ([]domain.Booking, error) {
	swept, err := s.bookings.SweepStuckPending(ctx, time.Now().Add(-s.sweepMinAge))
	if err != nil {
		return nil, err
	}
	for i := range swept {
		s.publish(ctx, "booking_failed", &swept[i])
	}
	return swept, nil
}

// markFailed is the best-effort compensation for a failed inventory update.
// The record is kept as an audit row, never deleted. The mark runs on a
// detached context so a timed-out request still resolves to a terminal state.
func (s *BookingService) markFailed(ctx context.Context, booking *domain.Booking) {
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	failed, err := s.bookings.UpdateStatus(markCtx, booking.ID, domain.BookingStatusPending, domain.BookingStatusFailed)
	if err != nil {
		s.logger.Error("failed to mark booking as FAILED, record remains PENDING",
			zap.Int64("booking_id", booking.ID),
			zap.String("reference", booking.Reference),
			zap.Error(err),
		)
		return
	}
	s.publish(markCtx, "booking_failed", failed)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:           eventType,
		Reference:      booking.Reference,
		BookingID:      booking.ID,
		FlightID:       booking.FlightID,
		UserID:         booking.UserID,
		Seats:          booking.Seats,
		TotalCostCents: booking.TotalCostCents,
		Status:         string(booking.Status),
		OccurredAt:     time.Now(),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("type", eventType),
			zap.String("reference", booking.Reference),
			zap.Error(err),
		)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
