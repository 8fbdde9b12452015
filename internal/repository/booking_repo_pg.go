package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/krsingh2254/flightbooking/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error)
	SweepStuckPending(ctx context.Context, olderThan time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, flight_id, user_id, seats, total_cost_cents, status, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if booking.Seats <= 0 {
		return domain.NewError(domain.KindValidation, "number of seats must be positive", nil)
	}

	booking.Status = domain.BookingStatusPending
	if err := r.db.QueryRow(ctx, `INSERT INTO bookings (reference, flight_id, user_id, seats, total_cost_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`, booking.Reference, booking.FlightID, booking.UserID, booking.Seats, booking.TotalCostCents, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return domain.NewError(domain.KindStoreUnavailable, "failed to create booking", err)
	}

	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewError(domain.KindNotFound, "booking not found", err)
		}
		return nil, domain.NewError(domain.KindStoreUnavailable, "failed to load booking", err)
	}
	return b, nil
}

// UpdateStatus transitions a booking from one status to another. The prior
// status is part of the WHERE clause, so a booking that already left `from`
// is never clobbered and statuses only move forward.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 AND status=$3 RETURNING `+bookingColumns, to, id, from)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewError(domain.KindNotFound, "booking not found or already transitioned", err)
		}
		return nil, domain.NewError(domain.KindStoreUnavailable, "failed to update booking status", err)
	}
	return b, nil
}

// SweepStuckPending marks bookings that stayed PENDING past olderThan as
// FAILED and returns them for reconciliation.
func (r *PGBookingRepository) SweepStuckPending(ctx context.Context, olderThan time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE status=$2 AND updated_at <= $3 RETURNING `+bookingColumns, domain.BookingStatusFailed, domain.BookingStatusPending, olderThan)
	if err != nil {
		return nil, domain.NewError(domain.KindStoreUnavailable, "failed to sweep stuck bookings", err)
	}
	defer rows.Close()

	var swept []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.Reference, &b.FlightID, &b.UserID, &b.Seats, &b.TotalCostCents, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, domain.NewError(domain.KindStoreUnavailable, "failed to scan swept booking", err)
		}
		swept = append(swept, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewError(domain.KindStoreUnavailable, "failed to sweep stuck bookings", err)
	}
	return swept, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Reference, &b.FlightID, &b.UserID, &b.Seats, &b.TotalCostCents, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
