package email

import (
	"context"

	"github.com/krsingh2254/flightbooking/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers reminder emails for booking events. The transport is a
// stub; downstream consumers only depend on the event contract.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.Info("sending booking email",
		zap.String("type", event.Type),
		zap.String("user_id", event.UserID),
		zap.Int64("flight_id", event.FlightID),
		zap.Int("seats", event.Seats),
	)
	return nil
}
