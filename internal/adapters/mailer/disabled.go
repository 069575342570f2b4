package mailer

import (
	"context"

	"github.com/rs/zerolog/log"

	"azurea_hotel/internal/domain"
)

// Disabled implements domain.Notifier for deployments without a mail
// relay (no MAILER_BASE_URL). Every send is logged and dropped.
type Disabled struct{}

func (Disabled) SendConfirmation(ctx context.Context, s domain.BookingSnapshot) error {
	drop("confirmation", s.BookingID)
	return nil
}

func (Disabled) SendRejection(ctx context.Context, s domain.BookingSnapshot, reason string) error {
	drop("rejection", s.BookingID)
	return nil
}

func drop(kind string, bookingID int64) {
	log.Info().
		Str("kind", kind).
		Int64("booking_id", bookingID).
		Msg("mail relay not configured, dropping message")
}
