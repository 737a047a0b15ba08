// Package audit records booking events consumed from Kafka as structured
// log lines, one per event.
package audit

import (
	"context"
	"fmt"

	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/logger"
)

type Recorder struct {
	log *logger.Logger
}

func NewRecorder(log *logger.Logger) *Recorder {
	return &Recorder{log: log.With("component", "booking-audit")}
}

func (r *Recorder) Record(ctx context.Context, event kafka.BookingEvent) error {
	switch event.Type {
	case kafka.EventBookingCreated, kafka.EventBookingCancelled:
	default:
		return fmt.Errorf("unknown booking event type %q", event.Type)
	}
	if event.BookingID == "" {
		return fmt.Errorf("booking event %q without booking id", event.Type)
	}

	r.log.InfoContext(ctx, "Booking event",
		"type", event.Type,
		"booking_id", event.BookingID,
		"user_id", event.UserID,
		"travel_option_id", event.TravelOptionID,
		"seats", event.Seats,
		"total_price", event.TotalPrice.String(),
		"status", event.Status,
		"occurred_at", event.OccurredAt,
	)
	return nil
}
