package kafka

import (
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
)

type BookingEvent struct {
	Type           string       `json:"type"`
	BookingID      string       `json:"booking_id"`
	UserID         int64        `json:"user_id"`
	TravelOptionID string       `json:"travel_option_id"`
	Seats          int          `json:"number_of_seats"`
	TotalPrice     domain.Money `json:"total_price"`
	Status         string       `json:"status"`
	OccurredAt     time.Time    `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *domain.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:           eventType,
		BookingID:      b.ID,
		UserID:         b.UserID,
		TravelOptionID: b.TravelOptionID,
		Seats:          b.Seats,
		TotalPrice:     b.TotalPrice,
		Status:         string(b.Status),
		OccurredAt:     at,
	}
}
