package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

type Booking struct {
	ID             string        `json:"booking_id"`
	UserID         int64         `json:"user_id"`
	TravelOptionID string        `json:"travel_option_id"`
	Seats          int           `json:"number_of_seats"`
	TotalPrice     Money         `json:"total_price"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"booking_date"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Cancellable reports whether the booking may move to Cancelled.
func (b *Booking) Cancellable() bool {
	return b.Status == BookingStatusConfirmed
}
