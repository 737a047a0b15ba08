package domain

import (
	"fmt"
	"time"
)

type TravelType string

const (
	TravelTypeFlight TravelType = "Flight"
	TravelTypeTrain  TravelType = "Train"
	TravelTypeBus    TravelType = "Bus"
)

func (t TravelType) Valid() bool {
	switch t {
	case TravelTypeFlight, TravelTypeTrain, TravelTypeBus:
		return true
	}
	return false
}

type TravelOption struct {
	ID             string     `json:"id"`
	Type           TravelType `json:"type"`
	Source         string     `json:"source"`
	Destination    string     `json:"destination"`
	DepartureTime  time.Time  `json:"departure_time"`
	Price          Money      `json:"price"`
	TotalSeats     int        `json:"total_seats"`
	AvailableSeats int        `json:"available_seats"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (o TravelOption) String() string {
	return fmt.Sprintf("%s from %s to %s on %s", o.Type, o.Source, o.Destination, o.DepartureTime.Format(time.DateOnly))
}

// TravelOptionFilter narrows a listing. Empty fields match everything; the
// others are case-insensitive substring matches.
type TravelOptionFilter struct {
	Type        string `json:"type,omitempty"`
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
}

// InventoryDrift reports an option whose seat accounting does not add up:
// AvailableSeats plus the seats held by confirmed bookings should equal TotalSeats.
type InventoryDrift struct {
	TravelOptionID string `json:"travel_option_id"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
	ConfirmedSeats int    `json:"confirmed_seats"`
}

func (d InventoryDrift) Delta() int {
	return d.AvailableSeats + d.ConfirmedSeats - d.TotalSeats
}
