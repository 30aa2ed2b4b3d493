package model

import "time"

// Event types published on the booking events topic. Consumers key their
// behavior off these values, so they are part of the wire contract.
const (
	EventBookingCheckedIn  = "booking.checked_in"
	EventBookingCheckedOut = "booking.checked_out"
)

// BookingEvent is the payload published when a booking changes lifecycle
// state. It carries a full snapshot so consumers do not need to call back.
type BookingEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Booking    Booking   `json:"booking"`
}
