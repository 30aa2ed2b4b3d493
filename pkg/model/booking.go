package model

import (
	"time"
)

const (
	StatusConfirmed = "confirmed"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PropertyID      string    `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	GuestName       string    `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=100"`
	GuestEmail      string    `json:"guest_email,omitempty" bson:"guest_email,omitempty" validate:"omitempty,email"`
	GuestPhone      string    `json:"guest_phone,omitempty" bson:"guest_phone,omitempty" validate:"omitempty,e164"`
	CheckIn         time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut        time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	GuestsCount     int       `json:"guests_count" bson:"guests_count" validate:"required,min=1"`
	PricePerNight   float64   `json:"price_per_night" bson:"price_per_night" validate:"gte=0"`
	CleaningFee     float64   `json:"cleaning_fee" bson:"cleaning_fee" validate:"gte=0"`
	TotalPrice      float64   `json:"total_price" bson:"total_price" validate:"gte=0"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=confirmed active completed cancelled"`
	SpecialRequests string    `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=2000"`

	CreatedAt           time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt           time.Time  `json:"updated_at,omitempty" bson:"updated_at,omitempty" validate:"omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CheckinCompletedAt  *time.Time `json:"checkin_completed_at,omitempty" bson:"checkin_completed_at,omitempty"`
	CheckoutCompletedAt *time.Time `json:"checkout_completed_at,omitempty" bson:"checkout_completed_at,omitempty"`

	// Warnings carries advisory conditions (such as a guest count above the
	// property capacity) back to the caller. Never persisted.
	Warnings []string `json:"warnings,omitempty" bson:"-"`
}

// Nights returns the length of the stay over the half-open
// [check_in, check_out) interval.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn) / (24 * time.Hour))
}

// IsTerminal reports whether the booking status permits no further
// transitions.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

type BookingUpdate struct {
	PropertyID      string     `json:"property_id,omitempty" validate:"omitempty,mongodb"`
	GuestName       string     `json:"guest_name,omitempty" validate:"omitempty,min=2,max=100"`
	GuestEmail      *string    `json:"guest_email,omitempty" validate:"omitempty"`
	GuestPhone      *string    `json:"guest_phone,omitempty" validate:"omitempty"`
	CheckIn         *time.Time `json:"check_in,omitempty" validate:"omitempty"`
	CheckOut        *time.Time `json:"check_out,omitempty" validate:"omitempty"`
	GuestsCount     *int       `json:"guests_count,omitempty" validate:"omitempty,min=1"`
	PricePerNight   *float64   `json:"price_per_night,omitempty" validate:"omitempty,gte=0"`
	CleaningFee     *float64   `json:"cleaning_fee,omitempty" validate:"omitempty,gte=0"`
	SpecialRequests *string    `json:"special_requests,omitempty" validate:"omitempty,max=2000"`
}

type BookingMetrics struct {
	TotalBookings     int     `json:"total_bookings"`
	ActiveBookings    int     `json:"active_bookings"`
	UpcomingBookings  int     `json:"upcoming_bookings"`
	PastBookings      int     `json:"past_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
	MonthlyRevenue    float64 `json:"monthly_revenue"`
	AverageStayLength float64 `json:"average_stay_length"`
}
