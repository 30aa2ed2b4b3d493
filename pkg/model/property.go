package model

import (
	"time"
)

const (
	PropertyStatusActive   = "active"
	PropertyStatusInactive = "inactive"
)

type Property struct {
	ID            string   `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name          string   `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address       string   `json:"address" bson:"address" validate:"required,min=2,max=200"`
	City          string   `json:"city" bson:"city" validate:"required,min=2,max=100"`
	Bedrooms      int      `json:"bedrooms" bson:"bedrooms" validate:"gte=0"`
	Bathrooms     int      `json:"bathrooms" bson:"bathrooms" validate:"gte=0"`
	MaxGuests     int      `json:"max_guests" bson:"max_guests" validate:"required,min=1"`
	PricePerNight float64  `json:"price_per_night" bson:"price_per_night" validate:"gte=0"`
	CleaningFee   float64  `json:"cleaning_fee" bson:"cleaning_fee" validate:"gte=0"`
	Amenities     []string `json:"amenities,omitempty" bson:"amenities,omitempty"`
	Description   string   `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Status        string   `json:"status" bson:"status" validate:"required,oneof=active inactive"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty" validate:"omitempty"`
}

type PropertyUpdate struct {
	Name          string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Address       string    `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
	City          string    `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
	Bedrooms      *int      `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms     *int      `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	MaxGuests     *int      `json:"max_guests,omitempty" validate:"omitempty,min=1"`
	PricePerNight *float64  `json:"price_per_night,omitempty" validate:"omitempty,gte=0"`
	CleaningFee   *float64  `json:"cleaning_fee,omitempty" validate:"omitempty,gte=0"`
	Amenities     *[]string `json:"amenities,omitempty"`
	Description   *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type PropertyOccupancy struct {
	Name          string  `json:"name"`
	OccupancyRate float64 `json:"occupancy_rate"`
	TotalBookings int     `json:"total_bookings"`
}

type PropertyMetrics struct {
	TotalProperties int     `json:"total_properties"`
	AveragePrice    float64 `json:"average_price"`

	// Size buckets by bedroom count: small <=1, medium 2-3, large >3.
	SmallProperties  int `json:"small_properties"`
	MediumProperties int `json:"medium_properties"`
	LargeProperties  int `json:"large_properties"`

	Occupancy map[string]PropertyOccupancy `json:"property_occupancy,omitempty"`
}
