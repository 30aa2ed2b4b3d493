package model

import (
	"time"
)

// Message is one entry in the append-only guest communication log.
// Records are never mutated after creation.
type Message struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	BookingID string    `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	Date      time.Time `json:"date" bson:"date" validate:"omitempty"`
	Subject   string    `json:"subject" bson:"subject" validate:"required,min=2,max=200"`
	Content   string    `json:"content" bson:"content" validate:"required"`
	Language  string    `json:"language,omitempty" bson:"language,omitempty" validate:"omitempty,oneof=english italian"`
}
