package validator

import (
	"testing"
	"time"

	"ciaohost/pkg/logger"
	"ciaohost/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func baseBooking() *model.Booking {
	return &model.Booking{
		PropertyID:  "64b0c1d2e3f4a5b6c7d8e9f0",
		GuestName:   "Ada Lovelace",
		GuestEmail:  "ada@example.com",
		CheckIn:     time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
		GuestsCount: 2,
		Status:      model.StatusConfirmed,
	}
}

func TestValidate(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		name    string
		mutate  func(b *model.Booking)
		wantErr bool
	}{
		{"valid booking", func(b *model.Booking) {}, false},
		{"missing property", func(b *model.Booking) { b.PropertyID = "" }, true},
		{"malformed property id", func(b *model.Booking) { b.PropertyID = "not-an-object-id" }, true},
		{"missing guest name", func(b *model.Booking) { b.GuestName = "" }, true},
		{"single character guest name", func(b *model.Booking) { b.GuestName = "A" }, true},
		{"invalid email", func(b *model.Booking) { b.GuestEmail = "not-an-email" }, true},
		{"no email is fine", func(b *model.Booking) { b.GuestEmail = "" }, false},
		{"valid e164 phone", func(b *model.Booking) { b.GuestPhone = "+393401234567" }, false},
		{"invalid phone", func(b *model.Booking) { b.GuestPhone = "12345" }, true},
		{"checkout before checkin", func(b *model.Booking) {
			b.CheckOut = b.CheckIn.Add(-24 * time.Hour)
		}, true},
		{"checkout equals checkin", func(b *model.Booking) { b.CheckOut = b.CheckIn }, true},
		{"stay shorter than a night", func(b *model.Booking) {
			b.CheckOut = b.CheckIn.Add(6 * time.Hour)
		}, true},
		{"zero guests", func(b *model.Booking) { b.GuestsCount = 0 }, true},
		{"negative price", func(b *model.Booking) { b.PricePerNight = -1 }, true},
		{"unknown status", func(b *model.Booking) { b.Status = "pending" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := baseBooking()
			tt.mutate(b)

			err := v.Validate(b)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewBookingValidator(testLogger())

	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
	reversed := checkIn.Add(-24 * time.Hour)
	zero := 0

	tests := []struct {
		name    string
		update  *model.BookingUpdate
		wantErr bool
	}{
		{"empty update", &model.BookingUpdate{}, false},
		{"date range", &model.BookingUpdate{CheckIn: &checkIn, CheckOut: &checkOut}, false},
		{"reversed date range", &model.BookingUpdate{CheckIn: &checkIn, CheckOut: &reversed}, true},
		{"zero guests", &model.BookingUpdate{GuestsCount: &zero}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpdate(tt.update)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
