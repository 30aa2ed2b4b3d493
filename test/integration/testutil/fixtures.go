package testutil

import (
	"time"

	"ciaohost/pkg/model"
)

type PropertyBuilder struct {
	p model.Property
}

func NewPropertyBuilder() *PropertyBuilder {
	return &PropertyBuilder{
		p: model.Property{
			Name:          "Trastevere Loft",
			Address:       "Via della Scala 12",
			City:          "Rome",
			Bedrooms:      2,
			Bathrooms:     1,
			MaxGuests:     4,
			PricePerNight: 120,
			CleaningFee:   40,
			Amenities:     []string{"WiFi", "Air Conditioning"},
			Status:        model.PropertyStatusActive,
			CreatedAt:     time.Now(),
		},
	}
}

func (b *PropertyBuilder) WithName(name string) *PropertyBuilder {
	b.p.Name = name
	return b
}

func (b *PropertyBuilder) WithCity(city string) *PropertyBuilder {
	b.p.City = city
	return b
}

func (b *PropertyBuilder) WithMaxGuests(maxGuests int) *PropertyBuilder {
	b.p.MaxGuests = maxGuests
	return b
}

func (b *PropertyBuilder) WithPricePerNight(price float64) *PropertyBuilder {
	b.p.PricePerNight = price
	return b
}

func (b *PropertyBuilder) WithStatus(status string) *PropertyBuilder {
	b.p.Status = status
	return b
}

func (b *PropertyBuilder) Build() model.Property {
	return b.p
}

func (b *PropertyBuilder) BuildPtr() *model.Property {
	p := b.p
	return &p
}

type BookingBuilder struct {
	b model.Booking
}

func NewBookingBuilder(propertyID string) *BookingBuilder {
	checkIn := time.Now().Truncate(24 * time.Hour).Add(7 * 24 * time.Hour)
	return &BookingBuilder{
		b: model.Booking{
			PropertyID:    propertyID,
			GuestName:     "Maria Bianchi",
			GuestEmail:    "maria.bianchi@example.com",
			GuestPhone:    "+393331234567",
			CheckIn:       checkIn,
			CheckOut:      checkIn.Add(3 * 24 * time.Hour),
			GuestsCount:   2,
			PricePerNight: 120,
			CleaningFee:   40,
			TotalPrice:    400,
			Status:        model.StatusConfirmed,
			CreatedAt:     time.Now(),
		},
	}
}

func (bb *BookingBuilder) WithGuestName(name string) *BookingBuilder {
	bb.b.GuestName = name
	return bb
}

func (bb *BookingBuilder) WithStay(checkIn, checkOut time.Time) *BookingBuilder {
	bb.b.CheckIn = checkIn
	bb.b.CheckOut = checkOut
	return bb
}

func (bb *BookingBuilder) WithStatus(status string) *BookingBuilder {
	bb.b.Status = status
	return bb
}

func (bb *BookingBuilder) Build() model.Booking {
	return bb.b
}

func (bb *BookingBuilder) BuildPtr() *model.Booking {
	b := bb.b
	return &b
}

type MessageBuilder struct {
	m model.Message
}

func NewMessageBuilder(bookingID string) *MessageBuilder {
	return &MessageBuilder{
		m: model.Message{
			BookingID: bookingID,
			Subject:   "Welcome to Trastevere Loft",
			Content:   "Dear Maria Bianchi,\n\nWelcome!",
			Language:  "english",
		},
	}
}

func (mb *MessageBuilder) WithSubject(subject string) *MessageBuilder {
	mb.m.Subject = subject
	return mb
}

func (mb *MessageBuilder) WithDate(date time.Time) *MessageBuilder {
	mb.m.Date = date
	return mb
}

func (mb *MessageBuilder) BuildPtr() *model.Message {
	m := mb.m
	return &m
}
