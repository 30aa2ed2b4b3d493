// Package consumer turns booking lifecycle events into guest messages.
package consumer

import (
	"context"
	"fmt"

	"ciaohost/internal/guestcomms/service"
	"ciaohost/pkg/kafka"
	"ciaohost/pkg/logger"
	"ciaohost/pkg/model"
)

// NewBookingEventHandler returns the handler wired into the booking
// events consumer. Decode failures are permanent: retrying a payload
// that does not parse can never succeed, so it goes straight to the DLQ.
// Unknown event types are skipped and committed; the topic may carry
// event kinds this service does not care about.
func NewBookingEventHandler(messages service.MessageService, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event model.BookingEvent
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError(fmt.Sprintf("malformed booking event: %v", err), err)
		}

		booking := event.Booking

		switch event.EventType {
		case model.EventBookingCheckedIn:
			if err := messages.OnCheckIn(ctx, &booking); err != nil {
				log.Error("Failed to handle check-in event",
					"booking_id", booking.ID, "error", err)
				return err
			}
			log.Info("Welcome message generated", "booking_id", booking.ID)
			return nil

		case model.EventBookingCheckedOut:
			if err := messages.OnCheckOut(ctx, &booking); err != nil {
				log.Error("Failed to handle check-out event",
					"booking_id", booking.ID, "error", err)
				return err
			}
			log.Info("Checkout instructions generated", "booking_id", booking.ID)
			return nil

		default:
			log.Warn("Skipping unhandled booking event",
				"event_type", event.EventType, "booking_id", booking.ID)
			return nil
		}
	}
}
