package service

import (
	"context"
	"strings"
	"sync"

	"ciaohost/internal/guestcomms/repository"
	"ciaohost/internal/guestcomms/templates"
	"ciaohost/internal/guestcomms/validator"
	"ciaohost/pkg/config"
	apperrors "ciaohost/pkg/errors"
	"ciaohost/pkg/locale"
	"ciaohost/pkg/model"
	"ciaohost/pkg/sanitizer"
)

// PropertyRegistry supplies the property details needed to render guest
// messages. Implemented by the properties service HTTP client.
type PropertyRegistry interface {
	GetByID(ctx context.Context, id string) (*model.Property, error)
}

type MessageService interface {
	Record(ctx context.Context, message *model.Message) error
	History(ctx context.Context, bookingID string, limit int, offset int64) ([]*model.Message, int64, error)
	OnCheckIn(ctx context.Context, booking *model.Booking) error
	OnCheckOut(ctx context.Context, booking *model.Booking) error
}

type messageService struct {
	repo       repository.MessageRepository
	validator  *validator.MessageValidator
	properties PropertyRegistry
	cfg        *config.Config
}

func NewMessageService(
	repo repository.MessageRepository,
	validator *validator.MessageValidator,
	properties PropertyRegistry,
	cfg *config.Config,
) MessageService {
	return &messageService{
		repo:       repo,
		validator:  validator,
		properties: properties,
		cfg:        cfg,
	}
}

// Record appends a message to a booking's history. The content keeps
// its line structure; only outer whitespace is trimmed.
func (s *messageService) Record(ctx context.Context, message *model.Message) error {
	message.Subject = sanitizer.TrimAndNormalize(message.Subject)
	message.Content = strings.TrimSpace(message.Content)

	if err := s.validator.Validate(message); err != nil {
		s.cfg.Log.Warn("Message validation failed", "error", err)
		return apperrors.Validation("Message validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, message); err != nil {
		s.cfg.Log.Error("Failed to record message", "booking_id", message.BookingID, "error", err)
		return apperrors.Internal("Failed to record message", err)
	}

	s.cfg.Log.Info("Message recorded", "booking_id", message.BookingID, "subject", message.Subject)
	return nil
}

func (s *messageService) History(ctx context.Context, bookingID string, limit int, offset int64) ([]*model.Message, int64, error) {
	if bookingID == "" {
		return nil, 0, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var count int64
	var messages []*model.Message
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByBooking(ctx, bookingID)
		if err != nil {
			s.cfg.Log.Error("Failed to count messages", "booking_id", bookingID, "error", err)
			errCount = apperrors.Internal("Failed to count messages", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		messages, err = s.repo.FindByBooking(ctx, bookingID, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to load message history", "booking_id", bookingID, "error", err)
			errFind = apperrors.Internal("Failed to retrieve message history", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return messages, count, nil
}

// OnCheckIn renders and records the welcome message for a booking that
// just checked in.
func (s *messageService) OnCheckIn(ctx context.Context, booking *model.Booking) error {
	property, err := s.properties.GetByID(ctx, booking.PropertyID)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve property for welcome message",
			"booking_id", booking.ID, "property_id", booking.PropertyID, "error", err)
		return err
	}

	language := s.guestLanguage(booking)
	subject, content := templates.WelcomeMessage(booking, property, language, s.stayTimes())

	return s.Record(ctx, &model.Message{
		BookingID: booking.ID,
		Subject:   subject,
		Content:   content,
		Language:  language,
	})
}

// OnCheckOut records the checkout instructions for the guest plus an
// internal cleaning notice for the turnover.
func (s *messageService) OnCheckOut(ctx context.Context, booking *model.Booking) error {
	property, err := s.properties.GetByID(ctx, booking.PropertyID)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve property for checkout instructions",
			"booking_id", booking.ID, "property_id", booking.PropertyID, "error", err)
		return err
	}

	language := s.guestLanguage(booking)
	subject, content := templates.CheckoutInstructions(booking, property, language, s.stayTimes())
	if err := s.Record(ctx, &model.Message{
		BookingID: booking.ID,
		Subject:   subject,
		Content:   content,
		Language:  language,
	}); err != nil {
		return err
	}

	cleaningSubject, cleaningContent := templates.CleaningNotice(booking, property)
	return s.Record(ctx, &model.Message{
		BookingID: booking.ID,
		Subject:   cleaningSubject,
		Content:   cleaningContent,
	})
}

// guestLanguage prefers the language implied by the guest's phone
// country prefix over the deployment default.
func (s *messageService) guestLanguage(booking *model.Booking) string {
	return locale.InferLanguageFromPhone(booking.GuestPhone, s.cfg.DefaultLanguage)
}

func (s *messageService) stayTimes() templates.StayTimes {
	return templates.StayTimes{
		CheckinTime:  s.cfg.DefaultCheckinTime,
		CheckoutTime: s.cfg.DefaultCheckoutTime,
	}
}
