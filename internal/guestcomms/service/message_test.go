package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ciaohost/internal/guestcomms/repository"
	"ciaohost/internal/guestcomms/validator"
	"ciaohost/pkg/config"
	apperrors "ciaohost/pkg/errors"
	"ciaohost/pkg/logger"
	"ciaohost/pkg/model"
)

const (
	testBookingID  = "64b0c1d2e3f4a5b6c7d8e9aa"
	testPropertyID = "64b0c1d2e3f4a5b6c7d8e9f0"
)

type mockMessageRepository struct {
	created            []*model.Message
	createFunc         func(ctx context.Context, message *model.Message) error
	findByBookingFunc  func(ctx context.Context, bookingID string, limit int, offset int64) ([]*model.Message, error)
	countByBookingFunc func(ctx context.Context, bookingID string) (int64, error)
}

var _ repository.MessageRepository = (*mockMessageRepository)(nil)

func (m *mockMessageRepository) Create(ctx context.Context, message *model.Message) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, message)
	}
	m.created = append(m.created, message)
	return nil
}

func (m *mockMessageRepository) FindByBooking(ctx context.Context, bookingID string, limit int, offset int64) ([]*model.Message, error) {
	if m.findByBookingFunc != nil {
		return m.findByBookingFunc(ctx, bookingID, limit, offset)
	}
	return []*model.Message{}, nil
}

func (m *mockMessageRepository) CountByBooking(ctx context.Context, bookingID string) (int64, error) {
	if m.countByBookingFunc != nil {
		return m.countByBookingFunc(ctx, bookingID)
	}
	return 0, nil
}

type mockPropertyRegistry struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Property, error)
}

func (m *mockPropertyRegistry) GetByID(ctx context.Context, id string) (*model.Property, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Property{
		ID:        id,
		Name:      "Trastevere Loft",
		Address:   "Via della Scala 17",
		Bedrooms:  2,
		Bathrooms: 1,
		Amenities: []string{"WiFi"},
	}, nil
}

func testConfig(t *testing.T, language string) *config.Config {
	t.Helper()
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		DefaultCheckinTime:  "15:00",
		DefaultCheckoutTime: "11:00",
		DefaultLanguage:     language,
	}
}

func newTestService(t *testing.T, repo *mockMessageRepository, properties *mockPropertyRegistry, language string) MessageService {
	t.Helper()
	cfg := testConfig(t, language)
	return NewMessageService(repo, validator.NewMessageValidator(cfg.Log), properties, cfg)
}

func fixtureBooking() *model.Booking {
	return &model.Booking{
		ID:         testBookingID,
		PropertyID: testPropertyID,
		GuestName:  "Maria Bianchi",
		CheckIn:    time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, time.September, 8, 0, 0, 0, 0, time.UTC),
		Status:     model.StatusActive,
	}
}

func TestOnCheckIn_RecordsWelcomeMessage(t *testing.T) {
	repo := &mockMessageRepository{}
	svc := newTestService(t, repo, &mockPropertyRegistry{}, "english")

	if err := svc.OnCheckIn(context.Background(), fixtureBooking()); err != nil {
		t.Fatalf("OnCheckIn returned error: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 recorded message, got %d", len(repo.created))
	}
	msg := repo.created[0]
	if msg.BookingID != testBookingID {
		t.Errorf("unexpected booking id %q", msg.BookingID)
	}
	if msg.Subject != "Welcome to Trastevere Loft" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if msg.Language != "english" {
		t.Errorf("unexpected language %q", msg.Language)
	}
	if !strings.Contains(msg.Content, "Dear Maria Bianchi") {
		t.Errorf("welcome content missing greeting:\n%s", msg.Content)
	}
}

func TestOnCheckIn_ItalianDeployment(t *testing.T) {
	repo := &mockMessageRepository{}
	svc := newTestService(t, repo, &mockPropertyRegistry{}, "italian")

	if err := svc.OnCheckIn(context.Background(), fixtureBooking()); err != nil {
		t.Fatalf("OnCheckIn returned error: %v", err)
	}

	msg := repo.created[0]
	if msg.Subject != "Benvenuto a Trastevere Loft" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.Content, "Gentile Maria Bianchi") {
		t.Errorf("welcome content missing greeting:\n%s", msg.Content)
	}
}

func TestOnCheckIn_ItalianPhoneOverridesDefaultLanguage(t *testing.T) {
	repo := &mockMessageRepository{}
	svc := newTestService(t, repo, &mockPropertyRegistry{}, "english")

	booking := fixtureBooking()
	booking.GuestPhone = "+393331234567"
	if err := svc.OnCheckIn(context.Background(), booking); err != nil {
		t.Fatalf("OnCheckIn returned error: %v", err)
	}

	msg := repo.created[0]
	if msg.Language != "italian" {
		t.Errorf("unexpected language %q", msg.Language)
	}
	if msg.Subject != "Benvenuto a Trastevere Loft" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
}

func TestOnCheckIn_PropertyLookupFailure(t *testing.T) {
	repo := &mockMessageRepository{}
	properties := &mockPropertyRegistry{
		getByIDFunc: func(ctx context.Context, id string) (*model.Property, error) {
			return nil, apperrors.Unavailable("property service")
		},
	}
	svc := newTestService(t, repo, properties, "english")

	if err := svc.OnCheckIn(context.Background(), fixtureBooking()); err == nil {
		t.Fatal("expected error when property lookup fails")
	}
	if len(repo.created) != 0 {
		t.Errorf("no message should be recorded on lookup failure, got %d", len(repo.created))
	}
}

func TestOnCheckOut_RecordsInstructionsAndCleaningNotice(t *testing.T) {
	repo := &mockMessageRepository{}
	svc := newTestService(t, repo, &mockPropertyRegistry{}, "english")

	if err := svc.OnCheckOut(context.Background(), fixtureBooking()); err != nil {
		t.Fatalf("OnCheckOut returned error: %v", err)
	}

	if len(repo.created) != 2 {
		t.Fatalf("expected 2 recorded messages, got %d", len(repo.created))
	}

	instructions := repo.created[0]
	if instructions.Subject != "Checkout Instructions" {
		t.Errorf("unexpected subject %q", instructions.Subject)
	}
	if instructions.Language != "english" {
		t.Errorf("unexpected language %q", instructions.Language)
	}

	cleaning := repo.created[1]
	if cleaning.Subject != "Cleaning scheduled: Trastevere Loft" {
		t.Errorf("unexpected subject %q", cleaning.Subject)
	}
	if cleaning.Language != "" {
		t.Errorf("cleaning notice should not be localized, got %q", cleaning.Language)
	}
	if !strings.Contains(cleaning.Content, "3-night stay") {
		t.Errorf("cleaning notice missing stay length:\n%s", cleaning.Content)
	}
}

func TestRecord_ValidationFailure(t *testing.T) {
	repo := &mockMessageRepository{
		createFunc: func(ctx context.Context, message *model.Message) error {
			t.Fatal("repository should not be called for invalid input")
			return nil
		},
	}
	svc := newTestService(t, repo, &mockPropertyRegistry{}, "english")

	err := svc.Record(context.Background(), &model.Message{
		BookingID: testBookingID,
		Subject:   "",
		Content:   "hello",
	})
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHistory_EmptyBookingID(t *testing.T) {
	svc := newTestService(t, &mockMessageRepository{}, &mockPropertyRegistry{}, "english")

	_, _, err := svc.History(context.Background(), "", 10, 0)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestHistory_ParallelCountAndFind(t *testing.T) {
	repo := &mockMessageRepository{
		countByBookingFunc: func(ctx context.Context, bookingID string) (int64, error) {
			return 3, nil
		},
		findByBookingFunc: func(ctx context.Context, bookingID string, limit int, offset int64) ([]*model.Message, error) {
			return []*model.Message{{ID: "m1"}, {ID: "m2"}}, nil
		},
	}
	svc := newTestService(t, repo, &mockPropertyRegistry{}, "english")

	messages, total, err := svc.History(context.Background(), testBookingID, 10, 0)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(messages))
	}
}
