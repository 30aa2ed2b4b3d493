package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	bookingserrors "ciaohost/internal/bookings/errors"
	"ciaohost/internal/bookings/repository"
	"ciaohost/internal/bookings/validator"
	"ciaohost/pkg/config"
	mongotx "ciaohost/pkg/db/mongo"
	apperrors "ciaohost/pkg/errors"
	"ciaohost/pkg/logger"
	"ciaohost/pkg/model"
	"ciaohost/pkg/sealer"

	"go.mongodb.org/mongo-driver/mongo"
)

const testPropertyID = "64b0c1d2e3f4a5b6c7d8e9f0"

// Mock repository for testing
type mockBookingRepository struct {
	createFunc            func(ctx context.Context, booking *model.Booking) error
	findByIDFunc          func(ctx context.Context, id string) (*model.Booking, error)
	findAllFunc           func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	findAllForMetricsFunc func(ctx context.Context) ([]*model.Booking, error)
	updateFunc            func(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error)
	findOverlappingFunc   func(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]*model.Booking, error)
	findByPropertyFunc    func(ctx context.Context, propertyID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, error)
	countByPropertyFunc   func(ctx context.Context, propertyID string, from, to *time.Time) (int64, error)
	countFunc             func(ctx context.Context) (int64, error)
}

var _ repository.BookingRepository = (*mockBookingRepository)(nil)

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "64b0c1d2e3f4a5b6c7d8e9aa"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("findByIDFunc not set")
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindAllForMetrics(ctx context.Context) ([]*model.Booking, error) {
	if m.findAllForMetricsFunc != nil {
		return m.findAllForMetricsFunc(ctx)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, booking)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, propertyID, checkIn, checkOut)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByProperty(ctx context.Context, propertyID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByPropertyFunc != nil {
		return m.findByPropertyFunc(ctx, propertyID, from, to, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByProperty(ctx context.Context, propertyID string, from, to *time.Time) (int64, error) {
	if m.countByPropertyFunc != nil {
		return m.countByPropertyFunc(ctx, propertyID, from, to)
	}
	return 0, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.PropertyLock) (*model.PropertyLock, error)
	deleteFunc func(ctx context.Context, lockID string) error
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.PropertyLock) (*model.PropertyLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, lockID)
	}
	return nil
}

type mockPropertyRegistry struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Property, error)
}

func (m *mockPropertyRegistry) GetByID(ctx context.Context, id string) (*model.Property, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Property{
		ID:            id,
		Name:          "Trastevere Loft",
		MaxGuests:     4,
		PricePerNight: 100,
		CleaningFee:   50,
		Status:        model.PropertyStatusActive,
	}, nil
}

type mockEventPublisher struct {
	published []string
	err       error
}

func (m *mockEventPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) error {
	m.published = append(m.published, eventType)
	return m.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
		PropertyLockTTL: 10 * time.Second,
	}
}

func newTestService(t *testing.T, repo *mockBookingRepository, cfg *config.Config) *bookingService {
	t.Helper()
	if cfg == nil {
		cfg = testConfig(t)
	}
	return &bookingService{
		repo:       repo,
		lockRepo:   &mockLockRepository{},
		validator:  validator.NewBookingValidator(cfg.Log),
		properties: &mockPropertyRegistry{},
		cfg:        cfg,
	}
}

func day(d int) time.Time {
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

func validBooking(checkIn, checkOut time.Time) *model.Booking {
	return &model.Booking{
		PropertyID:  testPropertyID,
		GuestName:   "Ada Lovelace",
		GuestEmail:  "ada@example.com",
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		GuestsCount: 2,
	}
}

// filterOverlapping mirrors the repository query: non-cancelled bookings
// for the property whose half-open interval intersects the requested one.
func filterOverlapping(fixtures []*model.Booking, propertyID string, checkIn, checkOut time.Time) []*model.Booking {
	var result []*model.Booking
	for _, b := range fixtures {
		if b.PropertyID != propertyID || b.Status == model.StatusCancelled {
			continue
		}
		if b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
			result = append(result, b)
		}
	}
	return result
}

func fixtureRepo(fixtures []*model.Booking) *mockBookingRepository {
	return &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
			return filterOverlapping(fixtures, propertyID, checkIn, checkOut), nil
		},
	}
}

func TestCreate_FreezesPricingAndDefaultsStatus(t *testing.T) {
	svc := newTestService(t, fixtureRepo(nil), nil)

	booking := validBooking(day(10), day(13))
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected status %q, got %q", model.StatusConfirmed, booking.Status)
	}
	if booking.PricePerNight != 100 || booking.CleaningFee != 50 {
		t.Errorf("expected pricing frozen from property (100/50), got %v/%v", booking.PricePerNight, booking.CleaningFee)
	}
	// 3 nights at 100 plus the 50 cleaning fee
	if booking.TotalPrice != 350 {
		t.Errorf("expected total price 350, got %v", booking.TotalPrice)
	}
	if booking.ID == "" {
		t.Error("expected booking ID to be assigned")
	}
}

func TestCreate_DiscardsCallerLifecycleState(t *testing.T) {
	svc := newTestService(t, fixtureRepo(nil), nil)

	moment := day(9)
	booking := validBooking(day(10), day(13))
	booking.Status = model.StatusCompleted
	booking.CancelledAt = &moment
	booking.CheckinCompletedAt = &moment
	booking.CheckoutCompletedAt = &moment

	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected status %q, got %q", model.StatusConfirmed, booking.Status)
	}
	if booking.CancelledAt != nil || booking.CheckinCompletedAt != nil || booking.CheckoutCompletedAt != nil {
		t.Error("expected lifecycle timestamps to be cleared on create")
	}
}

func TestCreate_GuestsCount(t *testing.T) {
	t.Run("absent count defaults to one guest", func(t *testing.T) {
		svc := newTestService(t, fixtureRepo(nil), nil)

		booking := validBooking(day(10), day(13))
		booking.GuestsCount = 0
		if err := svc.Create(context.Background(), booking); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.GuestsCount != 1 {
			t.Errorf("expected guests count 1, got %d", booking.GuestsCount)
		}
	})

	t.Run("negative count rejected", func(t *testing.T) {
		svc := newTestService(t, fixtureRepo(nil), nil)

		booking := validBooking(day(10), day(13))
		booking.GuestsCount = -2
		err := svc.Create(context.Background(), booking)
		if err == nil {
			t.Fatal("expected validation error, got nil")
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
			t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
		}
	})
}

func TestCreate_RejectsOverlap(t *testing.T) {
	existing := &model.Booking{
		ID:         "64b0c1d2e3f4a5b6c7d8e901",
		PropertyID: testPropertyID,
		Status:     model.StatusConfirmed,
		CheckIn:    day(10),
		CheckOut:   day(14),
	}
	svc := newTestService(t, fixtureRepo([]*model.Booking{existing}), nil)

	err := svc.Create(context.Background(), validBooking(day(12), day(16)))
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}

	ids, ok := appErr.Details["conflicting_booking_ids"].([]string)
	if !ok || len(ids) != 1 || ids[0] != existing.ID {
		t.Errorf("expected conflicting booking IDs [%s], got %v", existing.ID, appErr.Details["conflicting_booking_ids"])
	}
}

func TestCreate_AllowsBackToBackStays(t *testing.T) {
	existing := &model.Booking{
		ID:         "64b0c1d2e3f4a5b6c7d8e901",
		PropertyID: testPropertyID,
		Status:     model.StatusConfirmed,
		CheckIn:    day(10),
		CheckOut:   day(13),
	}
	svc := newTestService(t, fixtureRepo([]*model.Booking{existing}), nil)

	// New stay starts exactly on the existing check-out day.
	if err := svc.Create(context.Background(), validBooking(day(13), day(16))); err != nil {
		t.Fatalf("back-to-back booking should be allowed, got: %v", err)
	}
}

func TestCreate_CancelledBookingFreesDates(t *testing.T) {
	cancelled := &model.Booking{
		ID:         "64b0c1d2e3f4a5b6c7d8e901",
		PropertyID: testPropertyID,
		Status:     model.StatusCancelled,
		CheckIn:    day(10),
		CheckOut:   day(14),
	}
	svc := newTestService(t, fixtureRepo([]*model.Booking{cancelled}), nil)

	if err := svc.Create(context.Background(), validBooking(day(11), day(13))); err != nil {
		t.Fatalf("cancelled bookings should not block the dates, got: %v", err)
	}
}

func TestCreate_GuestsOverCapacity(t *testing.T) {
	t.Run("warns by default", func(t *testing.T) {
		svc := newTestService(t, fixtureRepo(nil), nil)

		booking := validBooking(day(10), day(12))
		booking.GuestsCount = 7
		if err := svc.Create(context.Background(), booking); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(booking.Warnings) != 1 {
			t.Fatalf("expected 1 warning, got %d", len(booking.Warnings))
		}
	})

	t.Run("blocks when enforcement enabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.EnforceMaxGuests = true
		svc := newTestService(t, fixtureRepo(nil), cfg)

		booking := validBooking(day(10), day(12))
		booking.GuestsCount = 7
		err := svc.Create(context.Background(), booking)
		if err == nil {
			t.Fatal("expected validation error, got nil")
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
			t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
		}
	})
}

func TestCreate_InactivePropertyRejected(t *testing.T) {
	svc := newTestService(t, fixtureRepo(nil), nil)
	svc.properties = &mockPropertyRegistry{
		getByIDFunc: func(ctx context.Context, id string) (*model.Property, error) {
			return &model.Property{
				ID:        id,
				MaxGuests: 4,
				Status:    model.PropertyStatusInactive,
			}, nil
		},
	}

	err := svc.Create(context.Background(), validBooking(day(10), day(12)))
	if err == nil {
		t.Fatal("expected conflict error for inactive property, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestCreate_PropertyLockHeld(t *testing.T) {
	svc := newTestService(t, fixtureRepo(nil), nil)
	svc.lockRepo = &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.PropertyLock) (*model.PropertyLock, error) {
			return nil, mongo.WriteException{
				WriteErrors: mongo.WriteErrors{{Code: 11000}},
			}
		},
	}

	err := svc.Create(context.Background(), validBooking(day(10), day(12)))
	if err == nil {
		t.Fatal("expected conflict error while lock is held, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestCheckAvailability(t *testing.T) {
	existing := &model.Booking{
		ID:         "64b0c1d2e3f4a5b6c7d8e901",
		PropertyID: testPropertyID,
		Status:     model.StatusConfirmed,
		CheckIn:    day(10),
		CheckOut:   day(14),
	}
	svc := newTestService(t, fixtureRepo([]*model.Booking{existing}), nil)

	tests := []struct {
		name          string
		checkIn       time.Time
		checkOut      time.Time
		wantAvailable bool
		wantConflicts int
	}{
		{"free interval", day(20), day(22), true, 0},
		{"overlapping interval", day(12), day(16), false, 1},
		{"contained interval", day(11), day(12), false, 1},
		{"adjacent after checkout", day(14), day(16), true, 0},
		{"adjacent before checkin", day(8), day(10), true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			available, conflicting, err := svc.CheckAvailability(context.Background(), testPropertyID, tt.checkIn, tt.checkOut)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if available != tt.wantAvailable {
				t.Errorf("expected available=%v, got %v", tt.wantAvailable, available)
			}
			if len(conflicting) != tt.wantConflicts {
				t.Errorf("expected %d conflicting IDs, got %d", tt.wantConflicts, len(conflicting))
			}

			// Availability is a read; asking again must answer the same.
			again, conflictingAgain, err := svc.CheckAvailability(context.Background(), testPropertyID, tt.checkIn, tt.checkOut)
			if err != nil {
				t.Fatalf("unexpected error on repeated call: %v", err)
			}
			if again != available || len(conflictingAgain) != len(conflicting) {
				t.Errorf("repeated call diverged: available %v vs %v, conflicts %d vs %d",
					available, again, len(conflicting), len(conflictingAgain))
			}
		})
	}

	t.Run("reversed interval rejected", func(t *testing.T) {
		_, _, err := svc.CheckAvailability(context.Background(), testPropertyID, day(16), day(12))
		if err == nil {
			t.Fatal("expected error for reversed interval, got nil")
		}
	})
}

func TestGetByConfirmationCode(t *testing.T) {
	const bookingID = "64b0c1d2e3f4a5b6c7d8e902"
	svc := newTestService(t, transitionRepo(model.StatusConfirmed), nil)

	t.Run("resolves a sealed code", func(t *testing.T) {
		code, err := sealer.CreateConfirmationCode(testPropertyID, bookingID)
		if err != nil {
			t.Fatalf("CreateConfirmationCode returned error: %v", err)
		}

		booking, err := svc.GetByConfirmationCode(context.Background(), code)
		if err != nil {
			t.Fatalf("GetByConfirmationCode returned error: %v", err)
		}
		if booking.ID != bookingID {
			t.Errorf("booking id = %q, want %q", booking.ID, bookingID)
		}
	})

	t.Run("property mismatch reported as not found", func(t *testing.T) {
		code, err := sealer.CreateConfirmationCode("64b0c1d2e3f4a5b6c7d8e9ff", bookingID)
		if err != nil {
			t.Fatalf("CreateConfirmationCode returned error: %v", err)
		}

		_, err = svc.GetByConfirmationCode(context.Background(), code)
		if err == nil {
			t.Fatal("expected error for mismatched property, got nil")
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
			t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
		}
	})

	t.Run("garbage code rejected", func(t *testing.T) {
		_, err := svc.GetByConfirmationCode(context.Background(), "not-a-real-code")
		if err == nil {
			t.Fatal("expected error for garbage code, got nil")
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
			t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
		}
	})

	t.Run("empty code rejected", func(t *testing.T) {
		if _, err := svc.GetByConfirmationCode(context.Background(), ""); err == nil {
			t.Fatal("expected error for empty code, got nil")
		}
	})
}

func transitionRepo(status string) *mockBookingRepository {
	return &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:         id,
				PropertyID: testPropertyID,
				Status:     status,
				CheckIn:    day(10),
				CheckOut:   day(13),
			}, nil
		},
	}
}

func TestTransitions(t *testing.T) {
	const id = "64b0c1d2e3f4a5b6c7d8e901"

	tests := []struct {
		name       string
		from       string
		apply      func(svc *bookingService) (*model.Booking, error)
		wantStatus string
		wantErr    bool
	}{
		{"checkin from confirmed", model.StatusConfirmed,
			func(svc *bookingService) (*model.Booking, error) { return svc.CheckIn(context.Background(), id) },
			model.StatusActive, false},
		{"checkout from active", model.StatusActive,
			func(svc *bookingService) (*model.Booking, error) { return svc.CheckOut(context.Background(), id) },
			model.StatusCompleted, false},
		{"cancel from confirmed", model.StatusConfirmed,
			func(svc *bookingService) (*model.Booking, error) { return svc.Cancel(context.Background(), id) },
			model.StatusCancelled, false},
		{"cancel from active", model.StatusActive,
			func(svc *bookingService) (*model.Booking, error) { return svc.Cancel(context.Background(), id) },
			model.StatusCancelled, false},
		{"checkout from confirmed rejected", model.StatusConfirmed,
			func(svc *bookingService) (*model.Booking, error) { return svc.CheckOut(context.Background(), id) },
			"", true},
		{"checkin from active rejected", model.StatusActive,
			func(svc *bookingService) (*model.Booking, error) { return svc.CheckIn(context.Background(), id) },
			"", true},
		{"checkin from completed rejected", model.StatusCompleted,
			func(svc *bookingService) (*model.Booking, error) { return svc.CheckIn(context.Background(), id) },
			"", true},
		{"cancel from completed rejected", model.StatusCompleted,
			func(svc *bookingService) (*model.Booking, error) { return svc.Cancel(context.Background(), id) },
			"", true},
		{"cancel from cancelled rejected", model.StatusCancelled,
			func(svc *bookingService) (*model.Booking, error) { return svc.Cancel(context.Background(), id) },
			"", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, transitionRepo(tt.from), nil)

			booking, err := tt.apply(svc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected invalid transition error, got nil")
				}
				appErr := apperrors.AsAppError(err)
				if appErr.Code != apperrors.CodeInvalidTransition {
					t.Fatalf("expected code %s, got %s", apperrors.CodeInvalidTransition, appErr.Code)
				}
				if appErr.Details["from"] != tt.from {
					t.Errorf("expected details.from=%q, got %v", tt.from, appErr.Details["from"])
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if booking.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, booking.Status)
			}
		})
	}
}

func TestTransition_SetsTimestamps(t *testing.T) {
	svc := newTestService(t, transitionRepo(model.StatusConfirmed), nil)
	booking, err := svc.CheckIn(context.Background(), "64b0c1d2e3f4a5b6c7d8e901")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.CheckinCompletedAt == nil {
		t.Error("expected checkin_completed_at to be set")
	}

	svc = newTestService(t, transitionRepo(model.StatusActive), nil)
	booking, err = svc.Cancel(context.Background(), "64b0c1d2e3f4a5b6c7d8e901")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.CancelledAt == nil {
		t.Error("expected cancelled_at to be set")
	}
}

func TestCheckIn_PublishesEvent(t *testing.T) {
	svc := newTestService(t, transitionRepo(model.StatusConfirmed), nil)
	publisher := &mockEventPublisher{}
	svc.events = publisher

	if _, err := svc.CheckIn(context.Background(), "64b0c1d2e3f4a5b6c7d8e901"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(publisher.published) != 1 || publisher.published[0] != model.EventBookingCheckedIn {
		t.Errorf("expected [%s] published, got %v", model.EventBookingCheckedIn, publisher.published)
	}
}

func TestCheckOut_PublishFailureDoesNotFailTransition(t *testing.T) {
	svc := newTestService(t, transitionRepo(model.StatusActive), nil)
	svc.events = &mockEventPublisher{err: errors.New("broker unreachable")}

	booking, err := svc.CheckOut(context.Background(), "64b0c1d2e3f4a5b6c7d8e901")
	if err != nil {
		t.Fatalf("transition should survive a publish failure, got: %v", err)
	}
	if booking.Status != model.StatusCompleted {
		t.Errorf("expected status %q, got %q", model.StatusCompleted, booking.Status)
	}
}

func TestUpdate_TerminalBookingRejected(t *testing.T) {
	for _, status := range []string{model.StatusCompleted, model.StatusCancelled} {
		svc := newTestService(t, transitionRepo(status), nil)
		_, err := svc.Update(context.Background(), "64b0c1d2e3f4a5b6c7d8e901", &model.BookingUpdate{})
		if err == nil {
			t.Fatalf("expected error updating %s booking, got nil", status)
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
			t.Errorf("status %s: expected code %s, got %s", status, apperrors.CodeConflict, appErr.Code)
		}
	}
}

func TestUpdate_PropertyChangeRejected(t *testing.T) {
	svc := newTestService(t, transitionRepo(model.StatusConfirmed), nil)

	_, err := svc.Update(context.Background(), "64b0c1d2e3f4a5b6c7d8e901", &model.BookingUpdate{
		PropertyID: "64b0c1d2e3f4a5b6c7d8e9ff",
	})
	if err == nil {
		t.Fatal("expected error changing property, got nil")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
	if !strings.Contains(appErr.Message, "cancel and rebook") {
		t.Errorf("expected the rejection to explain the rebook policy, got %q", appErr.Message)
	}
}

func TestUpdate_RepricesOnDateChange(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:            id,
				PropertyID:    testPropertyID,
				GuestName:     "Ada Lovelace",
				Status:        model.StatusConfirmed,
				CheckIn:       day(10),
				CheckOut:      day(13),
				GuestsCount:   2,
				PricePerNight: 100,
				CleaningFee:   50,
				TotalPrice:    350,
			}, nil
		},
	}
	svc := newTestService(t, repo, nil)

	newCheckOut := day(15)
	booking, err := svc.Update(context.Background(), "64b0c1d2e3f4a5b6c7d8e901", &model.BookingUpdate{
		CheckOut: &newCheckOut,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 5 nights at the frozen rate of 100, plus the 50 cleaning fee
	if booking.TotalPrice != 550 {
		t.Errorf("expected total price 550, got %v", booking.TotalPrice)
	}
}

func TestUpdate_RejectsOverlapExcludingSelf(t *testing.T) {
	self := &model.Booking{
		ID:            "64b0c1d2e3f4a5b6c7d8e901",
		PropertyID:    testPropertyID,
		GuestName:     "Ada Lovelace",
		Status:        model.StatusConfirmed,
		CheckIn:       day(10),
		CheckOut:      day(13),
		GuestsCount:   2,
		PricePerNight: 100,
		CleaningFee:   50,
	}
	other := &model.Booking{
		ID:         "64b0c1d2e3f4a5b6c7d8e902",
		PropertyID: testPropertyID,
		Status:     model.StatusConfirmed,
		CheckIn:    day(15),
		CheckOut:   day(18),
	}

	repo := fixtureRepo([]*model.Booking{self, other})
	repo.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return self, nil
	}
	svc := newTestService(t, repo, nil)

	t.Run("shifting within own dates succeeds", func(t *testing.T) {
		newCheckOut := day(14)
		if _, err := svc.Update(context.Background(), self.ID, &model.BookingUpdate{CheckOut: &newCheckOut}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("moving onto another booking conflicts", func(t *testing.T) {
		newCheckOut := day(16)
		_, err := svc.Update(context.Background(), self.ID, &model.BookingUpdate{CheckOut: &newCheckOut})
		if err == nil {
			t.Fatal("expected conflict error, got nil")
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
			t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
		}
	})
}

func TestComputeMetrics(t *testing.T) {
	now := time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)

	bookings := []*model.Booking{
		// Past: checked out before now, 3 nights, in the current month
		{Status: model.StatusCompleted, CheckIn: day(1), CheckOut: day(4), TotalPrice: 350},
		// Active: now falls inside the stay, 5 nights
		{Status: model.StatusActive, CheckIn: day(13), CheckOut: day(18), TotalPrice: 550},
		// Upcoming: next month
		{Status: model.StatusConfirmed, CheckIn: time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC), CheckOut: time.Date(2026, time.October, 6, 0, 0, 0, 0, time.UTC), TotalPrice: 450},
		// Cancelled: excluded from partitions and revenue
		{Status: model.StatusCancelled, CheckIn: day(20), CheckOut: day(22), TotalPrice: 250},
	}

	m := computeMetrics(bookings, now)

	if m.TotalBookings != 4 {
		t.Errorf("expected total 4, got %d", m.TotalBookings)
	}
	if m.PastBookings != 1 || m.ActiveBookings != 1 || m.UpcomingBookings != 1 || m.CancelledBookings != 1 {
		t.Errorf("unexpected partition: past=%d active=%d upcoming=%d cancelled=%d",
			m.PastBookings, m.ActiveBookings, m.UpcomingBookings, m.CancelledBookings)
	}
	if m.TotalRevenue != 1350 {
		t.Errorf("expected total revenue 1350, got %v", m.TotalRevenue)
	}
	// Only the September check-ins count toward the current month.
	if m.MonthlyRevenue != 900 {
		t.Errorf("expected monthly revenue 900, got %v", m.MonthlyRevenue)
	}
	// Stays of 3, 5 and 4 nights average to 4.
	if m.AverageStayLength != 4 {
		t.Errorf("expected average stay 4, got %v", m.AverageStayLength)
	}
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := computeMetrics(nil, time.Now())
	if m.TotalBookings != 0 || m.TotalRevenue != 0 || m.AverageStayLength != 0 {
		t.Errorf("expected zero metrics, got %+v", m)
	}
}

func TestMetrics_BoundaryDay(t *testing.T) {
	// A guest checking out today is already past; one checking in today is
	// active from the first instant of the stay.
	now := day(15)
	bookings := []*model.Booking{
		{Status: model.StatusCompleted, CheckIn: day(12), CheckOut: day(15), TotalPrice: 100},
		{Status: model.StatusConfirmed, CheckIn: day(15), CheckOut: day(17), TotalPrice: 100},
	}

	m := computeMetrics(bookings, now)
	if m.PastBookings != 1 {
		t.Errorf("expected 1 past booking, got %d", m.PastBookings)
	}
	if m.ActiveBookings != 1 {
		t.Errorf("expected 1 active booking, got %d", m.ActiveBookings)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, bookingserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo, nil)

	_, err := svc.GetByID(context.Background(), "64b0c1d2e3f4a5b6c7d8e901")
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestGetAll_ParallelCountAndFind(t *testing.T) {
	repo := &mockBookingRepository{
		countFunc: func(ctx context.Context) (int64, error) {
			time.Sleep(5 * time.Millisecond)
			return 42, nil
		},
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
			time.Sleep(5 * time.Millisecond)
			return []*model.Booking{{ID: "64b0c1d2e3f4a5b6c7d8e901"}}, nil
		},
	}
	svc := newTestService(t, repo, nil)

	for i := 0; i < 10; i++ {
		bookings, count, err := svc.GetAll(context.Background(), 10, 0)
		if err != nil {
			t.Fatalf("iteration %d: unexpected error: %v", i, err)
		}
		if count != 42 {
			t.Errorf("iteration %d: expected count 42, got %d", i, count)
		}
		if len(bookings) != 1 {
			t.Errorf("iteration %d: expected 1 booking, got %d", i, len(bookings))
		}
	}
}
