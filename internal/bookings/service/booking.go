package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "ciaohost/internal/bookings/errors"
	"ciaohost/internal/bookings/repository"
	"ciaohost/internal/bookings/validator"
	"ciaohost/pkg/config"
	apperrors "ciaohost/pkg/errors"
	"ciaohost/pkg/model"
	"ciaohost/pkg/sanitizer"
	"ciaohost/pkg/sealer"

	"go.mongodb.org/mongo-driver/mongo"
)

// Lifecycle events accepted by the booking state machine.
const (
	eventCheckIn  = "checkin"
	eventCheckOut = "checkout"
	eventCancel   = "cancel"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByConfirmationCode(ctx context.Context, code string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	CheckIn(ctx context.Context, id string) (*model.Booking, error)
	CheckOut(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	CheckAvailability(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (bool, []string, error)
	SearchByProperty(ctx context.Context, propertyID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
	Metrics(ctx context.Context) (*model.BookingMetrics, error)
}

// PropertyRegistry resolves property details at booking time. Pricing is
// copied onto the booking so later rate changes never reprice past stays.
type PropertyRegistry interface {
	GetByID(ctx context.Context, id string) (*model.Property, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.PropertyLockRepository
	validator  *validator.BookingValidator
	properties PropertyRegistry
	events     EventPublisher
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.PropertyLockRepository,
	validator *validator.BookingValidator,
	properties PropertyRegistry,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		validator:  validator,
		properties: properties,
		events:     events,
		cfg:        cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)

	property, err := s.resolveProperty(ctx, booking)
	if err != nil {
		return err
	}

	if err := s.checkCapacity(booking, property); err != nil {
		return err
	}

	if err := s.validate(booking); err != nil {
		return err
	}

	booking.TotalPrice = totalPrice(booking)

	// Acquire advisory lock to prevent race conditions on the same property
	lockID, err := s.acquirePropertyLock(ctx, booking.PropertyID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releasePropertyLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release property lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"property_id", booking.PropertyID,
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
		"total_price", booking.TotalPrice,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

// GetByConfirmationCode resolves the opaque code handed to a guest at
// creation. The sealed property ID must still match the booking, so a
// code cannot be replayed against a different property.
func (s *bookingService) GetByConfirmationCode(ctx context.Context, code string) (*model.Booking, error) {
	if code == "" {
		return nil, apperrors.InvalidInput("Confirmation code cannot be empty")
	}

	propertyID, bookingID, err := sealer.ParseConfirmationCode(code)
	if err != nil {
		s.cfg.Log.Warn("Rejected malformed confirmation code", "error", err)
		return nil, apperrors.InvalidInput("Invalid confirmation code")
	}

	booking, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PropertyID != propertyID {
		return nil, apperrors.NotFoundWithID("Booking", bookingID)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("Cannot modify a %s booking", existing.Status))
	}

	if updates.PropertyID != "" && updates.PropertyID != existing.PropertyID {
		return nil, apperrors.InvalidInput("Bookings stay with the property they were created for; cancel and rebook to move properties")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeBookingUpdates(existing, updates)
	s.sanitize(merged)

	if updates.GuestsCount != nil {
		property, err := s.properties.GetByID(ctx, merged.PropertyID)
		if err != nil {
			return nil, err
		}
		if err := s.checkCapacity(merged, property); err != nil {
			return nil, err
		}
	}

	if err := s.validate(merged); err != nil {
		return nil, err
	}

	// Dates may have moved; reprice from the frozen per-night rate.
	merged.TotalPrice = totalPrice(merged)

	lockID, err := s.acquirePropertyLock(ctx, merged.PropertyID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releasePropertyLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release property lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, merged); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id)
	return merged, nil
}

func (s *bookingService) CheckIn(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.transition(ctx, id, eventCheckIn)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, model.EventBookingCheckedIn, booking)
	return booking, nil
}

func (s *bookingService) CheckOut(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.transition(ctx, id, eventCheckOut)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, model.EventBookingCheckedOut, booking)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, eventCancel)
}

// transition applies one lifecycle event inside a transaction so the
// status read and write cannot interleave with a concurrent transition.
func (s *bookingService) transition(ctx context.Context, id string, event string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var updated *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.GetByID(sessCtx, id)
		if err != nil {
			return err
		}

		if err := applyTransition(booking, event, time.Now().UTC()); err != nil {
			return err
		}

		if _, err := s.repo.Update(sessCtx, id, booking); err != nil {
			return apperrors.Internal("Failed to update booking status", err)
		}

		updated = booking
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Booking transition rejected", "id", id, "event", event, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking transitioned", "id", id, "event", event, "status", updated.Status)
	return updated, nil
}

// applyTransition mutates the booking according to the state machine:
// confirmed -> active (checkin), active -> completed (checkout),
// confirmed/active -> cancelled (cancel). Completed and cancelled are
// terminal.
func applyTransition(booking *model.Booking, event string, now time.Time) error {
	switch event {
	case eventCheckIn:
		if booking.Status != model.StatusConfirmed {
			return apperrors.InvalidTransition(booking.Status, model.StatusActive)
		}
		booking.Status = model.StatusActive
		booking.CheckinCompletedAt = &now

	case eventCheckOut:
		if booking.Status != model.StatusActive {
			return apperrors.InvalidTransition(booking.Status, model.StatusCompleted)
		}
		booking.Status = model.StatusCompleted
		booking.CheckoutCompletedAt = &now

	case eventCancel:
		if booking.Status != model.StatusConfirmed && booking.Status != model.StatusActive {
			return apperrors.InvalidTransition(booking.Status, model.StatusCancelled)
		}
		booking.Status = model.StatusCancelled
		booking.CancelledAt = &now

	default:
		return apperrors.InvalidInput(fmt.Sprintf("Unknown booking event: %s", event))
	}

	return nil
}

// CheckAvailability reports whether the property is free over the
// half-open [checkIn, checkOut) interval, naming any blocking bookings.
func (s *bookingService) CheckAvailability(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (bool, []string, error) {
	if propertyID == "" {
		return false, nil, apperrors.InvalidInput("Property ID cannot be empty")
	}
	if !checkOut.After(checkIn) {
		return false, nil, apperrors.InvalidInput("check_out must be after check_in")
	}

	conflicting, err := s.findConflicting(ctx, propertyID, checkIn, checkOut, "")
	if err != nil {
		return false, nil, err
	}

	return len(conflicting) == 0, conflicting, nil
}

func (s *bookingService) SearchByProperty(ctx context.Context, propertyID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if propertyID == "" {
		return nil, 0, apperrors.InvalidInput("Property ID is required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByProperty(ctx, propertyID, from, to)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings by property",
				"property_id", propertyID,
				"error", err,
			)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByProperty(ctx, propertyID, from, to, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search bookings",
				"property_id", propertyID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search bookings", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Booking search completed",
		"property_id", propertyID,
		"count", len(bookings),
		"total_count", count,
	)
	return bookings, count, nil
}

func (s *bookingService) Metrics(ctx context.Context) (*model.BookingMetrics, error) {
	bookings, err := s.repo.FindAllForMetrics(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for metrics", "error", err)
		return nil, apperrors.Internal("Failed to compute booking metrics", err)
	}

	return computeMetrics(bookings, time.Now().UTC()), nil
}

// computeMetrics partitions the ledger relative to now. Cancelled
// bookings are counted separately and excluded from revenue and stay
// statistics.
func computeMetrics(bookings []*model.Booking, now time.Time) *model.BookingMetrics {
	metrics := &model.BookingMetrics{
		TotalBookings: len(bookings),
	}

	var totalNights int
	var counted int

	for _, b := range bookings {
		if b.Status == model.StatusCancelled {
			metrics.CancelledBookings++
			continue
		}

		switch {
		case b.CheckIn.After(now):
			metrics.UpcomingBookings++
		case !b.CheckOut.After(now):
			metrics.PastBookings++
		default:
			metrics.ActiveBookings++
		}

		metrics.TotalRevenue += b.TotalPrice
		if b.CheckIn.Year() == now.Year() && b.CheckIn.Month() == now.Month() {
			metrics.MonthlyRevenue += b.TotalPrice
		}

		totalNights += b.Nights()
		counted++
	}

	if counted > 0 {
		metrics.AverageStayLength = float64(totalNights) / float64(counted)
	}

	return metrics
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.GuestName = sanitizer.NormalizeName(b.GuestName)
	b.GuestEmail = sanitizer.NormalizeEmail(b.GuestEmail)
	b.GuestPhone = sanitizer.NormalizePhone(b.GuestPhone)
	b.SpecialRequests = sanitizer.NormalizeFreeText(b.SpecialRequests)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	// Lifecycle state is owned by the service; a caller-supplied status
	// or timestamp is discarded. New bookings always start confirmed.
	b.Status = model.StatusConfirmed
	b.CancelledAt = nil
	b.CheckinCompletedAt = nil
	b.CheckoutCompletedAt = nil

	// An absent guests count books for one guest. Negative counts fall
	// through to validation.
	if b.GuestsCount == 0 {
		b.GuestsCount = 1
	}
}

func (s *bookingService) resolveProperty(ctx context.Context, booking *model.Booking) (*model.Property, error) {
	if booking.PropertyID == "" {
		return nil, apperrors.InvalidInput("Property ID is required")
	}

	property, err := s.properties.GetByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}

	if property.Status != model.PropertyStatusActive {
		return nil, apperrors.Conflict("Property is not accepting bookings")
	}

	// Snapshot pricing so later rate changes do not reprice this booking.
	booking.PricePerNight = property.PricePerNight
	booking.CleaningFee = property.CleaningFee

	return property, nil
}

// checkCapacity treats an over-capacity party as advisory unless
// EnforceMaxGuests is set. Hosts historically accepted extra guests with
// a warning rather than losing the booking.
func (s *bookingService) checkCapacity(booking *model.Booking, property *model.Property) error {
	if booking.GuestsCount <= property.MaxGuests {
		return nil
	}

	if s.cfg.EnforceMaxGuests {
		return apperrors.Validation("Guest count exceeds property capacity", map[string]any{
			"guests_count": booking.GuestsCount,
			"max_guests":   property.MaxGuests,
		})
	}

	warning := fmt.Sprintf("guest count %d exceeds property capacity %d", booking.GuestsCount, property.MaxGuests)
	booking.Warnings = append(booking.Warnings, warning)
	s.cfg.Log.Warn("Booking exceeds property capacity",
		"property_id", booking.PropertyID,
		"guests_count", booking.GuestsCount,
		"max_guests", property.MaxGuests,
	)
	return nil
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.GuestName != "" {
		merged.GuestName = updates.GuestName
	}
	if updates.GuestEmail != nil {
		merged.GuestEmail = *updates.GuestEmail
	}
	if updates.GuestPhone != nil {
		merged.GuestPhone = *updates.GuestPhone
	}
	if updates.CheckIn != nil {
		merged.CheckIn = *updates.CheckIn
	}
	if updates.CheckOut != nil {
		merged.CheckOut = *updates.CheckOut
	}
	if updates.GuestsCount != nil {
		merged.GuestsCount = *updates.GuestsCount
	}
	if updates.PricePerNight != nil {
		merged.PricePerNight = *updates.PricePerNight
	}
	if updates.CleaningFee != nil {
		merged.CleaningFee = *updates.CleaningFee
	}
	if updates.SpecialRequests != nil {
		merged.SpecialRequests = *updates.SpecialRequests
	}

	return &merged
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) verifyNoConflict(ctx context.Context, booking *model.Booking) error {
	conflicting, err := s.findConflicting(ctx, booking.PropertyID, booking.CheckIn, booking.CheckOut, booking.ID)
	if err != nil {
		return err
	}
	if len(conflicting) > 0 {
		return apperrors.ConflictWithBookings("Requested dates overlap an existing booking", conflicting)
	}
	return nil
}

func (s *bookingService) findConflicting(ctx context.Context, propertyID string, checkIn, checkOut time.Time, excludeID string) ([]string, error) {
	existing, err := s.repo.FindOverlapping(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing bookings", err)
	}

	var conflicting []string
	for _, b := range existing {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if b.Status == model.StatusCancelled {
			continue
		}
		if overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			conflicting = append(conflicting, b.ID)
		}
	}
	return conflicting, nil
}

// overlaps implements the half-open interval rule: [start1, end1) and
// [start2, end2) intersect iff start1 < end2 && end1 > start2. Intervals
// that share only a boundary do not overlap.
func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

func totalPrice(b *model.Booking) float64 {
	return b.PricePerNight*float64(b.Nights()) + b.CleaningFee
}

func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, booking); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

// acquirePropertyLock creates an advisory lock covering all writes for a
// property. Returns conflict if another request holds the lock.
func (s *bookingService) acquirePropertyLock(ctx context.Context, propertyID string) (string, error) {
	lockID := fmt.Sprintf("property_lock_%s", propertyID)

	lock := &model.PropertyLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.PropertyLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This property is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire property lock", err)
	}

	return lockID, nil
}

// releasePropertyLock removes the advisory lock
func (s *bookingService) releasePropertyLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
