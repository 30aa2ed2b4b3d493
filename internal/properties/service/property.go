package service

import (
	"context"
	"errors"
	"sync"
	"time"

	propertieserrors "ciaohost/internal/properties/errors"
	"ciaohost/internal/properties/repository"
	"ciaohost/internal/properties/validator"
	"ciaohost/pkg/config"
	apperrors "ciaohost/pkg/errors"
	"ciaohost/pkg/model"
	"ciaohost/pkg/sanitizer"
)

type PropertyService interface {
	Create(ctx context.Context, property *model.Property) error
	GetByID(ctx context.Context, id string) (*model.Property, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Property, int64, error)
	Update(ctx context.Context, id string, updates *model.PropertyUpdate) (*model.Property, error)
	Deactivate(ctx context.Context, id string) error
	SearchByCity(ctx context.Context, city string, limit int, offset int64) ([]*model.Property, int64, error)
	Metrics(ctx context.Context) (*model.PropertyMetrics, error)
}

type propertyService struct {
	repo      repository.PropertyRepository
	validator *validator.PropertyValidator
	cfg       *config.Config
}

func NewPropertyService(
	repo repository.PropertyRepository,
	validator *validator.PropertyValidator,
	cfg *config.Config,
) PropertyService {
	return &propertyService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *propertyService) Create(ctx context.Context, property *model.Property) error {
	s.applyDefaults(property)
	s.sanitize(property)

	if err := s.validate(property); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, property); err != nil {
		s.cfg.Log.Error("Failed to create property", "error", err)
		return apperrors.Internal("Failed to create property", err)
	}

	s.cfg.Log.Info("Property created successfully",
		"id", property.ID,
		"name", property.Name,
		"city", property.City,
	)
	return nil
}

func (s *propertyService) GetByID(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		if errors.Is(err, propertieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve property", err)
	}

	return property, nil
}

func (s *propertyService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Property, int64, error) {
	var count int64
	var properties []*model.Property
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count properties", "error", errCount)
			errCount = apperrors.Internal("Failed to count properties", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		properties, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list properties", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve properties", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return properties, count, nil
}

func (s *propertyService) Update(ctx context.Context, id string, updates *model.PropertyUpdate) (*model.Property, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Property ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Property update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergePropertyUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		s.cfg.Log.Error("Failed to update property", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update property", err)
	}

	s.cfg.Log.Info("Property updated successfully", "id", id)
	return merged, nil
}

// Deactivate takes the property off the market without deleting it.
// Existing bookings keep their reference; new bookings are refused by the
// booking service once the status flips.
func (s *propertyService) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Property ID cannot be empty")
	}

	if err := s.repo.SetStatus(ctx, id, model.PropertyStatusInactive); err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Property", id)
		}
		if errors.Is(err, propertieserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid property ID format")
		}
		s.cfg.Log.Error("Failed to deactivate property", "id", id, "error", err)
		return apperrors.Internal("Failed to deactivate property", err)
	}

	s.cfg.Log.Info("Property deactivated", "id", id)
	return nil
}

func (s *propertyService) SearchByCity(ctx context.Context, city string, limit int, offset int64) ([]*model.Property, int64, error) {
	city = sanitizer.NormalizeCity(city)
	if city == "" {
		return nil, 0, apperrors.InvalidInput("City is required")
	}

	var count int64
	var properties []*model.Property
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByCity(ctx, city)
		if err != nil {
			s.cfg.Log.Error("Failed to count properties by city", "city", city, "error", err)
			errCount = apperrors.Internal("Failed to count properties", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		properties, err = s.repo.SearchByCity(ctx, city, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search properties", "city", city, "error", err)
			errFind = apperrors.Internal("Failed to search properties", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return properties, count, nil
}

func (s *propertyService) Metrics(ctx context.Context) (*model.PropertyMetrics, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -s.cfg.OccupancyWindowDays)

	properties, err := s.repo.FindAllForMetrics(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load properties for metrics", "error", err)
		return nil, apperrors.Internal("Failed to compute property metrics", err)
	}

	bookings, err := s.repo.BookingsInWindow(ctx, from, now)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for occupancy", "error", err)
		return nil, apperrors.Internal("Failed to compute property metrics", err)
	}

	return computePropertyMetrics(properties, bookings, from, now), nil
}

// computePropertyMetrics aggregates the portfolio: price average, size
// buckets by bedroom count (small <=1, medium 2-3, large >3) and per
// property occupancy over the [from, to) window.
func computePropertyMetrics(properties []*model.Property, bookings []*model.Booking, from, to time.Time) *model.PropertyMetrics {
	metrics := &model.PropertyMetrics{
		TotalProperties: len(properties),
		Occupancy:       make(map[string]model.PropertyOccupancy, len(properties)),
	}

	windowDays := int(to.Sub(from) / (24 * time.Hour))
	if windowDays <= 0 {
		windowDays = 1
	}

	var priceSum float64
	for _, p := range properties {
		priceSum += p.PricePerNight

		switch {
		case p.Bedrooms <= 1:
			metrics.SmallProperties++
		case p.Bedrooms <= 3:
			metrics.MediumProperties++
		default:
			metrics.LargeProperties++
		}

		metrics.Occupancy[p.ID] = model.PropertyOccupancy{Name: p.Name}
	}

	if len(properties) > 0 {
		metrics.AveragePrice = priceSum / float64(len(properties))
	}

	for _, b := range bookings {
		occ, ok := metrics.Occupancy[b.PropertyID]
		if !ok {
			continue
		}
		nights := nightsInWindow(b, from, to)
		if nights <= 0 {
			continue
		}
		occ.TotalBookings++
		occ.OccupancyRate += float64(nights) / float64(windowDays)
		metrics.Occupancy[b.PropertyID] = occ
	}

	return metrics
}

// nightsInWindow clamps the stay to the window and counts whole nights.
func nightsInWindow(b *model.Booking, from, to time.Time) int {
	start := b.CheckIn
	if start.Before(from) {
		start = from
	}
	end := b.CheckOut
	if end.After(to) {
		end = to
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start) / (24 * time.Hour))
}

// --- Helpers ---

func (s *propertyService) applyDefaults(p *model.Property) {
	if p.Status == "" {
		p.Status = model.PropertyStatusActive
	}
}

func (s *propertyService) sanitize(p *model.Property) {
	p.Name = sanitizer.NormalizeName(p.Name)
	p.Address = sanitizer.TrimAndNormalize(p.Address)
	p.City = sanitizer.NormalizeCity(p.City)
	p.Description = sanitizer.NormalizeFreeText(p.Description)
	p.Amenities = sanitizer.NormalizeAmenities(p.Amenities)
}

func (s *propertyService) mergePropertyUpdates(existing *model.Property, updates *model.PropertyUpdate) *model.Property {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Address != "" {
		merged.Address = updates.Address
	}
	if updates.City != "" {
		merged.City = updates.City
	}
	if updates.Bedrooms != nil {
		merged.Bedrooms = *updates.Bedrooms
	}
	if updates.Bathrooms != nil {
		merged.Bathrooms = *updates.Bathrooms
	}
	if updates.MaxGuests != nil {
		merged.MaxGuests = *updates.MaxGuests
	}
	if updates.PricePerNight != nil {
		merged.PricePerNight = *updates.PricePerNight
	}
	if updates.CleaningFee != nil {
		merged.CleaningFee = *updates.CleaningFee
	}
	if updates.Amenities != nil {
		merged.Amenities = *updates.Amenities
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}

	return &merged
}

func (s *propertyService) validate(property *model.Property) error {
	if err := s.validator.Validate(property); err != nil {
		s.cfg.Log.Warn("Property validation failed", "error", err)
		return apperrors.Validation("Property validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
