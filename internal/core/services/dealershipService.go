package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"

	"github.com/go-openapi/strfmt"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const dealershipCacheKey = "dealership"

type DealershipService struct {
	dealerRepo  ports.DealershipRepository
	bookingRepo ports.BookingRepository
	carRepo     ports.CarRepository
	logger      ports.LoggerPort
	validate    *validator.Validate
	cache       ports.CachePort

	now func() time.Time
}

func NewDealershipService(
	dealerRepo ports.DealershipRepository,
	bookingRepo ports.BookingRepository,
	carRepo ports.CarRepository,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *DealershipService {
	return &DealershipService{
		dealerRepo:  dealerRepo,
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		logger:      logger,
		validate:    validate,
		cache:       cache,
		now:         time.Now,
	}
}

// EnsureDealership provisions the singleton dealership row with the default
// weekly schedule. Called once at startup so every request can rely on the
// row existing.
func (s *DealershipService) EnsureDealership(ctx context.Context) (*domain.DealershipInfo, error) {
	dealership, err := s.dealerRepo.GetDealership(ctx)
	if err == nil {
		return dealership, nil
	}
	if err != domain.ErrDealershipNotFound {
		return nil, err
	}

	info := &domain.DealershipInfo{
		ID:           uuid.New(),
		Name:         "Angelomotive Motors",
		WorkingHours: domain.DefaultWorkingHours(),
	}
	created, err := s.dealerRepo.CreateDealership(ctx, info)
	if err != nil {
		s.logger.Error("Failed to provision dealership", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Dealership provisioned with default working hours", map[string]interface{}{
		"dealership_id": created.ID,
	})
	return created, nil
}

func (s *DealershipService) GetDealershipInfo(ctx context.Context) (*domain.DealershipInfo, error) {
	if cachedData, err := s.cache.Get(dealershipCacheKey); err == nil {
		var cached domain.DealershipInfo
		if err := json.Unmarshal(cachedData, &cached); err == nil {
			return &cached, nil
		}
	}

	dealership, err := s.dealerRepo.GetDealership(ctx)
	if err != nil {
		s.logger.Error("Failed to get dealership info", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	if data, err := json.Marshal(dealership); err == nil {
		if err := s.cache.Set(dealershipCacheKey, data, 15*time.Minute); err != nil {
			s.logger.Warn("Failed to cache dealership info", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return dealership, nil
}

// SaveWorkingHours replaces the weekly schedule wholesale. Exactly one entry
// per day of week is required.
func (s *DealershipService) SaveWorkingHours(ctx context.Context, hours []domain.WorkingHour) error {
	if len(hours) != 7 {
		return fmt.Errorf("%w: got %d entries", domain.ErrInvalidWorkingHours, len(hours))
	}
	seen := make(map[domain.DayOfWeek]bool, 7)
	for i := range hours {
		if err := s.validate.Struct(&hours[i]); err != nil {
			s.logger.Error("Working hour validation failed", map[string]interface{}{
				"error": err.Error(),
				"day":   string(hours[i].DayOfWeek),
			})
			return fmt.Errorf("validation error: %w", err)
		}
		if seen[hours[i].DayOfWeek] {
			return fmt.Errorf("%w: duplicate entry for %s", domain.ErrInvalidWorkingHours, hours[i].DayOfWeek)
		}
		seen[hours[i].DayOfWeek] = true

		if !hours[i].IsOpen {
			continue
		}
		open, err := time.Parse("15:04", hours[i].OpenTime)
		if err != nil {
			return fmt.Errorf("%w: invalid open time %q on %s", domain.ErrInvalidWorkingHours, hours[i].OpenTime, hours[i].DayOfWeek)
		}
		closing, err := time.Parse("15:04", hours[i].CloseTime)
		if err != nil {
			return fmt.Errorf("%w: invalid close time %q on %s", domain.ErrInvalidWorkingHours, hours[i].CloseTime, hours[i].DayOfWeek)
		}
		if !closing.After(open) {
			return fmt.Errorf("%w: close time %s is not after open time %s on %s",
				domain.ErrInvalidWorkingHours, hours[i].CloseTime, hours[i].OpenTime, hours[i].DayOfWeek)
		}
	}

	dealership, err := s.dealerRepo.GetDealership(ctx)
	if err != nil {
		return err
	}

	if err := s.dealerRepo.ReplaceWorkingHours(ctx, dealership.ID, hours); err != nil {
		s.logger.Error("Failed to save working hours", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	if err := s.cache.Delete(dealershipCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate dealership cache", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.logger.Info("Working hours saved", map[string]interface{}{
		"dealership_id": dealership.ID,
	})
	return nil
}

// GetAvailability computes the bookable slots for a car on a date.
func (s *DealershipService) GetAvailability(ctx context.Context, carID, dateStr string) ([]domain.TimeSlot, error) {
	carUUID, err := uuid.Parse(carID)
	if err != nil {
		return nil, fmt.Errorf("invalid car ID: %w", err)
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}

	// the request date parses in UTC, so the cutoff must too
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, domain.ErrPastDate
	}

	if _, err := s.carRepo.GetCarByID(ctx, carUUID); err != nil {
		return nil, err
	}

	dealership, err := s.GetDealershipInfo(ctx)
	if err != nil {
		return nil, err
	}

	schedule := ScheduleForDay(dealership.WorkingHours, domain.DayOfWeekFromTime(date))
	if schedule == nil || !schedule.IsOpen {
		return []domain.TimeSlot{}, nil
	}

	bookings, err := s.bookingRepo.GetCarBookingsForDate(ctx, carUUID, strfmt.Date(date))
	if err != nil {
		s.logger.Error("Failed to load bookings for availability", map[string]interface{}{
			"error":  err.Error(),
			"car_id": carID,
			"date":   dateStr,
		})
		return nil, err
	}

	return AvailableSlots(schedule, date, bookings), nil
}
