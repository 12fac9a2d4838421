package services

import (
	"context"
	"fmt"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type BookingService struct {
	bookingRepo ports.BookingRepository
	carRepo     ports.CarRepository
	logger      ports.LoggerPort
	validate    *validator.Validate
	cache       ports.CachePort
}

func NewBookingService(
	bookingRepo ports.BookingRepository,
	carRepo ports.CarRepository,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		logger:      logger,
		validate:    validate,
		cache:       cache,
	}
}

// BookTestDrive validates the request and persists a PENDING booking. The
// existence pre-check and the partial unique index both surface as
// ErrAlreadyBooked, so a concurrent duplicate that slips past the pre-check
// still fails.
func (s *BookingService) BookTestDrive(ctx context.Context, user *domain.User, booking *domain.TestDriveBooking) (*domain.TestDriveBooking, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	booking.UserID = user.ID
	booking.Status = domain.BookingPending

	if err := s.validate.Struct(booking); err != nil {
		s.logger.Error("Booking validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if _, err := s.carRepo.GetCarByID(ctx, booking.CarID); err != nil {
		s.logger.Error("Failed to get car for booking", map[string]interface{}{
			"error":  err.Error(),
			"car_id": booking.CarID.String(),
		})
		return nil, err
	}

	taken, err := s.bookingRepo.HasActiveBooking(ctx, booking.CarID, booking.BookingDate, booking.StartTime)
	if err != nil {
		s.logger.Error("Failed to check existing bookings", map[string]interface{}{
			"error":  err.Error(),
			"car_id": booking.CarID.String(),
		})
		return nil, err
	}
	if taken {
		return nil, domain.ErrAlreadyBooked
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	created, err := s.bookingRepo.CreateBooking(ctx, booking)
	if err != nil {
		s.logger.Error("Failed to create booking", map[string]interface{}{
			"error":   err.Error(),
			"car_id":  booking.CarID.String(),
			"user_id": user.ID.String(),
		})
		return nil, err
	}

	s.invalidateBookingCaches(booking.CarID)

	s.logger.Info("Test drive booked", map[string]interface{}{
		"booking_id": created.ID,
		"car_id":     created.CarID,
		"user_id":    created.UserID,
		"date":       created.BookingDate.String(),
		"start_time": created.StartTime,
	})

	return created, nil
}

func (s *BookingService) GetUserTestDrives(ctx context.Context, userID uuid.UUID) ([]*domain.TestDriveBooking, error) {
	bookings, err := s.bookingRepo.GetBookingsByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get user test drives", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID.String(),
		})
		return nil, err
	}
	return bookings, nil
}

// CancelTestDrive cancels a booking on behalf of its owner or an admin.
// Terminal states are guarded: cancelling twice or after completion fails.
func (s *BookingService) CancelTestDrive(ctx context.Context, user *domain.User, bookingID string) error {
	if user == nil {
		return domain.ErrUnauthorized
	}
	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID: %w", err)
	}

	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingUUID)
	if err != nil {
		s.logger.Error("Failed to get booking", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": bookingID,
		})
		return err
	}

	if !user.IsAdmin() && booking.UserID != user.ID {
		s.logger.Warn("Access denied to cancel booking", map[string]interface{}{
			"requester_id":  user.ID.String(),
			"booking_owner": booking.UserID.String(),
			"booking_id":    bookingID,
		})
		return domain.ErrForbidden
	}

	switch booking.Status {
	case domain.BookingCancelled:
		return domain.ErrAlreadyCancelled
	case domain.BookingCompleted:
		return domain.ErrAlreadyCompleted
	}

	if err := s.bookingRepo.UpdateBookingStatus(ctx, bookingUUID, domain.BookingCancelled); err != nil {
		s.logger.Error("Failed to cancel booking", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": bookingID,
		})
		return err
	}

	s.invalidateBookingCaches(booking.CarID)

	s.logger.Info("Booking cancelled", map[string]interface{}{
		"booking_id": bookingID,
		"user_id":    user.ID.String(),
	})
	return nil
}

func (s *BookingService) ListBookings(ctx context.Context, status domain.BookingStatus, search string) ([]*domain.TestDriveBooking, error) {
	bookings, err := s.bookingRepo.ListBookings(ctx, status, search)
	if err != nil {
		s.logger.Error("Failed to list bookings", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return bookings, nil
}

// UpdateBookingStatus applies an admin-requested transition, validated
// against the status graph.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) error {
	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID: %w", err)
	}

	booking, err := s.bookingRepo.GetBookingByID(ctx, bookingUUID)
	if err != nil {
		s.logger.Error("Failed to get booking", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": bookingID,
		})
		return err
	}

	if booking.Status == status {
		return nil
	}
	if !domain.CanTransition(booking.Status, status) {
		s.logger.Warn("Rejected booking status transition", map[string]interface{}{
			"booking_id": bookingID,
			"from":       string(booking.Status),
			"to":         string(status),
		})
		return domain.ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateBookingStatus(ctx, bookingUUID, status); err != nil {
		s.logger.Error("Failed to update booking status", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": bookingID,
		})
		return err
	}

	s.invalidateBookingCaches(booking.CarID)

	s.logger.Info("Booking status updated", map[string]interface{}{
		"booking_id": bookingID,
		"from":       string(booking.Status),
		"to":         string(status),
	})
	return nil
}

// GetDashboardData aggregates inventory and booking counters for the admin
// overview.
func (s *BookingService) GetDashboardData(ctx context.Context) (*domain.DashboardData, error) {
	carCounts, err := s.carRepo.CountCarsByStatus(ctx)
	if err != nil {
		s.logger.Error("Failed to count cars", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	bookingCounts, err := s.bookingRepo.CountBookingsByStatus(ctx)
	if err != nil {
		s.logger.Error("Failed to count bookings", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	data := &domain.DashboardData{
		Cars: domain.CarStats{
			Available:   carCounts[domain.CarAvailable],
			Unavailable: carCounts[domain.CarUnavailable],
			Sold:        carCounts[domain.CarSold],
		},
		TestDrives: domain.TestDriveStats{
			Pending:   bookingCounts[domain.BookingPending],
			Confirmed: bookingCounts[domain.BookingConfirmed],
			Completed: bookingCounts[domain.BookingCompleted],
			Cancelled: bookingCounts[domain.BookingCancelled],
			NoShow:    bookingCounts[domain.BookingNoShow],
		},
	}
	data.Cars.Total = data.Cars.Available + data.Cars.Unavailable + data.Cars.Sold
	td := &data.TestDrives
	td.Total = td.Pending + td.Confirmed + td.Completed + td.Cancelled + td.NoShow
	if td.Total > 0 {
		td.ConversionRate = float64(td.Completed) / float64(td.Total) * 100
	}
	return data, nil
}

func (s *BookingService) invalidateBookingCaches(carID uuid.UUID) {
	if err := s.cache.Delete(fmt.Sprintf("car:%s", carID)); err != nil {
		s.logger.Warn("Failed to invalidate car cache", map[string]interface{}{
			"error":  err.Error(),
			"car_id": carID.String(),
		})
	}
}
