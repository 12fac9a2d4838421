package ports

import (
	"context"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *domain.TestDriveBooking) (*domain.TestDriveBooking, error)
	GetBookingByID(ctx context.Context, bookingID uuid.UUID) (*domain.TestDriveBooking, error)
	// HasActiveBooking reports whether a PENDING or CONFIRMED booking
	// already occupies (carID, date, startTime).
	HasActiveBooking(ctx context.Context, carID uuid.UUID, date strfmt.Date, startTime string) (bool, error)
	// GetCarBookingsForDate returns every non-CANCELLED booking for the car
	// on the given date, for slot exclusion.
	GetCarBookingsForDate(ctx context.Context, carID uuid.UUID, date strfmt.Date) ([]*domain.TestDriveBooking, error)
	// GetLatestUserBookingForCar returns the user's most recent
	// PENDING/CONFIRMED/COMPLETED booking for the car, or nil.
	GetLatestUserBookingForCar(ctx context.Context, carID, userID uuid.UUID) (*domain.TestDriveBooking, error)
	GetBookingsByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.TestDriveBooking, error)
	ListBookings(ctx context.Context, status domain.BookingStatus, search string) ([]*domain.TestDriveBooking, error)
	UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status domain.BookingStatus) error
	CountBookingsByStatus(ctx context.Context) (map[domain.BookingStatus]int, error)
}
