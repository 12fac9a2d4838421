package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return v, nil
}

func (c *fakeCache) Set(key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *fakeCache) Delete(keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

type fakeCarRepo struct {
	cars map[uuid.UUID]*domain.Car
}

func newFakeCarRepo(cars ...*domain.Car) *fakeCarRepo {
	r := &fakeCarRepo{cars: make(map[uuid.UUID]*domain.Car)}
	for _, c := range cars {
		r.cars[c.ID] = c
	}
	return r
}

func (r *fakeCarRepo) CreateCar(_ context.Context, car *domain.Car) (*domain.Car, error) {
	r.cars[car.ID] = car
	return car, nil
}

func (r *fakeCarRepo) GetCarByID(_ context.Context, carID uuid.UUID) (*domain.Car, error) {
	car, ok := r.cars[carID]
	if !ok {
		return nil, domain.ErrCarNotFound
	}
	return car, nil
}

func (r *fakeCarRepo) ListCars(_ context.Context, _ domain.CarFilters) ([]*domain.Car, int, error) {
	var out []*domain.Car
	for _, c := range r.cars {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (r *fakeCarRepo) SearchCars(_ context.Context, _ string) ([]*domain.Car, error) {
	return nil, nil
}

func (r *fakeCarRepo) GetFeaturedCars(_ context.Context, limit int) ([]*domain.Car, error) {
	var out []*domain.Car
	for _, c := range r.cars {
		if c.Featured && c.Status == domain.CarAvailable {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCarRepo) GetCarFacets(_ context.Context) (*domain.CarFacets, error) {
	return &domain.CarFacets{}, nil
}

func (r *fakeCarRepo) UpdateCarStatus(_ context.Context, carID uuid.UUID, status *domain.CarStatus, featured *bool) error {
	car, ok := r.cars[carID]
	if !ok {
		return domain.ErrCarNotFound
	}
	if status != nil {
		car.Status = *status
	}
	if featured != nil {
		car.Featured = *featured
	}
	return nil
}

func (r *fakeCarRepo) DeleteCar(_ context.Context, carID uuid.UUID) error {
	if _, ok := r.cars[carID]; !ok {
		return domain.ErrCarNotFound
	}
	delete(r.cars, carID)
	return nil
}

func (r *fakeCarRepo) CountCarsByStatus(_ context.Context) (map[domain.CarStatus]int, error) {
	counts := make(map[domain.CarStatus]int)
	for _, c := range r.cars {
		counts[c.Status]++
	}
	return counts, nil
}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*domain.TestDriveBooking
}

func newFakeBookingRepo(bookings ...*domain.TestDriveBooking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: make(map[uuid.UUID]*domain.TestDriveBooking)}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) CreateBooking(_ context.Context, booking *domain.TestDriveBooking) (*domain.TestDriveBooking, error) {
	for _, b := range r.bookings {
		if b.Active() && b.CarID == booking.CarID &&
			b.BookingDate.String() == booking.BookingDate.String() &&
			b.StartTime == booking.StartTime {
			return nil, domain.ErrAlreadyBooked
		}
	}
	r.bookings[booking.ID] = booking
	return booking, nil
}

func (r *fakeBookingRepo) GetBookingByID(_ context.Context, bookingID uuid.UUID) (*domain.TestDriveBooking, error) {
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return b, nil
}

func (r *fakeBookingRepo) HasActiveBooking(_ context.Context, carID uuid.UUID, date strfmt.Date, startTime string) (bool, error) {
	for _, b := range r.bookings {
		if b.Active() && b.CarID == carID &&
			b.BookingDate.String() == date.String() && b.StartTime == startTime {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) GetCarBookingsForDate(_ context.Context, carID uuid.UUID, date strfmt.Date) ([]*domain.TestDriveBooking, error) {
	var out []*domain.TestDriveBooking
	for _, b := range r.bookings {
		if b.CarID == carID && b.BookingDate.String() == date.String() && b.Status != domain.BookingCancelled {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetLatestUserBookingForCar(_ context.Context, carID, userID uuid.UUID) (*domain.TestDriveBooking, error) {
	for _, b := range r.bookings {
		if b.CarID == carID && b.UserID == userID && b.Status != domain.BookingCancelled {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) GetBookingsByUserID(_ context.Context, userID uuid.UUID) ([]*domain.TestDriveBooking, error) {
	var out []*domain.TestDriveBooking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListBookings(_ context.Context, status domain.BookingStatus, _ string) ([]*domain.TestDriveBooking, error) {
	var out []*domain.TestDriveBooking
	for _, b := range r.bookings {
		if status == "" || b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateBookingStatus(_ context.Context, bookingID uuid.UUID, status domain.BookingStatus) error {
	b, ok := r.bookings[bookingID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (r *fakeBookingRepo) CountBookingsByStatus(_ context.Context) (map[domain.BookingStatus]int, error) {
	counts := make(map[domain.BookingStatus]int)
	for _, b := range r.bookings {
		counts[b.Status]++
	}
	return counts, nil
}
