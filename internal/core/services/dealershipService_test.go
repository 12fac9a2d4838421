package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/go-openapi/strfmt"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func newDealershipService(dealerRepo *fakeDealerRepo, bookingRepo *fakeBookingRepo, carRepo *fakeCarRepo) *DealershipService {
	return NewDealershipService(dealerRepo, bookingRepo, carRepo, nopLogger{}, validator.New(), newFakeCache())
}

func TestEnsureDealership(t *testing.T) {
	repo := &fakeDealerRepo{}
	svc := newDealershipService(repo, newFakeBookingRepo(), newFakeCarRepo())

	first, err := svc.EnsureDealership(context.Background())
	if err != nil {
		t.Fatalf("EnsureDealership: %v", err)
	}
	if len(first.WorkingHours) != 7 {
		t.Fatalf("working hours = %d entries, want 7", len(first.WorkingHours))
	}

	second, err := svc.EnsureDealership(context.Background())
	if err != nil {
		t.Fatalf("second EnsureDealership: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second call created a new dealership")
	}
}

func TestSaveWorkingHours(t *testing.T) {
	fullWeek := func() []domain.WorkingHour {
		return domain.DefaultWorkingHours()
	}

	tests := []struct {
		name    string
		hours   func() []domain.WorkingHour
		wantErr error
	}{
		{name: "full week accepted", hours: fullWeek},
		{
			name: "six entries rejected",
			hours: func() []domain.WorkingHour {
				return fullWeek()[:6]
			},
			wantErr: domain.ErrInvalidWorkingHours,
		},
		{
			name: "duplicate day rejected",
			hours: func() []domain.WorkingHour {
				hours := fullWeek()
				hours[1].DayOfWeek = domain.Monday
				return hours
			},
			wantErr: domain.ErrInvalidWorkingHours,
		},
		{
			name: "close before open rejected",
			hours: func() []domain.WorkingHour {
				hours := fullWeek()
				hours[0].OpenTime = "18:00"
				hours[0].CloseTime = "09:00"
				return hours
			},
			wantErr: domain.ErrInvalidWorkingHours,
		},
		{
			name: "close equal to open rejected",
			hours: func() []domain.WorkingHour {
				hours := fullWeek()
				hours[0].CloseTime = hours[0].OpenTime
				return hours
			},
			wantErr: domain.ErrInvalidWorkingHours,
		},
		{
			name: "inverted hours on a closed day accepted",
			hours: func() []domain.WorkingHour {
				hours := fullWeek()
				hours[6].OpenTime = "18:00"
				hours[6].CloseTime = "09:00"
				hours[6].IsOpen = false
				return hours
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeDealerRepo{info: &domain.DealershipInfo{ID: uuid.New()}}
			svc := newDealershipService(repo, newFakeBookingRepo(), newFakeCarRepo())

			err := svc.SaveWorkingHours(context.Background(), tt.hours())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && len(repo.info.WorkingHours) != 7 {
				t.Fatalf("schedule not replaced")
			}
		})
	}
}

func TestSaveWorkingHoursRejectsMalformedTimes(t *testing.T) {
	repo := &fakeDealerRepo{info: &domain.DealershipInfo{ID: uuid.New()}}
	svc := newDealershipService(repo, newFakeBookingRepo(), newFakeCarRepo())

	hours := domain.DefaultWorkingHours()
	hours[0].OpenTime = "9:00"
	if err := svc.SaveWorkingHours(context.Background(), hours); err == nil {
		t.Fatalf("expected validation error for a four-character open time")
	}
}

func TestGetAvailabilityPastDate(t *testing.T) {
	car := testCar(domain.CarAvailable)
	repo := &fakeDealerRepo{info: &domain.DealershipInfo{
		ID:           uuid.New(),
		WorkingHours: domain.DefaultWorkingHours(),
	}}
	svc := newDealershipService(repo, newFakeBookingRepo(), newFakeCarRepo(car))
	svc.now = func() time.Time {
		return time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	}

	_, err := svc.GetAvailability(context.Background(), car.ID.String(), "2026-09-09")
	if !errors.Is(err, domain.ErrPastDate) {
		t.Fatalf("err = %v, want ErrPastDate", err)
	}
}

func TestGetAvailabilityCutoffUsesUTC(t *testing.T) {
	car := testCar(domain.CarAvailable)
	repo := &fakeDealerRepo{info: &domain.DealershipInfo{
		ID:           uuid.New(),
		WorkingHours: domain.DefaultWorkingHours(),
	}}
	svc := newDealershipService(repo, newFakeBookingRepo(), newFakeCarRepo(car))

	// local midnight already past in UTC+13 while UTC is still on the 14th,
	// an open Monday: the request for that UTC date must not read as past
	zone := time.FixedZone("UTC+13", 13*60*60)
	svc.now = func() time.Time {
		return time.Date(2026, 9, 15, 0, 30, 0, 0, zone)
	}

	slots, err := svc.GetAvailability(context.Background(), car.ID.String(), "2026-09-14")
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(slots) == 0 {
		t.Fatalf("expected open slots for the current UTC date")
	}
}

func TestGetAvailabilityUnknownCar(t *testing.T) {
	repo := &fakeDealerRepo{info: &domain.DealershipInfo{
		ID:           uuid.New(),
		WorkingHours: domain.DefaultWorkingHours(),
	}}
	svc := newDealershipService(repo, newFakeBookingRepo(), newFakeCarRepo())

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	_, err := svc.GetAvailability(context.Background(), uuid.New().String(), tomorrow)
	if !errors.Is(err, domain.ErrCarNotFound) {
		t.Fatalf("err = %v, want ErrCarNotFound", err)
	}
}

func TestGetAvailabilityInvertedScheduleYieldsNoSlots(t *testing.T) {
	car := testCar(domain.CarAvailable)

	hours := domain.DefaultWorkingHours()
	hours[0].OpenTime = "18:00"
	hours[0].CloseTime = "09:00"
	repo := &fakeDealerRepo{info: &domain.DealershipInfo{ID: uuid.New(), WorkingHours: hours}}
	svc := newDealershipService(repo, newFakeBookingRepo(), newFakeCarRepo(car))

	date := time.Now().AddDate(0, 0, 1)
	for date.Weekday() != time.Monday {
		date = date.AddDate(0, 0, 1)
	}

	slots, err := svc.GetAvailability(context.Background(), car.ID.String(), date.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots for an inverted schedule, got %d", len(slots))
	}
}

func TestGetAvailabilitySkipsBookedSlots(t *testing.T) {
	car := testCar(domain.CarAvailable)
	repo := &fakeDealerRepo{info: &domain.DealershipInfo{
		ID:           uuid.New(),
		WorkingHours: domain.DefaultWorkingHours(),
	}}

	// next Monday, open 09:00-18:00 in the default schedule
	date := time.Now().AddDate(0, 0, 1)
	for date.Weekday() != time.Monday {
		date = date.AddDate(0, 0, 1)
	}

	booked := bookingFixture(car.ID, uuid.New(), domain.BookingConfirmed)
	booked.BookingDate = dateOnly(date)
	booked.StartTime = "10:00"
	booked.EndTime = "11:00"

	svc := newDealershipService(repo, newFakeBookingRepo(booked), newFakeCarRepo(car))

	slots, err := svc.GetAvailability(context.Background(), car.ID.String(), date.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(slots) != 8 {
		t.Fatalf("slots = %d, want 8 with one booked hour", len(slots))
	}
	for _, slot := range slots {
		if slot.StartTime == "10:00" {
			t.Fatalf("booked slot still offered: %+v", slot)
		}
	}
}

func dateOnly(t time.Time) strfmt.Date {
	parsed, _ := time.Parse("2006-01-02", t.Format("2006-01-02"))
	return strfmt.Date(parsed)
}
