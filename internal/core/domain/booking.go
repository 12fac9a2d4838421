package domain

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingNoShow    BookingStatus = "NO_SHOW"
)

type TestDriveBooking struct {
	ID          uuid.UUID     `json:"id"`
	CarID       uuid.UUID     `json:"car_id" validate:"required"`
	Car         *Car          `json:"car,omitempty"`
	UserID      uuid.UUID     `json:"user_id" validate:"required"`
	User        *User         `json:"user,omitempty"`
	BookingDate strfmt.Date   `json:"booking_date" validate:"required"`
	StartTime   string        `json:"start_time" validate:"required,len=5"`
	EndTime     string        `json:"end_time" validate:"required,len=5"`
	Status      BookingStatus `json:"status"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Active reports whether the booking still occupies its slot.
func (b *TestDriveBooking) Active() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

func (b *TestDriveBooking) Terminal() bool {
	switch b.Status {
	case BookingCompleted, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}

// bookingTransitions is the allowed status graph. COMPLETED, CANCELLED and
// NO_SHOW are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled, BookingNoShow},
	BookingCompleted: {},
	BookingCancelled: {},
	BookingNoShow:    {},
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to BookingStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := bookingTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
