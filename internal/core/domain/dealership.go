package domain

import (
	"time"

	"github.com/google/uuid"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// DayOfWeekFromTime maps a calendar date to the schedule enum.
func DayOfWeekFromTime(t time.Time) DayOfWeek {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// DealershipInfo is a singleton row; provisioning at startup guarantees it
// exists before any request is served.
type DealershipInfo struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email"`
	WorkingHours []WorkingHour `json:"working_hours,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type WorkingHour struct {
	ID           uuid.UUID `json:"id"`
	DealershipID uuid.UUID `json:"dealership_id"`
	DayOfWeek    DayOfWeek `json:"day_of_week" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	OpenTime     string    `json:"open_time" validate:"required,len=5"`
	CloseTime    string    `json:"close_time" validate:"required,len=5"`
	IsOpen       bool      `json:"is_open"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultWorkingHours is the schedule provisioned with a fresh dealership:
// weekdays 09-18, Saturday 10-16, closed Sunday.
func DefaultWorkingHours() []WorkingHour {
	hours := make([]WorkingHour, 0, 7)
	for _, day := range []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday} {
		hours = append(hours, WorkingHour{DayOfWeek: day, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true})
	}
	hours = append(hours,
		WorkingHour{DayOfWeek: Saturday, OpenTime: "10:00", CloseTime: "16:00", IsOpen: true},
		WorkingHour{DayOfWeek: Sunday, OpenTime: "10:00", CloseTime: "16:00", IsOpen: false},
	)
	return hours
}
