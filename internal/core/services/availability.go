package services

import (
	"fmt"
	"time"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"
)

const dateLayout = "2006-01-02"

// parseHour extracts the hour component of an "HH:MM" time string.
func parseHour(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour(), nil
}

// AvailableSlots produces the ordered hourly slots between the day's open and
// close hours, excluding slots consumed by a non-cancelled booking on the
// same calendar date. A closed day yields no slots. Open and close times are
// assumed to fall on the hour.
func AvailableSlots(day *domain.WorkingHour, date time.Time, bookings []*domain.TestDriveBooking) []domain.TimeSlot {
	if day == nil || !day.IsOpen {
		return []domain.TimeSlot{}
	}

	openHour, err := parseHour(day.OpenTime)
	if err != nil {
		return []domain.TimeSlot{}
	}
	closeHour, err := parseHour(day.CloseTime)
	if err != nil {
		return []domain.TimeSlot{}
	}
	// an inverted or zero-width schedule offers nothing
	if closeHour <= openHour {
		return []domain.TimeSlot{}
	}

	dateStr := date.Format(dateLayout)
	slots := make([]domain.TimeSlot, 0, closeHour-openHour)
	for hour := openHour; hour < closeHour; hour++ {
		startTime := fmt.Sprintf("%02d:00", hour)
		endTime := fmt.Sprintf("%02d:00", hour+1)

		booked := false
		for _, b := range bookings {
			if b.Status == domain.BookingCancelled {
				continue
			}
			if b.BookingDate.String() != dateStr {
				continue
			}
			if b.StartTime == startTime || b.EndTime == endTime {
				booked = true
				break
			}
		}
		if booked {
			continue
		}

		slots = append(slots, domain.TimeSlot{
			ID:        fmt.Sprintf("%s-%s", startTime, endTime),
			Label:     fmt.Sprintf("%s - %s", startTime, endTime),
			StartTime: startTime,
			EndTime:   endTime,
		})
	}
	return slots
}

// DateBookable reports whether a date can be selected at all: it must not lie
// before today and its weekday must have an open schedule entry.
func DateBookable(date, now time.Time, hours []domain.WorkingHour) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return false
	}
	schedule := ScheduleForDay(hours, domain.DayOfWeekFromTime(date))
	return schedule != nil && schedule.IsOpen
}

// ScheduleForDay finds the working-hour entry for the weekday, or nil.
func ScheduleForDay(hours []domain.WorkingHour, day domain.DayOfWeek) *domain.WorkingHour {
	for i := range hours {
		if hours[i].DayOfWeek == day {
			return &hours[i]
		}
	}
	return nil
}
