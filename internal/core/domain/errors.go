package domain

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access denied")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrCarNotFound        = errors.New("car not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrDealershipNotFound = errors.New("dealership info not found")

	// ErrAlreadyBooked covers both the pre-check and the unique-index
	// violation on the active-booking constraint.
	ErrAlreadyBooked     = errors.New("this car is already booked for the selected time")
	ErrAlreadyCancelled  = errors.New("this booking is already cancelled")
	ErrAlreadyCompleted  = errors.New("this booking is already completed")
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrInvalidWorkingHours rejects schedules that do not cover each day
	// of the week exactly once.
	ErrInvalidWorkingHours = errors.New("working hours must cover each day of the week exactly once")

	ErrRateLimited = errors.New("rate limit exceeded, please try again later")

	// ErrPastDate rejects availability and booking requests for dates
	// strictly before today.
	ErrPastDate = errors.New("date lies in the past")

	// ErrAIResponseInvalid marks a malformed or incomplete model reply.
	ErrAIResponseInvalid = errors.New("invalid ai response")
)
