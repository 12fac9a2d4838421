package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id" validate:"required"`
	Email      string    `json:"email" validate:"required,email"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Role       UserRole  `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SavedCar is a user-car wishlist bookmark.
type SavedCar struct {
	UserID  uuid.UUID `json:"user_id"`
	CarID   uuid.UUID `json:"car_id"`
	SavedAt time.Time `json:"saved_at"`
}
