package ports

import (
	"context"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/google/uuid"
)

type WishlistRepository interface {
	IsSaved(ctx context.Context, userID, carID uuid.UUID) (bool, error)
	SaveCar(ctx context.Context, userID, carID uuid.UUID) error
	RemoveCar(ctx context.Context, userID, carID uuid.UUID) error
	GetSavedCarIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	GetSavedCars(ctx context.Context, userID uuid.UUID) ([]*domain.Car, error)
}
