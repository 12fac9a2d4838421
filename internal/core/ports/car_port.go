package ports

import (
	"context"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/google/uuid"
)

type CarRepository interface {
	CreateCar(ctx context.Context, car *domain.Car) (*domain.Car, error)
	GetCarByID(ctx context.Context, carID uuid.UUID) (*domain.Car, error)
	// ListCars applies the listing filters over AVAILABLE inventory and
	// returns the page plus the total matching count.
	ListCars(ctx context.Context, filters domain.CarFilters) ([]*domain.Car, int, error)
	// SearchCars is the admin inventory view: all statuses, optional
	// free-text match on make/model/color, newest first.
	SearchCars(ctx context.Context, search string) ([]*domain.Car, error)
	GetFeaturedCars(ctx context.Context, limit int) ([]*domain.Car, error)
	GetCarFacets(ctx context.Context) (*domain.CarFacets, error)
	UpdateCarStatus(ctx context.Context, carID uuid.UUID, status *domain.CarStatus, featured *bool) error
	DeleteCar(ctx context.Context, carID uuid.UUID) error
	CountCarsByStatus(ctx context.Context) (map[domain.CarStatus]int, error)
}
