package ports

import (
	"context"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/google/uuid"
)

type DealershipRepository interface {
	// GetDealership returns the singleton row with its working hours.
	GetDealership(ctx context.Context) (*domain.DealershipInfo, error)
	CreateDealership(ctx context.Context, info *domain.DealershipInfo) (*domain.DealershipInfo, error)
	// ReplaceWorkingHours swaps the full weekly schedule in one transaction.
	ReplaceWorkingHours(ctx context.Context, dealershipID uuid.UUID, hours []domain.WorkingHour) error
}
