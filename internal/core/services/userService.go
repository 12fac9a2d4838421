package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UserService struct {
	userRepo ports.UserRepository
	logger   ports.LoggerPort
	validate *validator.Validate
}

func NewUserService(userRepo ports.UserRepository, logger ports.LoggerPort, validate *validator.Validate) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
		validate: validate,
	}
}

// EnsureUser resolves the external identity to a local user row, creating it
// with the USER role on first authenticated access.
func (s *UserService) EnsureUser(ctx context.Context, payload *domain.TokenPayload) (*domain.User, error) {
	if payload == nil || payload.ExternalID == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.userRepo.GetUserByExternalID(ctx, payload.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Error("Failed to look up user", map[string]interface{}{
			"error":       err.Error(),
			"external_id": payload.ExternalID,
		})
		return nil, err
	}

	newUser := &domain.User{
		ID:         uuid.New(),
		ExternalID: payload.ExternalID,
		Email:      payload.Email,
		Name:       payload.Name,
		ImageURL:   payload.ImageURL,
		Role:       domain.RoleUser,
	}
	if err := s.validate.Struct(newUser); err != nil {
		s.logger.Error("User validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	created, err := s.userRepo.CreateUser(ctx, newUser)
	if err != nil {
		// Lost a race with a concurrent first request for the same
		// identity; the row exists now.
		if existing, lookupErr := s.userRepo.GetUserByExternalID(ctx, payload.ExternalID); lookupErr == nil {
			return existing, nil
		}
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error":       err.Error(),
			"external_id": payload.ExternalID,
		})
		return nil, err
	}

	s.logger.Info("User created on first access", map[string]interface{}{
		"user_id":     created.ID,
		"external_id": created.ExternalID,
	})
	return created, nil
}

func (s *UserService) GetUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return users, nil
}

func (s *UserService) UpdateUserRole(ctx context.Context, userID string, role domain.UserRole) error {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return fmt.Errorf("validation error: invalid role %q", role)
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}

	if err := s.userRepo.UpdateUserRole(ctx, userUUID, role); err != nil {
		s.logger.Error("Failed to update user role", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		return err
	}

	s.logger.Info("User role updated", map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
	})
	return nil
}
