package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type fakeUserRepo struct {
	byExternal map[string]*domain.User
	createErr  error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{byExternal: make(map[string]*domain.User)}
	for _, u := range users {
		r.byExternal[u.ExternalID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		// simulate losing the insert race: the winner's row is in place
		r.byExternal[user.ExternalID] = &domain.User{
			ID:         uuid.New(),
			ExternalID: user.ExternalID,
			Email:      user.Email,
			Role:       domain.RoleUser,
		}
		return nil, r.createErr
	}
	if _, ok := r.byExternal[user.ExternalID]; ok {
		return nil, domain.ErrUserExists
	}
	r.byExternal[user.ExternalID] = user
	return user, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, userID uuid.UUID) (*domain.User, error) {
	for _, u := range r.byExternal {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	u, ok := r.byExternal[externalID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ListUsers(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byExternal {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateUserRole(_ context.Context, userID uuid.UUID, role domain.UserRole) error {
	for _, u := range r.byExternal {
		if u.ID == userID {
			u.Role = role
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func newUserService(repo *fakeUserRepo) *UserService {
	return NewUserService(repo, nopLogger{}, validator.New())
}

func TestEnsureUserCreatesOnFirstAccess(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)

	payload := &domain.TokenPayload{
		ExternalID: "ext-1",
		Email:      "first@example.com",
		Name:       "First User",
	}
	user, err := svc.EnsureUser(context.Background(), payload)
	if err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("role = %s, want USER", user.Role)
	}
	if user.Email != "first@example.com" || user.Name != "First User" {
		t.Fatalf("profile not mapped: %+v", user)
	}

	again, err := svc.EnsureUser(context.Background(), payload)
	if err != nil {
		t.Fatalf("second EnsureUser: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("second call created a new user")
	}
}

func TestEnsureUserRejectsEmptyPayload(t *testing.T) {
	svc := newUserService(newFakeUserRepo())

	if _, err := svc.EnsureUser(context.Background(), nil); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("nil payload: err = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.EnsureUser(context.Background(), &domain.TokenPayload{Email: "a@b.c"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("missing external id: err = %v, want ErrUnauthorized", err)
	}
}

func TestEnsureUserSurvivesCreateRace(t *testing.T) {
	// lookup misses, the insert loses to a concurrent request, relookup hits
	repo := newFakeUserRepo()
	repo.createErr = domain.ErrUserExists
	svc := newUserService(repo)

	user, err := svc.EnsureUser(context.Background(), &domain.TokenPayload{ExternalID: "ext-1", Email: "first@example.com"})
	if err != nil {
		t.Fatalf("EnsureUser after losing the race: %v", err)
	}
	if user.ID != repo.byExternal["ext-1"].ID {
		t.Fatalf("expected the winning row to be returned")
	}
}

func TestUpdateUserRole(t *testing.T) {
	user := &domain.User{ID: uuid.New(), ExternalID: "ext-1", Email: "a@b.c", Role: domain.RoleUser}
	repo := newFakeUserRepo(user)
	svc := newUserService(repo)

	if err := svc.UpdateUserRole(context.Background(), user.ID.String(), domain.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("role = %s, want ADMIN", user.Role)
	}

	if err := svc.UpdateUserRole(context.Background(), user.ID.String(), "SUPERUSER"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	if err := svc.UpdateUserRole(context.Background(), "not-a-uuid", domain.RoleUser); err == nil {
		t.Fatalf("expected error for malformed id")
	}
	if err := svc.UpdateUserRole(context.Background(), uuid.New().String(), domain.RoleUser); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}
