package services

import (
	"context"
	"strings"

	"necx-chat/internal/domain/user"
	"necx-chat/internal/repository"
	necx_errors "necx-chat/pkg/errors"
)

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]user.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, necx_errors.AsStorage("fetch users", err)
	}
	return users, nil
}

func (s *UserService) CreateUser(ctx context.Context, name string) (*user.User, error) {
	name, err := requireText(name, user.MaxNameLength,
		"User name is required", "User name must be less than 50 characters")
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, necx_errors.AsStorage("create user", err)
	}
	if existing != nil {
		return nil, necx_errors.Conflict("User with this name already exists")
	}

	u := &user.User{Name: name}
	// The store's case-folded unique index settles concurrent creates as a conflict.
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, necx_errors.AsStorage("create user", err)
	}
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) (*user.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, necx_errors.Validation("User ID is required")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, necx_errors.AsStorage("delete user", err)
	}
	if existing == nil {
		return nil, necx_errors.NotFound("User not found")
	}
	if user.IsProtectedUser(existing.Name) {
		return nil, necx_errors.Validation("Cannot delete default users")
	}

	// Messages that name this user are left as they are.
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, necx_errors.AsStorage("delete user", err)
	}
	if deleted == nil {
		return nil, necx_errors.NotFound("User not found")
	}
	return deleted, nil
}

// FindUserByName returns nil without an error when no user has that name.
func (s *UserService) FindUserByName(ctx context.Context, name string) (*user.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, necx_errors.Validation("User name is required")
	}
	u, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, necx_errors.AsStorage("find user", err)
	}
	return u, nil
}

// GetUserByID returns nil without an error when no user has that id.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*user.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, necx_errors.Validation("User ID is required")
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, necx_errors.AsStorage("find user", err)
	}
	return u, nil
}

// EnsureDefaultUsers seeds the default users into an empty store and reports how
// many users existed beforehand.
func (s *UserService) EnsureDefaultUsers(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, necx_errors.AsStorage("count users", err)
	}
	if count > 0 {
		return count, nil
	}
	for _, name := range user.DefaultNames() {
		if err := s.repo.Create(ctx, &user.User{Name: name}); err != nil {
			if necx_errors.KindOf(err) == necx_errors.KindConflict {
				continue
			}
			return 0, necx_errors.AsStorage("seed default users", err)
		}
	}
	return 0, nil
}
