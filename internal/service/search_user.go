package service

import (
	"context"
	"fmt"

	"todotracker/internal/domain"
	"todotracker/internal/models"
	"todotracker/internal/repository"
)

type SearchUserService struct {
	users repository.UserRepository
}

func NewSearchUserService(users repository.UserRepository) *SearchUserService {
	return &SearchUserService{users: users}
}

// Find lists accounts, optionally only those with the given role.
func (s *SearchUserService) Find(ctx context.Context, caller domain.Identity, role *domain.Role, page repository.PageRequest) (repository.Page[models.UserDTO], error) {
	if err := requireAdmin(caller); err != nil {
		return repository.Page[models.UserDTO]{}, err
	}

	var (
		users repository.Page[domain.User]
		err   error
	)
	if role == nil {
		users, err = s.users.FindAll(ctx, page)
	} else {
		users, err = s.users.FindByRole(ctx, *role, page)
	}
	if err != nil {
		return repository.Page[models.UserDTO]{}, fmt.Errorf("search users: %w", err)
	}
	return repository.MapPage(users, models.NewUserDTO), nil
}
