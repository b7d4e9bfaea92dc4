package service

import (
	"context"
	"fmt"
	"log"

	"todotracker/internal/domain"
)

// EnsureAdmin creates an administrator account when login does not exist
// yet. It runs on startup, before any caller is authenticated, and leaves
// an existing account untouched.
func (s *UserService) EnsureAdmin(ctx context.Context, login, password string) (bool, error) {
	if login == "" || password == "" {
		return false, fmt.Errorf("%w: admin login and password are required", ErrValidation)
	}

	created := false
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.users.ExistsByID(ctx, login)
		if err != nil || exists {
			return err
		}
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u := domain.User{Login: login, PasswordHash: hash, Role: domain.RoleAdmin}
		if err := s.users.Save(ctx, &u); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		log.Printf("created administrator %q", login)
	}
	return created, nil
}
