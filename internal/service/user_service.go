package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"

	"todotracker/internal/domain"
	"todotracker/internal/models"
	"todotracker/internal/policy"
	"todotracker/internal/repository"
)

// RandomPasswordLength is the length of passwords produced by ResetPassword.
const RandomPasswordLength = 10

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

type Hasher interface {
	Hash(plaintext string) (string, error)
}

type UserService struct {
	users  repository.UserRepository
	todos  repository.TodoRepository
	tx     repository.Transactor
	hasher Hasher
}

func NewUserService(users repository.UserRepository, todos repository.TodoRepository, tx repository.Transactor, hasher Hasher) *UserService {
	return &UserService{users: users, todos: todos, tx: tx, hasher: hasher}
}

// GetLoggedInUser loads the stored record of the caller. The account may
// have been deleted after the request was authenticated.
func (s *UserService) GetLoggedInUser(ctx context.Context, caller domain.Identity) (domain.User, error) {
	u, err := s.users.FindByID(ctx, caller.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: %q", ErrUnknownPrincipal, caller.Username)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user %q: %w", caller.Username, err)
	}
	return u, nil
}

func (s *UserService) Me(ctx context.Context, caller domain.Identity) (models.UserDTO, error) {
	u, err := s.GetLoggedInUser(ctx, caller)
	if err != nil {
		return models.UserDTO{}, err
	}
	return models.NewUserDTO(u), nil
}

func requireAdmin(caller domain.Identity) error {
	if !policy.IsAdmin(caller) {
		return fmt.Errorf("%w: %q is not an administrator", ErrAccessDenied, caller.Username)
	}
	return nil
}

func (s *UserService) FindAll(ctx context.Context, caller domain.Identity, page repository.PageRequest) (repository.Page[models.UserDTO], error) {
	if err := requireAdmin(caller); err != nil {
		return repository.Page[models.UserDTO]{}, err
	}
	users, err := s.users.FindAll(ctx, page)
	if err != nil {
		return repository.Page[models.UserDTO]{}, fmt.Errorf("list users: %w", err)
	}
	return repository.MapPage(users, models.NewUserDTO), nil
}

func (s *UserService) FindOne(ctx context.Context, caller domain.Identity, login string) (models.UserDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return models.UserDTO{}, err
	}
	u, err := s.findUser(ctx, login)
	if err != nil {
		return models.UserDTO{}, err
	}
	return models.NewUserDTO(u), nil
}

func (s *UserService) Create(ctx context.Context, caller domain.Identity, in models.UserToAdd) (models.UserDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return models.UserDTO{}, err
	}
	if strings.TrimSpace(in.Login) == "" || in.Password == "" {
		return models.UserDTO{}, fmt.Errorf("%w: login and password are required", ErrValidation)
	}
	if in.Role != "" && !in.Role.Valid() {
		return models.UserDTO{}, fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
	}

	var created domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.users.ExistsByID(ctx, in.Login)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: user %q", ErrConflict, in.Login)
		}

		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		created = domain.User{Login: in.Login, PasswordHash: hash, Role: in.Role}
		if err := s.users.Save(ctx, &created); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("%w: user %q", ErrConflict, in.Login)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.UserDTO{}, err
	}

	log.Printf("user %s has been created", created)
	return models.NewUserDTO(created), nil
}

// Delete removes the account together with every todo it owns.
func (s *UserService) Delete(ctx context.Context, caller domain.Identity, login string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	var removed int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.users.ExistsByID(ctx, login)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: user %q", ErrNotFound, login)
		}
		if removed, err = s.todos.DeleteByOwner(ctx, login); err != nil {
			return fmt.Errorf("delete todos of %q: %w", login, err)
		}
		return s.users.DeleteByID(ctx, login)
	})
	if err != nil {
		return err
	}

	log.Printf("user %q has been removed together with %d todos", login, removed)
	return nil
}

func (s *UserService) ChangeRole(ctx context.Context, caller domain.Identity, login string, role domain.Role) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	u, err := s.mutate(ctx, login, func(u *domain.User) error {
		u.Role = role
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("set %s role for user %s", role, u)
	return nil
}

// ResetPassword stores a new random password and returns it. The plaintext
// is only ever handed to the caller.
func (s *UserService) ResetPassword(ctx context.Context, caller domain.Identity, login string) (string, error) {
	if err := requireAdmin(caller); err != nil {
		return "", err
	}

	password, err := randomAlphanumeric(RandomPasswordLength)
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	u, err := s.mutate(ctx, login, func(u *domain.User) error {
		return s.setPassword(u, password)
	})
	if err != nil {
		return "", err
	}

	log.Printf("reset password for user %s", u)
	return password, nil
}

// ChangePassword is allowed for the account owner and for administrators.
func (s *UserService) ChangePassword(ctx context.Context, caller domain.Identity, login, newPassword string) error {
	if !policy.CanAccessResourceOwnedBy(caller, login) {
		return fmt.Errorf("%w: cannot change other user's password", ErrAccessDenied)
	}
	if newPassword == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}

	u, err := s.mutate(ctx, login, func(u *domain.User) error {
		return s.setPassword(u, newPassword)
	})
	if err != nil {
		return err
	}
	log.Printf("changed password for user %s", u)
	return nil
}

func (s *UserService) setPassword(u *domain.User, plaintext string) error {
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	return nil
}

// mutate loads, changes and saves one user atomically.
func (s *UserService) mutate(ctx context.Context, login string, change func(u *domain.User) error) (domain.User, error) {
	var u domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if u, err = s.findUser(ctx, login); err != nil {
			return err
		}
		if err := change(&u); err != nil {
			return err
		}
		return s.users.Save(ctx, &u)
	})
	return u, err
}

func (s *UserService) findUser(ctx context.Context, login string) (domain.User, error) {
	u, err := s.users.FindByID(ctx, login)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: user %q", ErrNotFound, login)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user %q: %w", login, err)
	}
	return u, nil
}

func randomAlphanumeric(n int) (string, error) {
	limit := big.NewInt(int64(len(alphanumeric)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = alphanumeric[idx.Int64()]
	}
	return string(b), nil
}
