// Package repository defines the storage contract the services depend on.
// Implementations live in the postgres and memory subpackages.
package repository

import (
	"context"
	"errors"

	"todotracker/internal/domain"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrBadSort   = errors.New("unsupported sort field")
)

// Sortable fields per entity. Both stores accept exactly these names.
var (
	UserSortFields = []string{"login", "role", "dateCreated", "dateUpdated"}
	TodoSortFields = []string{"id", "title", "description", "completed", "priority", "owner", "dateCreated", "dateUpdated"}
)

type UserRepository interface {
	FindByID(ctx context.Context, login string) (domain.User, error)
	ExistsByID(ctx context.Context, login string) (bool, error)
	// Save inserts u when it has never been persisted (zero DateCreated)
	// and updates the stored row otherwise. Inserting a taken login fails
	// with ErrDuplicate.
	Save(ctx context.Context, u *domain.User) error
	DeleteByID(ctx context.Context, login string) error
	FindAll(ctx context.Context, page PageRequest) (Page[domain.User], error)
	FindByRole(ctx context.Context, role domain.Role, page PageRequest) (Page[domain.User], error)
}

type TodoRepository interface {
	FindByID(ctx context.Context, id int64) (domain.Todo, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// Save inserts when t.ID is zero and assigns the generated id,
	// otherwise it updates the existing row.
	Save(ctx context.Context, t *domain.Todo) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, owner string) (int64, error)
	FindAll(ctx context.Context, page PageRequest) (Page[domain.Todo], error)
	FindFiltered(ctx context.Context, filter Filter, page PageRequest) (Page[domain.Todo], error)
	FindByOwner(ctx context.Context, owner string, page PageRequest) (Page[domain.Todo], error)
}

// Transactor runs fn as one atomic unit. Repositories called with the ctx
// passed to fn take part in the same transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
