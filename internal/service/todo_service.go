package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"todotracker/internal/domain"
	"todotracker/internal/models"
	"todotracker/internal/policy"
	"todotracker/internal/repository"
)

// PrincipalResolver loads the stored account of an authenticated caller.
type PrincipalResolver interface {
	GetLoggedInUser(ctx context.Context, caller domain.Identity) (domain.User, error)
}

type TodoService struct {
	todos     repository.TodoRepository
	tx        repository.Transactor
	principal PrincipalResolver
}

func NewTodoService(todos repository.TodoRepository, tx repository.Transactor, principal PrincipalResolver) *TodoService {
	return &TodoService{todos: todos, tx: tx, principal: principal}
}

// FindAll pages through every todo for administrators and through the
// caller's own todos for everybody else.
func (s *TodoService) FindAll(ctx context.Context, caller domain.Identity, page repository.PageRequest) (repository.Page[models.TodoDTO], error) {
	var (
		todos repository.Page[domain.Todo]
		err   error
	)
	if policy.IsAdmin(caller) {
		todos, err = s.todos.FindAll(ctx, page)
	} else {
		var owner domain.User
		if owner, err = s.principal.GetLoggedInUser(ctx, caller); err != nil {
			return repository.Page[models.TodoDTO]{}, err
		}
		todos, err = s.todos.FindByOwner(ctx, owner.Login, page)
	}
	if err != nil {
		return repository.Page[models.TodoDTO]{}, fmt.Errorf("list todos: %w", err)
	}
	return repository.MapPage(todos, models.NewTodoDTO), nil
}

// Create stores a new todo owned by the caller.
func (s *TodoService) Create(ctx context.Context, caller domain.Identity, in models.TodoToAdd) (models.TodoDTO, error) {
	var todo domain.Todo
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		todo, err = s.create(ctx, caller, in)
		return err
	})
	if err != nil {
		return models.TodoDTO{}, err
	}
	log.Printf("todo %s has been created", todo)
	return models.NewTodoDTO(todo), nil
}

func (s *TodoService) create(ctx context.Context, caller domain.Identity, in models.TodoToAdd) (domain.Todo, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return domain.Todo{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	owner, err := s.principal.GetLoggedInUser(ctx, caller)
	if err != nil {
		return domain.Todo{}, err
	}

	todo := domain.Todo{Owner: owner.Login}
	apply(&todo, in)
	err = s.todos.Save(ctx, &todo)
	if errors.Is(err, repository.ErrNotFound) {
		// the owner account vanished after it was resolved
		return domain.Todo{}, fmt.Errorf("%w: %q", ErrUnknownPrincipal, owner.Login)
	}
	if err != nil {
		return domain.Todo{}, fmt.Errorf("save todo: %w", err)
	}
	return todo, nil
}

// GetOne hides todos the caller may not see behind ErrNotFound.
func (s *TodoService) GetOne(ctx context.Context, caller domain.Identity, id int64) (models.TodoDTO, error) {
	todo, err := s.todos.FindByID(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return models.TodoDTO{}, fmt.Errorf("load todo %d: %w", id, err)
	}
	if err != nil || !policy.CanAccessTask(caller, todo) {
		return models.TodoDTO{}, fmt.Errorf("%w: todo %d", ErrNotFound, id)
	}
	return models.NewTodoDTO(todo), nil
}

// Update applies the non-nil fields of in to the todo with the given id.
// When that todo does not exist or belongs to somebody else the payload is
// stored as a new todo of the caller instead.
func (s *TodoService) Update(ctx context.Context, caller domain.Identity, id int64, in models.TodoToAdd) (models.TodoDTO, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return models.TodoDTO{}, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}

	var (
		todo    domain.Todo
		created bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.todos.FindByID(ctx, id)
		switch {
		case err == nil && policy.CanAccessTask(caller, existing):
			apply(&existing, in)
			if err := s.todos.Save(ctx, &existing); err != nil {
				return fmt.Errorf("save todo %d: %w", id, err)
			}
			todo = existing
			return nil
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("load todo %d: %w", id, err)
		}

		created = true
		todo, err = s.create(ctx, caller, in)
		return err
	})
	if err != nil {
		return models.TodoDTO{}, err
	}

	if created {
		log.Printf("todo %d not available to %q, created todo %s instead", id, caller.Username, todo)
	} else {
		log.Printf("todo %s has been updated", todo)
	}
	return models.NewTodoDTO(todo), nil
}

func (s *TodoService) Delete(ctx context.Context, caller domain.Identity, id int64) error {
	var todo domain.Todo
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		todo, err = s.todos.FindByID(ctx, id)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("load todo %d: %w", id, err)
		}
		if err != nil || !policy.CanAccessTask(caller, todo) {
			return fmt.Errorf("%w: todo %d", ErrNotFound, id)
		}
		return s.todos.DeleteByID(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Printf("todo %s has been removed", todo)
	return nil
}

// apply copies the present fields of in onto t. Owner and id are never
// taken from the payload.
func apply(t *domain.Todo, in models.TodoToAdd) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
}
