package service

import (
	"context"
	"fmt"

	"todotracker/internal/domain"
	"todotracker/internal/models"
	"todotracker/internal/policy"
	"todotracker/internal/repository"
)

// criterion contributes zero or more predicates to a search. A criterion
// whose input is absent contributes nothing.
type criterion func(ctx context.Context) ([]repository.Predicate, error)

type SearchTodoService struct {
	todos     repository.TodoRepository
	principal PrincipalResolver
}

func NewSearchTodoService(todos repository.TodoRepository, principal PrincipalResolver) *SearchTodoService {
	return &SearchTodoService{todos: todos, principal: principal}
}

func (s *SearchTodoService) Find(ctx context.Context, caller domain.Identity, params models.TodoSearchParams) (repository.Page[models.TodoDTO], error) {
	filter, err := s.Filter(ctx, caller, params)
	if err != nil {
		return repository.Page[models.TodoDTO]{}, err
	}

	todos, err := s.todos.FindFiltered(ctx, filter, params.Page)
	if err != nil {
		return repository.Page[models.TodoDTO]{}, fmt.Errorf("search todos: %w", err)
	}
	return repository.MapPage(todos, models.NewTodoDTO), nil
}

// Filter combines every criterion with AND. Non-administrators always get
// an owner constraint on their own account, whatever else they ask for.
func (s *SearchTodoService) Filter(ctx context.Context, caller domain.Identity, params models.TodoSearchParams) (repository.Filter, error) {
	criteria := []criterion{
		s.ownedBy(caller),
		titleIs(params.Title),
		priorityIs(params.Priority),
		completedIs(params.Completed),
	}

	var filter repository.Filter
	for _, c := range criteria {
		predicates, err := c(ctx)
		if err != nil {
			return nil, err
		}
		filter = filter.And(predicates...)
	}
	return filter, nil
}

func (s *SearchTodoService) ownedBy(caller domain.Identity) criterion {
	return func(ctx context.Context) ([]repository.Predicate, error) {
		if policy.IsAdmin(caller) {
			return nil, nil
		}
		owner, err := s.principal.GetLoggedInUser(ctx, caller)
		if err != nil {
			return nil, err
		}
		return []repository.Predicate{repository.OwnerIs(owner.Login)}, nil
	}
}

func titleIs(title *string) criterion {
	return func(context.Context) ([]repository.Predicate, error) {
		if title == nil || *title == "" {
			return nil, nil
		}
		return []repository.Predicate{repository.TitleIs(*title)}, nil
	}
}

func priorityIs(p *domain.Priority) criterion {
	return func(context.Context) ([]repository.Predicate, error) {
		if p == nil {
			return nil, nil
		}
		return []repository.Predicate{repository.PriorityIs(*p)}, nil
	}
}

func completedIs(c *bool) criterion {
	return func(context.Context) ([]repository.Predicate, error) {
		if c == nil {
			return nil, nil
		}
		return []repository.Predicate{repository.CompletedIs(*c)}, nil
	}
}
