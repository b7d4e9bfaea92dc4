package memory

import (
	"cmp"
	"context"

	"todotracker/internal/domain"
	"todotracker/internal/repository"
)

type TodoRepository struct {
	s *Store
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

var todoComparators = map[string]func(a, b domain.Todo) int{
	"id":          func(a, b domain.Todo) int { return cmp.Compare(a.ID, b.ID) },
	"title":       func(a, b domain.Todo) int { return cmp.Compare(a.Title, b.Title) },
	"description": func(a, b domain.Todo) int { return cmp.Compare(a.Description, b.Description) },
	"completed":   func(a, b domain.Todo) int { return compareBool(a.Completed, b.Completed) },
	"priority":    func(a, b domain.Todo) int { return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()) },
	"owner":       func(a, b domain.Todo) int { return cmp.Compare(a.Owner, b.Owner) },
	"dateCreated": func(a, b domain.Todo) int { return a.DateCreated.Compare(b.DateCreated) },
	"dateUpdated": func(a, b domain.Todo) int { return a.DateUpdated.Compare(b.DateUpdated) },
}

func (r *TodoRepository) FindByID(ctx context.Context, id int64) (domain.Todo, error) {
	defer r.s.lock(ctx)()
	t, ok := r.s.todos[id]
	if !ok {
		return domain.Todo{}, repository.ErrNotFound
	}
	return t, nil
}

func (r *TodoRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	defer r.s.lock(ctx)()
	_, ok := r.s.todos[id]
	return ok, nil
}

func (r *TodoRepository) Save(ctx context.Context, t *domain.Todo) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.users[t.Owner]; !ok {
		return repository.ErrNotFound
	}
	if t.ID == 0 {
		r.s.nextID++
		t.ID = r.s.nextID
	} else if prev, ok := r.s.todos[t.ID]; ok {
		t.DateCreated = prev.DateCreated
	} else {
		return repository.ErrNotFound
	}
	t.Touch(r.s.now())
	r.s.todos[t.ID] = *t
	return nil
}

func (r *TodoRepository) DeleteByID(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.todos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.todos, id)
	return nil
}

func (r *TodoRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	defer r.s.lock(ctx)()
	var n int64
	for id, t := range r.s.todos {
		if t.Owner == owner {
			delete(r.s.todos, id)
			n++
		}
	}
	return n, nil
}

func (r *TodoRepository) FindAll(ctx context.Context, page repository.PageRequest) (repository.Page[domain.Todo], error) {
	return r.FindFiltered(ctx, nil, page)
}

func (r *TodoRepository) FindByOwner(ctx context.Context, owner string, page repository.PageRequest) (repository.Page[domain.Todo], error) {
	return r.FindFiltered(ctx, repository.Filter{repository.OwnerIs(owner)}, page)
}

func (r *TodoRepository) FindFiltered(ctx context.Context, filter repository.Filter, page repository.PageRequest) (repository.Page[domain.Todo], error) {
	if err := filter.Validate(); err != nil {
		return repository.Page[domain.Todo]{}, err
	}

	defer r.s.lock(ctx)()

	var todos []domain.Todo
	for _, t := range r.s.todos {
		if filter.Matches(t) {
			todos = append(todos, t)
		}
	}
	if err := sortBy(todos, page.Sort, todoComparators, todoComparators["id"]); err != nil {
		return repository.Page[domain.Todo]{}, err
	}
	return paginate(todos, page), nil
}
