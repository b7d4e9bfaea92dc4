package memory

import (
	"cmp"
	"context"

	"todotracker/internal/domain"
	"todotracker/internal/repository"
)

type UserRepository struct {
	s *Store
}

var userComparators = map[string]func(a, b domain.User) int{
	"login":       func(a, b domain.User) int { return cmp.Compare(a.Login, b.Login) },
	"role":        func(a, b domain.User) int { return cmp.Compare(a.Role, b.Role) },
	"dateCreated": func(a, b domain.User) int { return a.DateCreated.Compare(b.DateCreated) },
	"dateUpdated": func(a, b domain.User) int { return a.DateUpdated.Compare(b.DateUpdated) },
}

func (r *UserRepository) FindByID(ctx context.Context, login string) (domain.User, error) {
	defer r.s.lock(ctx)()
	u, ok := r.s.users[login]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) ExistsByID(ctx context.Context, login string) (bool, error) {
	defer r.s.lock(ctx)()
	_, ok := r.s.users[login]
	return ok, nil
}

func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	defer r.s.lock(ctx)()
	prev, exists := r.s.users[u.Login]
	switch {
	case u.DateCreated.IsZero() && exists:
		return repository.ErrDuplicate
	case !u.DateCreated.IsZero() && !exists:
		return repository.ErrNotFound
	case exists:
		u.DateCreated = prev.DateCreated
	}
	u.Touch(r.s.now())
	r.s.users[u.Login] = *u
	return nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, login string) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.users[login]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, login)
	return nil
}

func (r *UserRepository) FindAll(ctx context.Context, page repository.PageRequest) (repository.Page[domain.User], error) {
	return r.find(ctx, page, func(domain.User) bool { return true })
}

func (r *UserRepository) FindByRole(ctx context.Context, role domain.Role, page repository.PageRequest) (repository.Page[domain.User], error) {
	return r.find(ctx, page, func(u domain.User) bool { return u.Role == role })
}

func (r *UserRepository) find(ctx context.Context, page repository.PageRequest, keep func(domain.User) bool) (repository.Page[domain.User], error) {
	defer r.s.lock(ctx)()

	var users []domain.User
	for _, u := range r.s.users {
		if keep(u) {
			users = append(users, u)
		}
	}
	if err := sortBy(users, page.Sort, userComparators, userComparators["login"]); err != nil {
		return repository.Page[domain.User]{}, err
	}
	return paginate(users, page), nil
}
