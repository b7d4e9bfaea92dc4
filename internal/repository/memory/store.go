// Package memory is a process-local implementation of the repository
// contract. Both repositories share one Store and one lock.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"todotracker/internal/domain"
	"todotracker/internal/repository"
)

type txKey struct{}

type Store struct {
	mu     sync.Mutex
	users  map[string]domain.User
	todos  map[int64]domain.Todo
	nextID int64
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]domain.User),
		todos: make(map[int64]domain.Todo),
		now:   time.Now,
	}
}

// SetClock replaces the time source used to stamp saved records.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Todos() *TodoRepository { return &TodoRepository{s: s} }

// WithinTx holds the store lock for the whole callback and restores the
// previous state if fn fails or panics. Nested calls join the outer
// transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, todos, nextID := maps.Clone(s.users), maps.Clone(s.todos), s.nextID
	committed := false
	defer func() {
		if !committed {
			s.users, s.todos, s.nextID = users, todos, nextID
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

// lock is a no-op inside WithinTx, where the lock is already held.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func paginate[T any](items []T, req repository.PageRequest) repository.Page[T] {
	req = req.Normalize()
	total := int64(len(items))
	from := min(req.Offset(), len(items))
	to := min(from+req.Size, len(items))
	return repository.NewPage(slices.Clone(items[from:to]), req, total)
}

// sortBy orders items by the requested fields, falling back to base so
// that pages are stable.
func sortBy[T any](items []T, orders []repository.Order, cmps map[string]func(a, b T) int, base func(a, b T) int) error {
	chain := make([]func(a, b T) int, 0, len(orders)+1)
	for _, o := range orders {
		cmp, ok := cmps[o.Field]
		if !ok {
			return fmt.Errorf("%w: %q", repository.ErrBadSort, o.Field)
		}
		if o.Desc {
			asc := cmp
			cmp = func(a, b T) int { return -asc(a, b) }
		}
		chain = append(chain, cmp)
	}
	chain = append(chain, base)

	slices.SortStableFunc(items, func(a, b T) int {
		for _, cmp := range chain {
			if c := cmp(a, b); c != 0 {
				return c
			}
		}
		return 0
	})
	return nil
}
