package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"todotracker/internal/domain"
	"todotracker/internal/repository"
)

func seed(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := NewStore()

	for _, u := range []domain.User{
		{Login: "admin", PasswordHash: "h", Role: domain.RoleAdmin},
		{Login: "alice", PasswordHash: "h"},
		{Login: "bob", PasswordHash: "h"},
	} {
		u := u
		if err := s.Users().Save(ctx, &u); err != nil {
			t.Fatalf("save user: %v", err)
		}
	}

	for _, todo := range []domain.Todo{
		{Title: "a1", Owner: "alice", Priority: domain.PriorityLow},
		{Title: "a2", Owner: "alice", Priority: domain.PriorityHigh, Completed: true},
		{Title: "b1", Owner: "bob"},
	} {
		todo := todo
		if err := s.Todos().Save(ctx, &todo); err != nil {
			t.Fatalf("save todo: %v", err)
		}
	}
	return s
}

func TestUserSaveKeepsDateCreated(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	first := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return first })

	u := domain.User{Login: "alice", PasswordHash: "h"}
	if err := s.Users().Save(ctx, &u); err != nil {
		t.Fatalf("save: %v", err)
	}

	s.SetClock(func() time.Time { return first.Add(time.Hour) })
	dup := domain.User{Login: "alice", PasswordHash: "other"}
	if err := s.Users().Save(ctx, &dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	u.PasswordHash, u.Role = "h2", domain.RoleAdmin
	if err := s.Users().Save(ctx, &u); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Users().FindByID(ctx, "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !got.DateCreated.Equal(first) {
		t.Errorf("dateCreated changed to %v", got.DateCreated)
	}
	if !got.DateUpdated.Equal(first.Add(time.Hour)) {
		t.Errorf("dateUpdated not refreshed: %v", got.DateUpdated)
	}
	if got.Role != domain.RoleAdmin || got.PasswordHash != "h2" {
		t.Errorf("unexpected user %+v", got)
	}
}

func TestTodoSaveAssignsIDs(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	todo := domain.Todo{Title: "new", Owner: "alice"}
	if err := s.Todos().Save(ctx, &todo); err != nil {
		t.Fatalf("save: %v", err)
	}
	if todo.ID != 4 {
		t.Errorf("expected id 4, got %d", todo.ID)
	}
	if todo.Priority != domain.PriorityMedium {
		t.Errorf("expected default priority, got %s", todo.Priority)
	}

	ghost := domain.Todo{ID: 999, Title: "ghost", Owner: "alice"}
	if err := s.Todos().Save(ctx, &ghost); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}

	orphan := domain.Todo{Title: "orphan", Owner: "nobody"}
	if err := s.Todos().Save(ctx, &orphan); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown owner, got %v", err)
	}
}

func TestFindFilteredAndPaging(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	testCases := []struct {
		name   string
		filter repository.Filter
		page   repository.PageRequest
		titles []string
		total  int64
	}{
		{"all", nil, repository.NewPageRequest(0, 10), []string{"a1", "a2", "b1"}, 3},
		{"owner", repository.Filter{repository.OwnerIs("alice")}, repository.NewPageRequest(0, 10), []string{"a1", "a2"}, 2},
		{"owner and completed", repository.Filter{repository.OwnerIs("alice"), repository.CompletedIs(true)}, repository.NewPageRequest(0, 10), []string{"a2"}, 1},
		{"second page", nil, repository.NewPageRequest(1, 2), []string{"b1"}, 3},
		{"past the end", nil, repository.NewPageRequest(5, 2), []string{}, 3},
		{"sorted by priority", nil, repository.NewPageRequest(0, 10, repository.Order{Field: "priority"}), []string{"a2", "b1", "a1"}, 3},
		{"sorted by title desc", nil, repository.NewPageRequest(0, 10, repository.Order{Field: "title", Desc: true}), []string{"b1", "a2", "a1"}, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := s.Todos().FindFiltered(ctx, tc.filter, tc.page)
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if page.TotalElements != tc.total {
				t.Errorf("expected total %d, got %d", tc.total, page.TotalElements)
			}
			if len(page.Content) != len(tc.titles) {
				t.Fatalf("expected %d todos, got %d", len(tc.titles), len(page.Content))
			}
			for i, title := range tc.titles {
				if page.Content[i].Title != title {
					t.Errorf("position %d: expected %s, got %s", i, title, page.Content[i].Title)
				}
			}
		})
	}

	if _, err := s.Todos().FindAll(ctx, repository.NewPageRequest(0, 10, repository.Order{Field: "secret"})); !errors.Is(err, repository.ErrBadSort) {
		t.Errorf("expected ErrBadSort, got %v", err)
	}
}

func TestFindByRole(t *testing.T) {
	s := seed(t)
	page, err := s.Users().FindByRole(context.Background(), domain.RoleUser, repository.NewPageRequest(0, 10))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if page.TotalElements != 2 || page.Content[0].Login != "alice" || page.Content[1].Login != "bob" {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestDeleteByOwner(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	n, err := s.Todos().DeleteByOwner(ctx, "alice")
	if err != nil || n != 2 {
		t.Fatalf("expected 2 deleted, got %d (%v)", n, err)
	}
	page, _ := s.Todos().FindAll(ctx, repository.NewPageRequest(0, 10))
	if page.TotalElements != 1 {
		t.Errorf("expected 1 todo left, got %d", page.TotalElements)
	}
}

func TestWithinTxRollsBack(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Users().DeleteByID(ctx, "bob"); err != nil {
			return err
		}
		todo := domain.Todo{Title: "in tx", Owner: "alice"}
		if err := s.Todos().Save(ctx, &todo); err != nil {
			return err
		}
		// nested call joins the outer transaction instead of deadlocking
		return s.WithinTx(ctx, func(ctx context.Context) error { return boom })
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if ok, _ := s.Users().ExistsByID(ctx, "bob"); !ok {
		t.Error("bob should be restored after rollback")
	}
	page, _ := s.Todos().FindAll(ctx, repository.NewPageRequest(0, 10))
	if page.TotalElements != 3 {
		t.Errorf("expected 3 todos after rollback, got %d", page.TotalElements)
	}

	next := domain.Todo{Title: "after", Owner: "alice"}
	if err := s.Todos().Save(ctx, &next); err != nil || next.ID != 4 {
		t.Errorf("id sequence not restored: id=%d err=%v", next.ID, err)
	}
}

func TestWithinTxRollsBackOnPanic(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the panic to propagate")
			}
		}()
		_ = s.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.Users().DeleteByID(ctx, "bob"); err != nil {
				return err
			}
			panic("half way")
		})
	}()

	if ok, _ := s.Users().ExistsByID(ctx, "bob"); !ok {
		t.Error("bob should be restored after the panic")
	}
}
