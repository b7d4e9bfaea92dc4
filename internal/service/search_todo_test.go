package service

import (
	"context"
	"testing"

	"todotracker/internal/domain"
	"todotracker/internal/models"
	"todotracker/internal/repository"
)

func TestSearchFilterComposition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testCases := []struct {
		name     string
		caller   domain.Identity
		params   models.TodoSearchParams
		expected repository.Filter
	}{
		{"admin without criteria", admin, models.TodoSearchParams{}, nil},
		{"user without criteria", alice, models.TodoSearchParams{}, repository.Filter{repository.OwnerIs("alice")}},
		{"empty title is absent", admin, models.TodoSearchParams{Title: ptr("")}, nil},
		{
			"user with every criterion",
			bob,
			models.TodoSearchParams{Title: ptr("x"), Priority: ptr(domain.PriorityLow), Completed: ptr(false)},
			repository.Filter{
				repository.OwnerIs("bob"),
				repository.TitleIs("x"),
				repository.PriorityIs(domain.PriorityLow),
				repository.CompletedIs(false),
			},
		},
		{"admin by completion", admin, models.TodoSearchParams{Completed: ptr(true)}, repository.Filter{repository.CompletedIs(true)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.search.Filter(ctx, tc.caller, tc.params)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}
			if len(got) != len(tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("predicate %d: expected %v, got %v", i, tc.expected[i], got[i])
				}
			}
		})
	}
}

func TestSearchUserSeesOnlyOwnTodos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTodo(t, "alice", "mine", domain.PriorityHigh, false)
	for i := 0; i < 5; i++ {
		f.addTodo(t, "bob", "mine", domain.PriorityHigh, false)
		f.addTodo(t, "admin", "mine", domain.PriorityHigh, false)
	}

	page, err := f.search.Find(ctx, alice, models.TodoSearchParams{Page: allPages()})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if page.TotalElements != 1 || page.Content[0].Owner != "alice" {
		t.Errorf("unexpected page %+v", page)
	}

	// search parameters cannot widen the owner scope
	page, err = f.search.Find(ctx, alice, models.TodoSearchParams{Title: ptr("mine"), Page: allPages()})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if page.TotalElements != 1 {
		t.Errorf("expected 1 todo, got %d", page.TotalElements)
	}
}

func TestSearchAdminSeesAllOwners(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTodo(t, "alice", "a", domain.PriorityHigh, true)
	f.addTodo(t, "bob", "b", domain.PriorityLow, false)
	f.addTodo(t, "admin", "c", domain.PriorityHigh, false)

	page, err := f.search.Find(ctx, admin, models.TodoSearchParams{Page: allPages()})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if page.TotalElements != 3 {
		t.Errorf("expected 3 todos, got %d", page.TotalElements)
	}

	page, err = f.search.Find(ctx, admin, models.TodoSearchParams{Priority: ptr(domain.PriorityHigh), Completed: ptr(false), Page: allPages()})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if page.TotalElements != 1 || page.Content[0].Title != "c" {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestSearchUnknownPrincipal(t *testing.T) {
	f := newFixture(t)
	ghost := domain.Identity{Username: "ghost", Role: domain.RoleUser}
	_, err := f.search.Find(context.Background(), ghost, models.TodoSearchParams{Page: allPages()})
	assertErr(t, err, ErrUnknownPrincipal)
}
