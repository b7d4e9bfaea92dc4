package repository

import (
	"testing"

	"todotracker/internal/domain"
)

func TestFilterMatches(t *testing.T) {
	todo := domain.Todo{ID: 1, Title: "Buy milk", Priority: domain.PriorityHigh, Owner: "alice", Completed: true}

	testCases := []struct {
		name     string
		filter   Filter
		expected bool
	}{
		{"empty filter matches everything", nil, true},
		{"owner", Filter{OwnerIs("alice")}, true},
		{"other owner", Filter{OwnerIs("bob")}, false},
		{"owner and title", Filter{OwnerIs("alice"), TitleIs("Buy milk")}, true},
		{"owner and wrong title", Filter{OwnerIs("alice"), TitleIs("Buy bread")}, false},
		{"priority and completed", Filter{PriorityIs(domain.PriorityHigh), CompletedIs(true)}, true},
		{"not completed", Filter{CompletedIs(false)}, false},
		{"wrong value type", Filter{{Field: FieldCompleted, Value: "true"}}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Matches(todo); got != tc.expected {
				t.Errorf("expected %t, got %t", tc.expected, got)
			}
		})
	}
}

func TestFilterAndDoesNotAlias(t *testing.T) {
	base := make(Filter, 0, 4)
	base = append(base, OwnerIs("alice"))

	a := base.And(TitleIs("a"))
	b := base.And(TitleIs("b"))

	if a[1].Value != "a" || b[1].Value != "b" {
		t.Errorf("filters share backing array: %v %v", a, b)
	}
}

func TestFilterValidate(t *testing.T) {
	if err := (Filter{OwnerIs("x"), CompletedIs(true)}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (Filter{{Field: "dateCreated", Value: "x"}}).Validate(); err == nil {
		t.Error("expected error for unknown field")
	}
	if err := (Filter{{Field: FieldPriority, Value: "HIGH"}}).Validate(); err == nil {
		t.Error("expected error for untyped priority")
	}
}

func TestPageRequest(t *testing.T) {
	p := NewPageRequest(-1, 0)
	if p.Page != 0 || p.Size != DefaultPageSize {
		t.Errorf("unexpected normalized request %+v", p)
	}
	p = NewPageRequest(2, 1000)
	if p.Size != MaxPageSize || p.Offset() != 2*MaxPageSize {
		t.Errorf("unexpected clamped request %+v", p)
	}
}

func TestParseOrder(t *testing.T) {
	testCases := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{"title", Order{Field: "title"}, false},
		{"title,desc", Order{Field: "title", Desc: true}, false},
		{"priority,ASC", Order{Field: "priority"}, false},
		{"title,sideways", Order{}, true},
		{",desc", Order{}, true},
		{"a,b,c", Order{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseOrder(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %t", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestPageTotalPagesAndMap(t *testing.T) {
	p := NewPage([]int{1, 2, 3}, PageRequest{Page: 0, Size: 3}, 7)
	if p.TotalPages() != 3 {
		t.Errorf("expected 3 pages, got %d", p.TotalPages())
	}

	doubled := MapPage(p, func(v int) int { return v * 2 })
	if len(doubled.Content) != 3 || doubled.Content[2] != 6 || doubled.TotalElements != 7 {
		t.Errorf("unexpected mapped page %+v", doubled)
	}

	empty := NewPage[int](nil, PageRequest{Size: 10}, 0)
	if empty.Content == nil || empty.TotalPages() != 0 {
		t.Errorf("unexpected empty page %+v", empty)
	}
}
