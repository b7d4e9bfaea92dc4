package repository

import (
	"fmt"

	"todotracker/internal/domain"
)

// Field names a todo attribute a Predicate can constrain.
type Field string

const (
	FieldOwner     Field = "owner"
	FieldTitle     Field = "title"
	FieldPriority  Field = "priority"
	FieldCompleted Field = "completed"
)

// Predicate is an equality constraint on one todo field.
type Predicate struct {
	Field Field
	Value any
}

func OwnerIs(login string) Predicate { return Predicate{Field: FieldOwner, Value: login} }
func TitleIs(title string) Predicate { return Predicate{Field: FieldTitle, Value: title} }
func PriorityIs(p domain.Priority) Predicate { return Predicate{Field: FieldPriority, Value: p} }
func CompletedIs(c bool) Predicate { return Predicate{Field: FieldCompleted, Value: c} }

func (p Predicate) Matches(t domain.Todo) bool {
	switch p.Field {
	case FieldOwner:
		v, ok := p.Value.(string)
		return ok && t.Owner == v
	case FieldTitle:
		v, ok := p.Value.(string)
		return ok && t.Title == v
	case FieldPriority:
		v, ok := p.Value.(domain.Priority)
		return ok && t.Priority == v
	case FieldCompleted:
		v, ok := p.Value.(bool)
		return ok && t.Completed == v
	}
	return false
}

func (p Predicate) Validate() error {
	var ok bool
	switch p.Field {
	case FieldOwner, FieldTitle:
		_, ok = p.Value.(string)
	case FieldPriority:
		_, ok = p.Value.(domain.Priority)
	case FieldCompleted:
		_, ok = p.Value.(bool)
	default:
		return fmt.Errorf("unknown filter field %q", p.Field)
	}
	if !ok {
		return fmt.Errorf("filter field %q: unexpected value type %T", p.Field, p.Value)
	}
	return nil
}

// Filter is the conjunction of its predicates. The empty filter matches
// every todo.
type Filter []Predicate

func (f Filter) And(p ...Predicate) Filter {
	out := make(Filter, 0, len(f)+len(p))
	out = append(out, f...)
	return append(out, p...)
}

func (f Filter) Matches(t domain.Todo) bool {
	match := true
	for _, p := range f {
		match = match && p.Matches(t)
	}
	return match
}

func (f Filter) Validate() error {
	for _, p := range f {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
