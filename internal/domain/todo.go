package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority is ordered HIGH < MEDIUM < LOW.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"

	DefaultPriority = PriorityMedium
)

var priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if p.Rank() < 0 {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

// Rank returns 0 for HIGH, 1 for MEDIUM, 2 for LOW and -1 for anything else.
func (p Priority) Rank() int {
	for i, v := range priorities {
		if v == p {
			return i
		}
	}
	return -1
}

// Increase moves one step toward HIGH and stays at HIGH.
func (p Priority) Increase() Priority {
	r := p.Rank()
	if r <= 0 {
		return p
	}
	return priorities[r-1]
}

// Decrease moves one step toward LOW and stays at LOW.
func (p Priority) Decrease() Priority {
	r := p.Rank()
	if r < 0 || r == len(priorities)-1 {
		return p
	}
	return priorities[r+1]
}

func (p *Priority) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Todo - a task owned by exactly one user. Owner holds the owner's login.
type Todo struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
	Priority    Priority
	Owner       string
	DateCreated time.Time
	DateUpdated time.Time
}

func (t *Todo) Touch(now time.Time) {
	if t.DateCreated.IsZero() {
		t.DateCreated = now
	}
	t.DateUpdated = now
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}
}

func (t Todo) String() string {
	return fmt.Sprintf("Todo(id=%d, title=%q, completed=%t, priority=%s, owner=%s)",
		t.ID, t.Title, t.Completed, t.Priority, t.Owner)
}
