package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestPrioritySaturates(t *testing.T) {
	testCases := []struct {
		name     string
		got      Priority
		expected Priority
	}{
		{"HIGH increase", PriorityHigh.Increase(), PriorityHigh},
		{"LOW decrease", PriorityLow.Decrease(), PriorityLow},
		{"MEDIUM increase", PriorityMedium.Increase(), PriorityHigh},
		{"MEDIUM decrease", PriorityMedium.Decrease(), PriorityLow},
		{"HIGH decrease", PriorityHigh.Decrease(), PriorityMedium},
		{"LOW increase", PriorityLow.Increase(), PriorityMedium},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, tc.got)
			}
		})
	}
}

func TestPriorityOrder(t *testing.T) {
	if !(PriorityHigh.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Errorf("expected HIGH < MEDIUM < LOW")
	}
	if Priority("URGENT").Rank() != -1 {
		t.Errorf("unknown priority must rank -1")
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" low ")
	if err != nil || p != PriorityLow {
		t.Fatalf("expected LOW, got %q (%v)", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}

	var body struct {
		Priority *Priority `json:"priority"`
	}
	if err := json.Unmarshal([]byte(`{"priority":"medium"}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Priority == nil || *body.Priority != PriorityMedium {
		t.Errorf("expected MEDIUM, got %v", body.Priority)
	}
	if err := json.Unmarshal([]byte(`{"priority":"NOW"}`), &body); err == nil {
		t.Error("expected unmarshal error for unknown priority")
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	if err != nil || r != RoleAdmin {
		t.Fatalf("expected ADMIN, got %q (%v)", r, err)
	}
	if _, err := ParseRole("ROLE_ADMIN"); err == nil {
		t.Error("prefixed authority names are not roles")
	}
}

func TestUserTouch(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	u := User{Login: "alice", PasswordHash: "hash"}
	u.Touch(created)
	if u.Role != RoleUser {
		t.Errorf("expected default role USER, got %s", u.Role)
	}
	if !u.DateCreated.Equal(created) || !u.DateUpdated.Equal(created) {
		t.Errorf("unexpected timestamps %v %v", u.DateCreated, u.DateUpdated)
	}

	u.Touch(later)
	if !u.DateCreated.Equal(created) {
		t.Errorf("dateCreated must not change, got %v", u.DateCreated)
	}
	if !u.DateUpdated.Equal(later) {
		t.Errorf("dateUpdated must be refreshed, got %v", u.DateUpdated)
	}
}

func TestUserStringHidesHash(t *testing.T) {
	u := User{Login: "alice", PasswordHash: "$2a$10$secret", Role: RoleUser}
	s := u.String()
	if strings.Contains(s, "secret") {
		t.Errorf("hash leaked into %q", s)
	}
	if !strings.Contains(s, "*****") {
		t.Errorf("expected obfuscated hash in %q", s)
	}

	b, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "secret") {
		t.Errorf("hash leaked into json %s", b)
	}
}

func TestTodoTouchDefaultsPriority(t *testing.T) {
	var todo Todo
	todo.Touch(time.Now())
	if todo.Priority != PriorityMedium {
		t.Errorf("expected MEDIUM, got %s", todo.Priority)
	}
}
