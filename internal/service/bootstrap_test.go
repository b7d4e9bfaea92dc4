package service

import (
	"context"
	"testing"

	"todotracker/internal/domain"
)

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.users.EnsureAdmin(ctx, "root", "secret")
	if err != nil || !created {
		t.Fatalf("expected root to be created, got %v (%v)", created, err)
	}
	u, err := f.store.Users().FindByID(ctx, "root")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.Role != domain.RoleAdmin || u.PasswordHash != "hashed:secret" {
		t.Errorf("unexpected account %+v", u)
	}

	// a second start keeps the stored account
	created, err = f.users.EnsureAdmin(ctx, "root", "changed")
	if err != nil || created {
		t.Fatalf("expected no change, got %v (%v)", created, err)
	}
	again, _ := f.store.Users().FindByID(ctx, "root")
	if again.PasswordHash != "hashed:secret" {
		t.Error("existing password overwritten")
	}

	_, err = f.users.EnsureAdmin(ctx, "", "x")
	assertErr(t, err, ErrValidation)
}
