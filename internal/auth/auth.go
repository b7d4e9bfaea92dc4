package auth

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"todotracker/internal/domain"
)

// BcryptHasher - password hashing with a configurable cost
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

// Hash - hashes a plaintext password
func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	return string(bytes), err
}

// CheckPassword - compares a plaintext password with its hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GetCredentialsFromRequest - reads HTTP Basic credentials
func GetCredentialsFromRequest(r *http.Request) (login, password string, ok bool) {
	login, password, ok = r.BasicAuth()
	if !ok || login == "" {
		return "", "", false
	}
	return login, password, true
}

type contextKey int

const identityKey contextKey = iota

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the caller stored by the authentication middleware.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}
