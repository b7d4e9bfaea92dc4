package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role - access level of an account
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"

	DefaultRole = RoleUser
)

// ParseRole accepts the role name in any case.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Identity is the authenticated caller of a single request.
type Identity struct {
	Username string
	Role     Role
}

// User - stored account
type User struct {
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"` // never leaves the process
	Role         Role      `json:"role"`
	DateCreated  time.Time `json:"dateCreated"`
	DateUpdated  time.Time `json:"dateUpdated"`
}

const obfuscatedHash = "*****"

// Touch stamps the record before it is persisted.
func (u *User) Touch(now time.Time) {
	if u.DateCreated.IsZero() {
		u.DateCreated = now
	}
	u.DateUpdated = now
	if u.Role == "" {
		u.Role = DefaultRole
	}
}

// String is safe to log: the hash is obfuscated.
func (u User) String() string {
	return fmt.Sprintf("User(login=%s, passwordHash=%s, role=%s, dateCreated=%s, dateUpdated=%s)",
		u.Login, obfuscatedHash, u.Role,
		u.DateCreated.Format(time.RFC3339), u.DateUpdated.Format(time.RFC3339))
}
