// Package policy holds the single access rule shared by every service:
// administrators see everything, everybody else only what they own.
package policy

import "todotracker/internal/domain"

// IsAdmin reports whether id carries the administrator role.
func IsAdmin(id domain.Identity) bool {
	return id.Role == domain.RoleAdmin
}

// CanAccessResourceOwnedBy reports whether id may read or modify a resource owned by login.
func CanAccessResourceOwnedBy(id domain.Identity, owner string) bool {
	return IsAdmin(id) || id.Username == owner
}

// CanAccessTask reports whether id may read or modify todo.
func CanAccessTask(id domain.Identity, todo domain.Todo) bool {
	return CanAccessResourceOwnedBy(id, todo.Owner)
}
