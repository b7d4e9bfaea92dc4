package models

import (
	"time"

	"todotracker/internal/domain"
	"todotracker/internal/repository"
)

// UserDTO - outward view of an account, without the password hash
type UserDTO struct {
	Login       string      `json:"login"`
	Role        domain.Role `json:"role"`
	DateCreated time.Time   `json:"dateCreated"`
	DateUpdated time.Time   `json:"dateUpdated"`
}

func NewUserDTO(u domain.User) UserDTO {
	return UserDTO{Login: u.Login, Role: u.Role, DateCreated: u.DateCreated, DateUpdated: u.DateUpdated}
}

// UserToAdd - account creation request
type UserToAdd struct {
	Login    string      `json:"login"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role,omitempty"`
}

type TodoDTO struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   bool            `json:"completed"`
	Priority    domain.Priority `json:"priority"`
	Owner       string          `json:"owner"`
	DateCreated time.Time       `json:"dateCreated"`
	DateUpdated time.Time       `json:"dateUpdated"`
}

func NewTodoDTO(t domain.Todo) TodoDTO {
	return TodoDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		Owner:       t.Owner,
		DateCreated: t.DateCreated,
		DateUpdated: t.DateUpdated,
	}
}

// TodoToAdd carries create and update payloads. Nil fields are absent:
// on update they leave the stored value untouched.
type TodoToAdd struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Completed   *bool            `json:"completed"`
	Priority    *domain.Priority `json:"priority"`
}

// TodoSearchParams - optional search criteria, nil means "any"
type TodoSearchParams struct {
	Title     *string
	Priority  *domain.Priority
	Completed *bool
	Page      repository.PageRequest
}

// PageDTO is the JSON shape of a page of results.
type PageDTO[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

func NewPageDTO[T any](p repository.Page[T]) PageDTO[T] {
	content := p.Content
	if content == nil {
		content = []T{}
	}
	return PageDTO[T]{
		Content:       content,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages(),
		Number:        p.Number,
		Size:          p.Size,
	}
}

// PasswordDTO wraps a plaintext password in requests and in the one-time
// reset response.
type PasswordDTO struct {
	Password string `json:"password"`
}

type RoleDTO struct {
	Role domain.Role `json:"role"`
}

// Info - static build/runtime information served on /info
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Env     string `json:"env"`
	Storage string `json:"storage"`
}
