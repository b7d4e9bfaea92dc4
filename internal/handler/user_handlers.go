package handler

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"todotracker/internal/domain"
	"todotracker/internal/models"
	"todotracker/internal/service"
)

func loginVar(r *http.Request) string {
	return mux.Vars(r)["login"]
}

// MeHandler - GET /users/me
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Me(r.Context(), caller(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonOK(w, u)
}

// ListUsersHandler - GET /users
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageRequest(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	users, err := h.Users.FindAll(r.Context(), caller(r), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonOK(w, models.NewPageDTO(users))
}

// GetUserHandler - GET /users/{login}
func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.FindOne(r.Context(), caller(r), loginVar(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonOK(w, u)
}

// CreateUserHandler - POST /users
func (h *Handler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var in models.UserToAdd
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	u, err := h.Users.Create(r.Context(), caller(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/users/"+u.Login)
	writeJSON(w, http.StatusCreated, u)
}

// DeleteUserHandler - DELETE /users/{login}
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Delete(r.Context(), caller(r), loginVar(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangeRoleHandler - PUT /users/{login}/role
func (h *Handler) ChangeRoleHandler(w http.ResponseWriter, r *http.Request) {
	var in models.RoleDTO
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.Users.ChangeRole(r.Context(), caller(r), loginVar(r), in.Role); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetPasswordHandler - POST /users/{login}/password/reset
func (h *Handler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	password, err := h.Users.ResetPassword(r.Context(), caller(r), loginVar(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	jsonOK(w, models.PasswordDTO{Password: password})
}

// ChangePasswordHandler - PUT /users/{login}/password
func (h *Handler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var in models.PasswordDTO
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.Users.ChangePassword(r.Context(), caller(r), loginVar(r), in.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchUsersHandler - GET /search/users?role=
func (h *Handler) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	var role *domain.Role
	if v := r.URL.Query().Get("role"); v != "" {
		parsed, err := domain.ParseRole(v)
		if err != nil {
			writeServiceError(w, r, fmt.Errorf("%w: %v", service.ErrValidation, err))
			return
		}
		role = &parsed
	}
	page, err := h.pageRequest(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	users, err := h.SearchUsers.Find(r.Context(), caller(r), role, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonOK(w, models.NewPageDTO(users))
}
