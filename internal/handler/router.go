package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpError(w, http.StatusNotFound, "no such endpoint")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/info", h.InfoHandler).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(h.requireAuth)

	api.HandleFunc("/todos", h.ListTodosHandler).Methods(http.MethodGet)
	api.HandleFunc("/todos", h.CreateTodoHandler).Methods(http.MethodPost)
	api.HandleFunc("/todos/{id}", h.GetTodoHandler).Methods(http.MethodGet)
	api.HandleFunc("/todos/{id}", h.UpdateTodoHandler).Methods(http.MethodPut)
	api.HandleFunc("/todos/{id}", h.DeleteTodoHandler).Methods(http.MethodDelete)

	// /users/me must be matched before /users/{login}
	api.HandleFunc("/users/me", h.MeHandler).Methods(http.MethodGet)
	api.HandleFunc("/users", h.ListUsersHandler).Methods(http.MethodGet)
	api.HandleFunc("/users", h.CreateUserHandler).Methods(http.MethodPost)
	api.HandleFunc("/users/{login}", h.GetUserHandler).Methods(http.MethodGet)
	api.HandleFunc("/users/{login}", h.DeleteUserHandler).Methods(http.MethodDelete)
	api.HandleFunc("/users/{login}/role", h.ChangeRoleHandler).Methods(http.MethodPut)
	api.HandleFunc("/users/{login}/password", h.ChangePasswordHandler).Methods(http.MethodPut)
	api.HandleFunc("/users/{login}/password/reset", h.ResetPasswordHandler).Methods(http.MethodPost)

	api.HandleFunc("/search/todos", h.SearchTodosHandler).Methods(http.MethodGet)
	api.HandleFunc("/search/users", h.SearchUsersHandler).Methods(http.MethodGet)

	return r
}
