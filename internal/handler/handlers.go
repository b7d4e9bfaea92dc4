package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"todotracker/config"
	"todotracker/internal/auth"
	"todotracker/internal/domain"
	"todotracker/internal/models"
	"todotracker/internal/repository"
	"todotracker/internal/service"
)

const Version = "1.0.0"

// Handler holds the services the HTTP endpoints delegate to.
type Handler struct {
	Users       *service.UserService
	Todos       *service.TodoService
	SearchTodos *service.SearchTodoService
	SearchUsers *service.SearchUserService
	Accounts    repository.UserRepository
	Cfg         *config.Config
}

func NewHandler(cfg *config.Config, users repository.UserRepository, todos repository.TodoRepository, tx repository.Transactor, hasher service.Hasher) *Handler {
	userService := service.NewUserService(users, todos, tx, hasher)
	return &Handler{
		Users:       userService,
		Todos:       service.NewTodoService(todos, tx, userService),
		SearchTodos: service.NewSearchTodoService(todos, userService),
		SearchUsers: service.NewSearchUserService(users),
		Accounts:    users,
		Cfg:         cfg,
	}
}

// HealthHandler - liveness probe
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]string{"status": "UP"})
}

func (h *Handler) InfoHandler(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, models.Info{
		Name:    "todotracker",
		Version: Version,
		Env:     h.Cfg.Server.Env,
		Storage: h.Cfg.Storage.Driver,
	})
}

func jsonOK(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func httpError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeServiceError maps service and storage errors onto status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		httpError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		httpError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		httpError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrValidation), errors.Is(err, repository.ErrBadSort):
		httpError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownPrincipal):
		httpError(w, http.StatusUnauthorized, err.Error())
	default:
		log.Printf("[%s] %s %s failed: %v", RequestIDFrom(r.Context()), r.Method, r.URL.Path, err)
		httpError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	// unknown fields such as a client supplied id or owner are ignored
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %v", service.ErrValidation, err)
	}
	return nil
}

func caller(r *http.Request) domain.Identity {
	id, _ := auth.IdentityFrom(r.Context())
	return id
}

// pageRequest reads page, size and the repeatable sort parameter.
func (h *Handler) pageRequest(r *http.Request) (repository.PageRequest, error) {
	q := r.URL.Query()
	page := repository.PageRequest{Size: h.Cfg.Pagination.DefaultSize}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return page, fmt.Errorf("%w: bad page %q", service.ErrValidation, v)
		}
		page.Page = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return page, fmt.Errorf("%w: bad size %q", service.ErrValidation, v)
		}
		page.Size = min(n, h.Cfg.Pagination.MaxSize)
	}
	for _, s := range q["sort"] {
		o, err := repository.ParseOrder(s)
		if err != nil {
			return page, fmt.Errorf("%w: %v", service.ErrValidation, err)
		}
		page.Sort = append(page.Sort, o)
	}
	return page.Normalize(), nil
}

func optionalBool(v string) (*bool, error) {
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: bad boolean %q", service.ErrValidation, v)
	}
	return &b, nil
}
