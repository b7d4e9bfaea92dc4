package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"todotracker/internal/domain"
	"todotracker/internal/models"
	"todotracker/internal/service"
)

func todoID(r *http.Request) (int64, error) {
	v := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad todo id %q", service.ErrValidation, v)
	}
	return id, nil
}

// ListTodosHandler - GET /todos
func (h *Handler) ListTodosHandler(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageRequest(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	todos, err := h.Todos.FindAll(r.Context(), caller(r), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonOK(w, models.NewPageDTO(todos))
}

// CreateTodoHandler - POST /todos
func (h *Handler) CreateTodoHandler(w http.ResponseWriter, r *http.Request) {
	var in models.TodoToAdd
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	todo, err := h.Todos.Create(r.Context(), caller(r), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/todos/%d", todo.ID))
	writeJSON(w, http.StatusCreated, todo)
}

// GetTodoHandler - GET /todos/{id}
func (h *Handler) GetTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	todo, err := h.Todos.GetOne(r.Context(), caller(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonOK(w, todo)
}

// UpdateTodoHandler - PUT /todos/{id}
func (h *Handler) UpdateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var in models.TodoToAdd
	if err := decodeJSON(r, &in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	todo, err := h.Todos.Update(r.Context(), caller(r), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonOK(w, todo)
}

// DeleteTodoHandler - DELETE /todos/{id}
func (h *Handler) DeleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.Todos.Delete(r.Context(), caller(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchTodosHandler - GET /search/todos?title=&priority=&completed=
func (h *Handler) SearchTodosHandler(w http.ResponseWriter, r *http.Request) {
	params, err := h.todoSearchParams(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	todos, err := h.SearchTodos.Find(r.Context(), caller(r), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	jsonOK(w, models.NewPageDTO(todos))
}

func (h *Handler) todoSearchParams(r *http.Request) (models.TodoSearchParams, error) {
	var (
		params models.TodoSearchParams
		err    error
	)
	q := r.URL.Query()

	if q.Has("title") {
		title := q.Get("title")
		params.Title = &title
	}
	if v := q.Get("priority"); v != "" {
		p, err := domain.ParsePriority(v)
		if err != nil {
			return params, fmt.Errorf("%w: %v", service.ErrValidation, err)
		}
		params.Priority = &p
	}
	if params.Completed, err = optionalBool(q.Get("completed")); err != nil {
		return params, err
	}
	if params.Page, err = h.pageRequest(r); err != nil {
		return params, err
	}
	return params, nil
}
