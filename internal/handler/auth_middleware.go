package handler

import (
	"errors"
	"log"
	"net/http"

	"todotracker/internal/auth"
	"todotracker/internal/domain"
	"todotracker/internal/repository"
)

// requireAuth checks HTTP Basic credentials against the stored bcrypt hash
// and puts the caller's identity into the request context.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login, password, ok := auth.GetCredentialsFromRequest(r)
		if !ok {
			unauthorized(w)
			return
		}

		u, err := h.Accounts.FindByID(r.Context(), login)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				log.Printf("[%s] load account %q: %v", RequestIDFrom(r.Context()), login, err)
				httpError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			unauthorized(w)
			return
		}
		if !auth.CheckPassword(password, u.PasswordHash) {
			log.Printf("[%s] bad credentials for %q", RequestIDFrom(r.Context()), login)
			unauthorized(w)
			return
		}

		ctx := auth.WithIdentity(r.Context(), domain.Identity{Username: u.Login, Role: u.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="todotracker", charset="UTF-8"`)
	httpError(w, http.StatusUnauthorized, "unauthorized")
}
