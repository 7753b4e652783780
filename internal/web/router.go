package web

import (
	"net/http"

	"case_sheet_sync/internal/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the routes behind the one-time-password check. skew is
// how many TOTP periods of drift to accept; keep it at 1 in production.
func NewRouter(h *Handler, authSecret string, skew uint) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware(authSecret, skew))

	r.Get("/status", h.Status)
	r.Get("/update", h.GetUpdate)
	r.Post("/update", h.PostUpdate)

	return r
}
