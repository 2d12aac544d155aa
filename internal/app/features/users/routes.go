// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/usersadmin/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the users resource under the path where this router is
// mounted (typically "/users" from bootstrap).
//
//	h := users.NewHandler(repo, audit, 10, 100, logger)
//	r.Mount("/users", users.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)

	r.Group(func(r chi.Router) {
		if h.Writes != nil {
			r.Use(ratelimit.Middleware(h.Writes, h.Log))
		}
		r.Post("/", h.HandleCreate)
		r.Put("/{id}", h.HandleUpdate)
		r.Patch("/{id}", h.HandleStatus)
		r.Delete("/{id}", h.HandleDelete)
	})

	return r
}
