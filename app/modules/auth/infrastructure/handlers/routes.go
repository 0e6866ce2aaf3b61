package authhandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the auth API. authenticate guards /me.
func Routes(h Handlers, authenticate func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/signup", h.HandleHTTPSignUp)
		r.Post("/signin", h.HandleHTTPSignIn)
		r.With(authenticate).Get("/me", h.HandleHTTPMe)
	}
}
