package profilehandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes registers the signed-in user's API on a route group. authenticate
// must put the user on the request context.
func Routes(h Handlers, authenticate func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/api/profile", h.HandleHTTPGetProfile)
		r.Get("/api/challenge", h.HandleHTTPGetChallenge)
		r.Post("/api/challenge/answer", h.HandleHTTPSubmitAnswer)
		r.Get("/api/rewards", h.HandleHTTPGetRewards)
		r.Post("/api/rewards/{id}/redeem", h.HandleHTTPRedeemReward)
		r.Get("/api/badges", h.HandleHTTPGetBadges)
		r.Post("/api/badges/check", h.HandleHTTPCheckBadges)
	}
}
