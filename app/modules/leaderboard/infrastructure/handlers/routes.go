package leaderboardhandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the leaderboard API under the router it is given. refreshGuards
// wrap the manual reload, which rebuilds the whole view.
func Routes(h Handlers, refreshGuards ...func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", h.HandleHTTPGetLeaderboard)
		r.Get("/towns/{town}", h.HandleHTTPGetTownRank)
		r.With(refreshGuards...).Post("/refresh", h.HandleHTTPRefresh)
		r.Get("/chart.png", h.HandleHTTPChart)
		r.Get("/stream", h.HandleHTTPStream)
	}
}
