package leaderboardhandlers

import (
	"net/http"
	"strconv"
	"strings"

	leaderboardservice "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/green-quest/app/shared/httpresponse"
	"github.com/go-chi/chi/v5"
)

// LeaderboardResponse is the JSON form of a snapshot.
type LeaderboardResponse struct {
	Version uint64                     `json:"version"`
	Entries []leaderboardservice.Entry `json:"entries"`
}

func newLeaderboardResponse(snap leaderboardservice.Snapshot) LeaderboardResponse {
	return LeaderboardResponse{Version: snap.Version(), Entries: snap.Entries()}
}

func (h *LeaderboardHandlers) HandleHTTPGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	snap := h.service.GetLeaderboard(r.Context())
	httpresponse.JSON(w, http.StatusOK, newLeaderboardResponse(snap))
}

func (h *LeaderboardHandlers) HandleHTTPGetTownRank(w http.ResponseWriter, r *http.Request) {
	town := strings.TrimSpace(chi.URLParam(r, "town"))

	result, err := h.service.GetTownRank(r.Context(), town)
	if err != nil {
		httpresponse.Error(w, r, h.logger, err)
		return
	}
	if result.IsFailure() {
		httpresponse.Failure(w, http.StatusNotFound, *result.Failure)
		return
	}
	httpresponse.JSON(w, http.StatusOK, result.Success)
}

func (h *LeaderboardHandlers) HandleHTTPRefresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Refresh(r.Context())
	if err != nil {
		httpresponse.Error(w, r, h.logger, err)
		return
	}
	if result.IsFailure() {
		httpresponse.Failure(w, http.StatusBadRequest, *result.Failure)
		return
	}
	httpresponse.JSON(w, http.StatusOK, newLeaderboardResponse(*result.Success))
}

// HandleHTTPChart serves the bar chart. ?top=N overrides the number of towns.
func (h *LeaderboardHandlers) HandleHTTPChart(w http.ResponseWriter, r *http.Request) {
	top := leaderboardservice.DefaultChartTowns
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "top must be a positive integer", http.StatusBadRequest)
			return
		}
		top = n
	}

	img, err := h.service.RenderChart(r.Context(), top)
	if err != nil {
		httpresponse.Error(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}
