package profilehandlers

import (
	"errors"
	"net/http"
	"strconv"

	authhandlers "github.com/Black-And-White-Club/green-quest/app/modules/auth/infrastructure/handlers"
	"github.com/Black-And-White-Club/green-quest/app/shared/httpresponse"
	"github.com/Black-And-White-Club/green-quest/app/shared/results"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var errUnauthenticated = errors.New("not signed in")

// AnswerRequest is the body of POST /api/challenge/answer.
type AnswerRequest struct {
	QuestionID int64  `json:"question_id"`
	Option     string `json:"option"`
}

func (h *ProfileHandlers) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	user, ok := authhandlers.UserFromContext(r.Context())
	if !ok {
		httpresponse.Failure(w, http.StatusUnauthorized, errUnauthenticated)
		return uuid.Nil, false
	}
	return user.ID, true
}

// writeResult writes the success payload, the failure with its mapped status,
// or the infrastructure error.
func writeResult[S any](h *ProfileHandlers, w http.ResponseWriter, r *http.Request, result results.OperationResult[S, error], err error) {
	if err != nil {
		httpresponse.Error(w, r, h.logger, err)
		return
	}
	if result.IsFailure() {
		httpresponse.Failure(w, statusForFailure(*result.Failure), *result.Failure)
		return
	}
	httpresponse.JSON(w, http.StatusOK, result.Success)
}

func (h *ProfileHandlers) HandleHTTPGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	result, err := h.service.LoadProfile(r.Context(), userID)
	writeResult(h, w, r, result, err)
}

func (h *ProfileHandlers) HandleHTTPGetChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	result, err := h.service.LoadChallenge(r.Context(), userID)
	writeResult(h, w, r, result, err)
}

func (h *ProfileHandlers) HandleHTTPSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := httpresponse.Decode(r, &req); err != nil {
		httpresponse.Failure(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if req.QuestionID <= 0 || req.Option == "" {
		httpresponse.Failure(w, http.StatusBadRequest, errors.New("question_id and option are required"))
		return
	}

	result, err := h.service.SubmitAnswer(r.Context(), userID, req.QuestionID, req.Option)
	writeResult(h, w, r, result, err)
}

func (h *ProfileHandlers) HandleHTTPGetRewards(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	result, err := h.service.LoadRewards(r.Context(), userID)
	writeResult(h, w, r, result, err)
}

func (h *ProfileHandlers) HandleHTTPRedeemReward(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	rewardID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || rewardID <= 0 {
		httpresponse.Failure(w, http.StatusBadRequest, errors.New("reward id must be a positive integer"))
		return
	}

	result, err := h.service.RedeemReward(r.Context(), userID, rewardID)
	writeResult(h, w, r, result, err)
}

func (h *ProfileHandlers) HandleHTTPGetBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	result, err := h.service.GetBadges(r.Context(), userID)
	writeResult(h, w, r, result, err)
}

func (h *ProfileHandlers) HandleHTTPCheckBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	result, err := h.service.CheckAndAwardBadges(r.Context(), userID)
	writeResult(h, w, r, result, err)
}
