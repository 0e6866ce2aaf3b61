package authhandlers

import (
	"errors"
	"net/http"

	authservice "github.com/Black-And-White-Club/green-quest/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/green-quest/app/modules/auth/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/httpresponse"
)

var errInvalidBody = errors.New("invalid request body")

func (h *AuthHandlers) HandleHTTPSignUp(w http.ResponseWriter, r *http.Request) {
	var req authdomain.SignUp
	if err := httpresponse.Decode(r, &req); err != nil {
		httpresponse.Failure(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	result, err := h.service.SignUp(r.Context(), req)
	if err != nil {
		httpresponse.Error(w, r, h.logger, err)
		return
	}
	if result.IsFailure() {
		status := http.StatusBadRequest
		if errors.Is(*result.Failure, authdomain.ErrNRICTaken) {
			status = http.StatusConflict
		}
		httpresponse.Failure(w, status, *result.Failure)
		return
	}
	httpresponse.JSON(w, http.StatusCreated, result.Success)
}

func (h *AuthHandlers) HandleHTTPSignIn(w http.ResponseWriter, r *http.Request) {
	var req authdomain.SignIn
	if err := httpresponse.Decode(r, &req); err != nil {
		httpresponse.Failure(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	result, err := h.service.SignIn(r.Context(), req)
	if err != nil {
		httpresponse.Error(w, r, h.logger, err)
		return
	}
	if result.IsFailure() {
		httpresponse.Failure(w, http.StatusUnauthorized, *result.Failure)
		return
	}
	httpresponse.JSON(w, http.StatusOK, result.Success)
}

// HandleHTTPMe must run behind BearerAuth.
func (h *AuthHandlers) HandleHTTPMe(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httpresponse.Failure(w, http.StatusUnauthorized, authservice.ErrMissingToken)
		return
	}

	result, err := h.service.Me(r.Context(), user.ID)
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
