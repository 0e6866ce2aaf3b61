package authhandlers

import "net/http"

// Handlers serves sign-up, sign-in and the current user.
type Handlers interface {
	HandleHTTPSignUp(w http.ResponseWriter, r *http.Request)
	HandleHTTPSignIn(w http.ResponseWriter, r *http.Request)
	HandleHTTPMe(w http.ResponseWriter, r *http.Request)
}
