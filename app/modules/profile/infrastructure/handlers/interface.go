package profilehandlers

import "net/http"

// Handlers serves the profile, challenge, reward and badge API.
type Handlers interface {
	HandleHTTPGetProfile(w http.ResponseWriter, r *http.Request)
	HandleHTTPGetChallenge(w http.ResponseWriter, r *http.Request)
	HandleHTTPSubmitAnswer(w http.ResponseWriter, r *http.Request)
	HandleHTTPGetRewards(w http.ResponseWriter, r *http.Request)
	HandleHTTPRedeemReward(w http.ResponseWriter, r *http.Request)
	HandleHTTPGetBadges(w http.ResponseWriter, r *http.Request)
	HandleHTTPCheckBadges(w http.ResponseWriter, r *http.Request)
}
