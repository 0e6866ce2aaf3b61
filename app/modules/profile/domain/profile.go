package profiledomain

// Profile is a user's ledger plus the details captured at sign-up.
type Profile struct {
	Ledger
	Username string `json:"username"`
	Town     string `json:"town"`
}
