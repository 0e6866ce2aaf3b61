package profiledomain

// Reward is a catalog entry. Redemption never changes it.
type Reward struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	PointsRequired int    `json:"points_required"`
	Available      bool   `json:"available"`
}
