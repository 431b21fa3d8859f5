package model

const (
	AwardSourceContest = "contest"
	AwardSourceTrivia  = "trivia"
)

// PointAwardedEvent is published after an award is committed.
type PointAwardedEvent struct {
	IdentityID  string `json:"identity_id"`
	PrincipalID string `json:"principal_id,omitempty"`
	Source      string `json:"source"`
	SourceID    string `json:"source_id"`
	Points      uint64 `json:"points"`
	NewBalance  uint64 `json:"new_balance"`
	AwardedAt   string `json:"awarded_at"`
}
