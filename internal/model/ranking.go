package model

type GetLeaderboardRequest struct {
	Limit int `json:"limit"`
}

type GetLeaderboardResponse struct {
	Entries   []LeaderboardEntry `json:"entries"`
	Statistic Statistic          `json:"statistic"`
}

type GetHistoryRequest struct {
	IdentityID string `json:"identity_id"`
}

type GetHistoryResponse struct {
	Identity Identity       `json:"identity"`
	History  []HistoryEntry `json:"history"`
	Summary  HistorySummary `json:"summary"`
}

type GetAuditListRequest struct{}

type GetAuditListResponse struct {
	Identities []AuditIdentity `json:"identities"`
}
