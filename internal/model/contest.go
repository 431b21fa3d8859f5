package model

type ParticipateRequest struct {
	Code  string `json:"code"`
	Photo string `json:"photo"`
}

type ParticipateResponse struct {
	Outcome         string         `json:"outcome"`
	Message         string         `json:"message"`
	Contest         *Contest       `json:"contest,omitempty"`
	Identity        *ShortIdentity `json:"identity,omitempty"`
	PointsAwarded   uint64         `json:"points_awarded"`
	NewBalance      uint64         `json:"new_balance"`
	MatchConfidence float64        `json:"match_confidence"`
	AwardedAt       string         `json:"awarded_at,omitempty"`
	WinnerName      string         `json:"winner_name,omitempty"`
	Session         *Session       `json:"session,omitempty"`
}

type GetContestRequest struct {
	Code string `json:"code"`
}

type GetContestResponse struct {
	Contest           Contest        `json:"contest"`
	Winner            *ShortIdentity `json:"winner,omitempty"`
	TotalParticipants int            `json:"total_participants"`
}

type GetListContestRequest struct{}

type GetListContestResponse struct {
	Contests []Contest `json:"contests"`
}

type GetContestParticipantsRequest struct {
	Code string `json:"code"`
}

type GetContestParticipantsResponse struct {
	Contest        Contest         `json:"contest"`
	Participations []Participation `json:"participations"`
}

const (
	OutcomeSuccess             = "success"
	OutcomeAlreadyWon          = "already_won"
	OutcomeAlreadyParticipated = "already_participated"
	OutcomeContestExhausted    = "contest_exhausted"
	OutcomeNotRegistered       = "not_registered"
	OutcomeContestNotFound     = "contest_not_found"
)
