package model

type Session struct {
	Token      string `json:"token"`
	IdentityID string `json:"identity_id"`
	IssuedAt   string `json:"issued_at"`
	ExpiresAt  string `json:"expires_at"`
}

type Identity struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	EmployeeCode string `json:"employee_code,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	PointBalance uint64 `json:"point_balance"`
	IsCompanion  bool   `json:"is_companion"`
	EnrolledAt   string `json:"enrolled_at"`
}

type ShortIdentity struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	PointBalance uint64 `json:"point_balance"`
	IsCompanion  bool   `json:"is_companion"`
}

type Contest struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PointsAwarded uint64 `json:"points_awarded"`
	Mode          string `json:"mode"`
	Active        bool   `json:"active"`
}

type Participation struct {
	ID              string        `json:"id"`
	Contest         Contest       `json:"contest"`
	Identity        ShortIdentity `json:"identity"`
	PointsAwarded   uint64        `json:"points_awarded"`
	MatchConfidence float64       `json:"match_confidence"`
	AwardedAt       string        `json:"awarded_at"`
	IsWinner        bool          `json:"is_winner"`
}

type Trivia struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	PointsMax   uint64 `json:"points_max"`
	PointsMin   uint64 `json:"points_min"`
	Active      bool   `json:"active"`
}

type TriviaOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

type TriviaQuestion struct {
	ID       string         `json:"id"`
	Position int            `json:"position"`
	Text     string         `json:"text"`
	Options  []TriviaOption `json:"options"`
}

type TriviaResponse struct {
	ID            string         `json:"id"`
	Trivia        Trivia         `json:"trivia"`
	Identity      ShortIdentity  `json:"identity"`
	Question      TriviaQuestion `json:"question"`
	ChosenLabel   string         `json:"chosen_label"`
	IsCorrect     bool           `json:"is_correct"`
	PointsAwarded uint64         `json:"points_awarded"`
	AnsweredAt    string         `json:"answered_at"`
}

type HistoryEntry struct {
	Type            string  `json:"type"`
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	PointsAwarded   uint64  `json:"points_awarded"`
	ParticipantID   string  `json:"participant_id"`
	ParticipantName string  `json:"participant_name"`
	IsCompanion     bool    `json:"is_companion"`
	MatchConfidence float64 `json:"match_confidence,omitempty"`
	IsCorrect       bool    `json:"is_correct,omitempty"`
	At              string  `json:"at"`
}

type HistorySummary struct {
	PointBalance       uint64 `json:"point_balance"`
	ContestPoints      uint64 `json:"contest_points"`
	TriviaPoints       uint64 `json:"trivia_points"`
	TotalContests      int    `json:"total_contests"`
	TotalTrivia        int    `json:"total_trivia"`
	CompanionPoints    uint64 `json:"companion_points"`
	CompanionActivity  int    `json:"companion_activity"`
	TotalParticipation int    `json:"total_participation"`
}

type LeaderboardEntry struct {
	Rank         int            `json:"rank"`
	Identity     ShortIdentity  `json:"identity"`
	ContestCount int64          `json:"contest_count"`
	TriviaCount  int64          `json:"trivia_count"`
	Companion    *ShortIdentity `json:"companion,omitempty"`
}

type Statistic struct {
	TotalIdentities int64   `json:"total_identities"`
	TotalPoints     uint64  `json:"total_points"`
	AveragePoints   float64 `json:"average_points"`
	MaxPoints       uint64  `json:"max_points"`
}

type AuditIdentity struct {
	Identity      Identity `json:"identity"`
	ContestCount  int64    `json:"contest_count"`
	ContestPoints uint64   `json:"contest_points"`
	TriviaCount   int64    `json:"trivia_count"`
	TriviaPoints  uint64   `json:"trivia_points"`
}
