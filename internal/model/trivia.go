package model

type GetActiveTriviaRequest struct{}

type GetActiveTriviaResponse struct {
	Trivia          *Trivia          `json:"trivia,omitempty"`
	Questions       []TriviaQuestion `json:"questions"`
	CurrentScore    int              `json:"current_score"`
	AlreadyAnswered bool             `json:"already_answered"`
	ServerTime      string           `json:"server_time"`
}

type AnswerTriviaRequest struct {
	TriviaID    string `json:"trivia_id"`
	QuestionID  string `json:"question_id"`
	ChosenLabel string `json:"answer"`
}

type AnswerTriviaResponse struct {
	IsCorrect     bool     `json:"is_correct"`
	CorrectLabel  string   `json:"correct_label"`
	PointsAwarded uint64   `json:"points_awarded"`
	NewBalance    uint64   `json:"new_balance"`
	Session       *Session `json:"session,omitempty"`
}

type GetListTriviaRequest struct{}

type GetListTriviaResponse struct {
	Trivias []Trivia `json:"trivias"`
}

type GetTriviaParticipantsRequest struct {
	TriviaID string `json:"trivia_id"`
}

type GetTriviaParticipantsResponse struct {
	Trivia    Trivia           `json:"trivia"`
	Responses []TriviaResponse `json:"responses"`
}
