package model

type ValidateSessionRequest struct{}

type ValidateSessionResponse struct {
	IdentityID string `json:"identity_id"`
	ExpiresAt  string `json:"expires_at"`
}

type HealthRequest struct{}

type HealthResponse struct {
	Status        string `json:"status"`
	OracleEnabled bool   `json:"oracle_enabled"`
	ServerTime    string `json:"server_time"`
}

func (r *EnrollResponse) SessionInfo() *Session {
	return &r.Session
}

func (r *GetProfileResponse) SessionInfo() *Session {
	return r.Session
}

func (r *ParticipateResponse) SessionInfo() *Session {
	return r.Session
}

func (r *AnswerTriviaResponse) SessionInfo() *Session {
	return r.Session
}
