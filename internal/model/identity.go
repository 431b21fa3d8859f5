package model

type EnrollRequest struct {
	Photo        string `json:"photo"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	EmployeeCode string `json:"employee_code"`
}

type EnrollResponse struct {
	Identity Identity `json:"identity"`
	Session  Session  `json:"session"`
}

type IdentifyRequest struct {
	Photo string `json:"photo"`
}

type IdentifyResponse struct {
	Identity   Identity `json:"identity"`
	Similarity float64  `json:"similarity"`
}

type GetProfileByPhotoRequest struct {
	Photo string `json:"photo"`
}

type GetProfileBySessionRequest struct {
	IdentityID string `json:"identity_id"`
}

type GetProfileResponse struct {
	Identity  Identity       `json:"identity"`
	Companion *Identity      `json:"companion,omitempty"`
	Principal *Identity      `json:"principal,omitempty"`
	History   []HistoryEntry `json:"history"`
	Summary   HistorySummary `json:"summary"`
	Session   *Session       `json:"session,omitempty"`
}

type ValidateEmployeeCodeRequest struct {
	Code string `json:"code"`
}

type ValidateEmployeeCodeResponse struct {
	Valid        bool   `json:"valid"`
	IdentityID   string `json:"identity_id,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	HasCompanion bool   `json:"has_companion"`
}
