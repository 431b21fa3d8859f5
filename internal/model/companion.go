package model

type LinkCompanionRequest struct {
	PrincipalID  string `json:"principal_id"`
	Photo        string `json:"photo"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	EmployeeCode string `json:"employee_code"`
}

type LinkCompanionResponse struct {
	Principal Identity `json:"principal"`
	Companion Identity `json:"companion"`
}

type GetCompanionRequest struct {
	IdentityID string `json:"identity_id"`
}

type GetCompanionResponse struct {
	Companion *Identity `json:"companion,omitempty"`
	Principal *Identity `json:"principal,omitempty"`
}
