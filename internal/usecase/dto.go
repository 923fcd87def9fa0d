package usecase

type StartOnboardingInput struct {
	CompanyURL string `json:"companyUrl"`
}

type CompleteOnboardingInput struct {
	Email        string `json:"email"`
	AgentID      string `json:"agentId"`
	SubmissionID string `json:"submissionId"`
}

type CompleteOnboardingOutput struct {
	Success      bool   `json:"success"`
	DashboardURL string `json:"dashboardUrl"`
}

// UpdateSubmissionInput: ponteiro nil = campo não enviado. É a única
// forma de distinguir "não mexe" de "grava este valor".
type UpdateSubmissionInput struct {
	Email     *string `json:"email"`
	AgentID   *string `json:"agentId"`
	AgentName *string `json:"agentName"`
	IsMock    *bool   `json:"isMock"`
	Status    *string `json:"status"`
}

type CreateBookingInput struct {
	AgentID   string `json:"agentId"`
	Customer  string `json:"customer"`
	Phone     string `json:"phone"`
	Service   string `json:"service"`
	StartsAt  string `json:"startsAt"`
	AgentName string `json:"agentName,omitempty"`
}

type AvailabilitySlot struct {
	StartsAt  string `json:"startsAt"`
	Available bool   `json:"available"`
}
