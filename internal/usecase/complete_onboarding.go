package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/atende-ai/internal/entity"
)

// CompleteOnboardingUseCase é o passo final do funil: amarra o email do
// prospect à submissão e dispara a notificação de CRM via outbox.
type CompleteOnboardingUseCase struct {
	Repo entity.SubmissionRepositoryInterface
}

func NewCompleteOnboardingUseCase(repo entity.SubmissionRepositoryInterface) *CompleteOnboardingUseCase {
	return &CompleteOnboardingUseCase{Repo: repo}
}

func (uc *CompleteOnboardingUseCase) Execute(ctx context.Context, input CompleteOnboardingInput) (*CompleteOnboardingOutput, error) {
	// 1. Forma da entrada. Nada foi tocado ainda.
	if errs := ValidateCompleteOnboardingInput(input); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	// 2. A submissão precisa existir.
	sub, err := uc.Repo.FindByID(ctx, input.SubmissionID)
	if err != nil {
		if errors.Is(err, entity.ErrSubmissionNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: "submission not found"}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}

	// 3. Trava de identidade: o agentId do request tem que ser o agente
	// já amarrado à submissão. Impede colar um email no agente errado.
	if sub.AgentID == nil || *sub.AgentID != input.AgentID {
		return nil, &DomainError{
			Code:    CodeAgentMismatch,
			Message: "agent does not match this submission, please restart onboarding",
		}
	}

	// 4. Só agent_ready pode virar completed. O atalho de no-op da tabela
	// não vale aqui: completar de novo reescreveria o email e duplicaria o
	// evento de outbox, então completed é terminal.
	if sub.Status == entity.StatusCompleted || !entity.ValidTransition(sub.Status, entity.StatusCompleted) {
		return nil, &DomainError{
			Code:    CodeInvalidTransition,
			Message: "cannot complete a submission in status " + sub.Status,
		}
	}

	// 5. Mutação + evento de outbox na mesma transação. O relay entrega
	// o lead pro CRM depois; aqui nunca falamos com serviço externo.
	event, err := buildCompletedEvent(sub, input.Email)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to build outbox payload: " + err.Error()}
	}

	if _, err := uc.Repo.UpdateCompleted(ctx, sub.ID, input.Email, event); err != nil {
		if errors.Is(err, entity.ErrSubmissionNotFound) {
			// Sumiu entre o fetch e o update. Raríssimo, mas é 5xx.
			return nil, &TechnicalError{Code: CodeConflict, Message: "submission disappeared during completion"}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}

	return &CompleteOnboardingOutput{
		Success:      true,
		DashboardURL: fmt.Sprintf("/dashboard?agentId=%s&submissionId=%s", input.AgentID, sub.ID),
	}, nil
}

// CompletedPayload é o shape que o worker de notificação consome.
type CompletedPayload struct {
	SubmissionID string `json:"submission_id"`
	CompanyURL   string `json:"company_url"`
	Email        string `json:"email"`
	AgentID      string `json:"agent_id"`
	AgentName    string `json:"agent_name,omitempty"`
	IsMock       bool   `json:"is_mock"`
}

func buildCompletedEvent(sub *entity.Submission, email string) (*entity.OutboxEvent, error) {
	payload := CompletedPayload{
		SubmissionID: sub.ID,
		CompanyURL:   sub.CompanyURL,
		Email:        email,
	}
	if sub.AgentID != nil {
		payload.AgentID = *sub.AgentID
	}
	if sub.AgentName != nil {
		payload.AgentName = *sub.AgentName
	}
	if sub.IsMock != nil {
		payload.IsMock = *sub.IsMock
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &entity.OutboxEvent{
		ID:        uuid.New().String(),
		Type:      entity.EventOnboardingCompleted,
		Payload:   body,
		Status:    entity.OutboxPending,
		CreatedAt: time.Now(),
	}, nil
}
