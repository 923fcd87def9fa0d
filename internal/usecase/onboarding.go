package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/xavierca1/atende-ai/internal/entity"
)

const defaultListLimit = 50

// OnboardingService cobre o ciclo de vida de uma submissão fora do passo
// de captura de email (esse vive em CompleteOnboardingUseCase).
type OnboardingService struct {
	Repo entity.SubmissionRepositoryInterface
}

func NewOnboardingService(repo entity.SubmissionRepositoryInterface) *OnboardingService {
	return &OnboardingService{Repo: repo}
}

// Start cria a submissão com status pending. A URL só é checada na forma;
// alcançabilidade não é problema nosso aqui.
func (s *OnboardingService) Start(ctx context.Context, input StartOnboardingInput) (*entity.Submission, error) {
	if errs := ValidateStartOnboardingInput(input); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	sub := &entity.Submission{
		ID:         uuid.New().String(),
		CompanyURL: strings.TrimSpace(input.CompanyURL),
		Status:     entity.StatusPending,
	}

	if err := s.Repo.Insert(ctx, sub); err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to create submission: " + err.Error()}
	}

	return sub, nil
}

func (s *OnboardingService) Get(ctx context.Context, id string) (*entity.Submission, error) {
	// id vazio nem chega no banco
	if strings.TrimSpace(id) == "" {
		return nil, &DomainError{Code: CodeNotFound, Message: "submission not found"}
	}

	sub, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrSubmissionNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: "submission not found"}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}

	return sub, nil
}

// Update aplica um patch parcial. Mudança de status passa pela tabela de
// transições; anexar um agente a uma submissão pending promove para
// agent_ready sem o caller pedir.
func (s *OnboardingService) Update(ctx context.Context, id string, input UpdateSubmissionInput) (*entity.Submission, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := entity.SubmissionPatch{
		Email:     input.Email,
		AgentID:   input.AgentID,
		AgentName: input.AgentName,
		IsMock:    input.IsMock,
		Status:    input.Status,
	}

	if input.Status != nil {
		if !isKnownStatus(*input.Status) {
			return nil, &DomainError{
				Code:    CodeValidation,
				Message: "unknown status: " + *input.Status,
				Fields:  []string{"status"},
			}
		}
		if !entity.ValidTransition(current.Status, *input.Status) {
			return nil, &DomainError{
				Code:    CodeInvalidTransition,
				Message: "cannot move submission from " + current.Status + " to " + *input.Status,
			}
		}
	} else if input.AgentID != nil && current.Status == entity.StatusPending {
		ready := entity.StatusAgentReady
		patch.Status = &ready
	}

	updated, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, entity.ErrSubmissionNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: "submission not found"}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}

	return updated, nil
}

func (s *OnboardingService) List(ctx context.Context, status string, limit int) ([]*entity.Submission, error) {
	if status != "" && !isKnownStatus(status) {
		return nil, &DomainError{
			Code:    CodeValidation,
			Message: "unknown status: " + status,
			Fields:  []string{"status"},
		}
	}
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	subs, err := s.Repo.List(ctx, status, limit)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}
	return subs, nil
}

func isKnownStatus(status string) bool {
	switch status {
	case entity.StatusPending, entity.StatusAgentReady, entity.StatusCompleted, entity.StatusFailed:
		return true
	}
	return false
}
