package entity

import (
	"context"
	"errors"
	"time"
)

// Status de uma submissão de onboarding.
const (
	StatusPending    = "pending"
	StatusAgentReady = "agent_ready"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAgentMismatch      = errors.New("agent does not match submission")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// Submission amarra a URL da empresa de um prospect ao agente de voz
// provisionado para ela. Campos opcionais ficam nil até serem capturados.
type Submission struct {
	ID         string    `json:"id"`
	CompanyURL string    `json:"companyUrl"`
	Email      *string   `json:"email"`
	AgentID    *string   `json:"agentId"`
	AgentName  *string   `json:"agentName"`
	IsMock     *bool     `json:"isMock"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// transitionMap: status destino -> status de origem permitidos.
var transitionMap = map[string][]string{
	StatusAgentReady: {StatusPending},
	StatusCompleted:  {StatusAgentReady},
	StatusFailed:     {StatusPending, StatusAgentReady},
}

// ValidTransition reporta se a mudança from -> to está na tabela.
// Repetir o status atual é tratado como no-op, não como transição.
func ValidTransition(from, to string) bool {
	if from == to {
		return true
	}
	allowed, ok := transitionMap[to]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

// SubmissionPatch carrega só os campos que o caller quer mudar.
// nil = campo omitido, o valor persistido é preservado (COALESCE no repo).
type SubmissionPatch struct {
	Email     *string
	AgentID   *string
	AgentName *string
	IsMock    *bool
	Status    *string
}

// IsEmpty reporta se o patch não toca em nenhum campo.
func (p SubmissionPatch) IsEmpty() bool {
	return p.Email == nil && p.AgentID == nil && p.AgentName == nil &&
		p.IsMock == nil && p.Status == nil
}

type SubmissionRepositoryInterface interface {
	Insert(ctx context.Context, s *Submission) error
	FindByID(ctx context.Context, id string) (*Submission, error)
	Update(ctx context.Context, id string, patch SubmissionPatch) (*Submission, error)
	List(ctx context.Context, status string, limit int) ([]*Submission, error)
	// UpdateCompleted grava email + status=completed e o evento de outbox
	// na mesma transação.
	UpdateCompleted(ctx context.Context, id, email string, event *OutboxEvent) (*Submission, error)
}
