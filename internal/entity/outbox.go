package entity

import (
	"context"
	"encoding/json"
	"time"
)

const EventOnboardingCompleted = "onboarding.completed"

// Status de entrega de um evento de outbox.
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxDead    = "dead"
)

// OutboxEvent é gravado na mesma transação da mutação que o originou e
// entregue depois pelo relay. Elimina a janela "mutação commitada mas
// ninguém foi avisado".
type OutboxEvent struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Status    string          `json:"status"`
	Attempts  int             `json:"attempts"`
	LastError string          `json:"lastError,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type OutboxRepositoryInterface interface {
	// ListPending retorna eventos ainda não entregues e abaixo do limite
	// de tentativas, mais antigos primeiro.
	ListPending(ctx context.Context, maxAttempts, limit int) ([]*OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	// MarkFailed incrementa attempts e guarda o último erro; quando o
	// limite é atingido o evento vai para o estado dead.
	MarkFailed(ctx context.Context, id, reason string, maxAttempts int) error
}
