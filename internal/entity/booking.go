package entity

import (
	"context"
	"time"
)

// Booking é um agendamento feito pela secretária de voz em nome de um
// cliente final. Persistido: reiniciar o processo não pode perder agenda.
type Booking struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agentId"`
	Customer  string    `json:"customer"`
	Phone     string    `json:"phone"`
	Service   string    `json:"service"`
	StartsAt  time.Time `json:"startsAt"`
	AgentName string    `json:"agentName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type BookingRepositoryInterface interface {
	Create(ctx context.Context, b *Booking) error
	ListByAgent(ctx context.Context, agentID string, limit int) ([]*Booking, error)
	// ListByAgentBetween limita a janela para o cálculo de disponibilidade.
	ListByAgentBetween(ctx context.Context, agentID string, from, to time.Time) ([]*Booking, error)
}
