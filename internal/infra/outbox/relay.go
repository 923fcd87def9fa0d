package outbox

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/atende-ai/internal/entity"
	"github.com/xavierca1/atende-ai/internal/infra/queue"
)

// Relay drena a tabela de outbox para a fila. É a segunda metade do
// padrão: a primeira (gravar o evento junto da mutação) fica no
// SubmissionRepository.UpdateCompleted.
type Relay struct {
	Repo        entity.OutboxRepositoryInterface
	Producer    queue.EventPublisherInterface
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

func NewRelay(repo entity.OutboxRepositoryInterface, producer queue.EventPublisherInterface) *Relay {
	return &Relay{
		Repo:        repo,
		Producer:    producer,
		Interval:    5 * time.Second,
		BatchSize:   50,
		MaxAttempts: 5,
	}
}

// Run fica em loop até o contexto morrer.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	log.Printf(" [*] Outbox relay rodando a cada %s", r.Interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Drain(ctx); err != nil {
				log.Printf("[RELAY] drain failed: %v", err)
			}
		}
	}
}

// Drain publica um lote de eventos pendentes. Falha de publicação conta
// tentativa; estourando MaxAttempts o evento vira dead e para de voltar.
func (r *Relay) Drain(ctx context.Context) error {
	events, err := r.Repo.ListPending(ctx, r.MaxAttempts, r.BatchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := r.Producer.PublishEvent(ctx, event); err != nil {
			if markErr := r.Repo.MarkFailed(ctx, event.ID, err.Error(), r.MaxAttempts); markErr != nil {
				return markErr
			}
			continue
		}
		if err := r.Repo.MarkSent(ctx, event.ID); err != nil {
			return err
		}
	}

	return nil
}
