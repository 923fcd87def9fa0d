package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/atende-ai/internal/entity"
)

type OutboxRepository struct {
	DB *sql.DB
}

func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{DB: db}
}

func (r *OutboxRepository) ListPending(ctx context.Context, maxAttempts, limit int) ([]*entity.OutboxEvent, error) {
	query := `
		SELECT id, type, payload, status, attempts, COALESCE(last_error, ''), created_at
		FROM outbox_events
		WHERE status = $1 AND attempts < $2
		ORDER BY created_at
		LIMIT $3
	`

	rows, err := r.DB.QueryContext(ctx, query, entity.OutboxPending, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*entity.OutboxEvent
	for rows.Next() {
		var e entity.OutboxEvent
		if err := rows.Scan(&e.ID, &e.Type, &e.Payload, &e.Status, &e.Attempts, &e.LastError, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}

	return events, rows.Err()
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id string) error {
	query := `UPDATE outbox_events SET status = $1, delivered_at = NOW() WHERE id = $2`
	_, err := r.DB.ExecContext(ctx, query, entity.OutboxSent, id)
	return err
}

// MarkFailed acumula a tentativa; batendo no teto, o evento vai para dead
// e sai da fila do relay (o equivalente de DLQ do lado do banco).
func (r *OutboxRepository) MarkFailed(ctx context.Context, id, reason string, maxAttempts int) error {
	query := `
		UPDATE outbox_events SET
			attempts   = attempts + 1,
			last_error = $2,
			status     = CASE WHEN attempts + 1 >= $3 THEN $4 ELSE status END
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, id, reason, maxAttempts, entity.OutboxDead)
	return err
}
