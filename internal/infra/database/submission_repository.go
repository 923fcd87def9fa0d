package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/atende-ai/internal/entity"
)

type SubmissionRepository struct {
	DB *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

const submissionColumns = `id, company_url, email, agent_id, agent_name, is_mock, status, created_at, updated_at`

func (r *SubmissionRepository) Insert(ctx context.Context, s *entity.Submission) error {
	query := `
		INSERT INTO onboarding_submissions (id, company_url, email, agent_id, agent_name, is_mock, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		s.ID,
		s.CompanyURL,
		s.Email,
		s.AgentID,
		s.AgentName,
		s.IsMock,
		s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	return nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*entity.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM onboarding_submissions WHERE id = $1`

	sub, err := scanSubmission(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrSubmissionNotFound
		}
		return nil, err
	}

	return sub, nil
}

// Update: COALESCE segura o valor antigo quando o patch não traz o campo
// (ponteiro nil vira NULL no driver). updated_at usa clock_timestamp()
// para crescer de verdade mesmo dentro de uma transação.
func (r *SubmissionRepository) Update(ctx context.Context, id string, patch entity.SubmissionPatch) (*entity.Submission, error) {
	query := `
		UPDATE onboarding_submissions SET
			email      = COALESCE($2, email),
			agent_id   = COALESCE($3, agent_id),
			agent_name = COALESCE($4, agent_name),
			is_mock    = COALESCE($5, is_mock),
			status     = COALESCE($6, status),
			updated_at = clock_timestamp()
		WHERE id = $1
		RETURNING ` + submissionColumns

	sub, err := scanSubmission(r.DB.QueryRowContext(ctx, query,
		id,
		patch.Email,
		patch.AgentID,
		patch.AgentName,
		patch.IsMock,
		patch.Status,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrSubmissionNotFound
		}
		return nil, err
	}

	return sub, nil
}

func (r *SubmissionRepository) List(ctx context.Context, status string, limit int) ([]*entity.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM onboarding_submissions
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.DB.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*entity.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// UpdateCompleted fecha a submissão e grava o evento de outbox na mesma
// transação. Ou os dois entram, ou nenhum.
func (r *SubmissionRepository) UpdateCompleted(ctx context.Context, id, email string, event *entity.OutboxEvent) (*entity.Submission, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		UPDATE onboarding_submissions SET
			email      = $2,
			status     = $3,
			updated_at = clock_timestamp()
		WHERE id = $1
		RETURNING ` + submissionColumns

	sub, err := scanSubmission(tx.QueryRowContext(ctx, query, id, email, entity.StatusCompleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrSubmissionNotFound
		}
		return nil, err
	}

	outboxQuery := `
		INSERT INTO outbox_events (id, type, payload, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, 0, NOW())
	`
	if _, err := tx.ExecContext(ctx, outboxQuery, event.ID, event.Type, []byte(event.Payload), event.Status); err != nil {
		return nil, fmt.Errorf("failed to insert outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return sub, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*entity.Submission, error) {
	var sub entity.Submission
	err := row.Scan(
		&sub.ID,
		&sub.CompanyURL,
		&sub.Email,
		&sub.AgentID,
		&sub.AgentName,
		&sub.IsMock,
		&sub.Status,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
