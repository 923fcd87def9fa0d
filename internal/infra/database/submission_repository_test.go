package database_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/atende-ai/internal/entity"
	"github.com/xavierca1/atende-ai/internal/infra/database"
)

var submissionCols = []string{
	"id", "company_url", "email", "agent_id", "agent_name", "is_mock", "status", "created_at", "updated_at",
}

func TestSubmissionInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO onboarding_submissions`)).
		WithArgs("sub-1", "https://x.com", nil, nil, nil, nil, entity.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := database.NewSubmissionRepository(db)

	sub := &entity.Submission{ID: "sub-1", CompanyURL: "https://x.com", Status: entity.StatusPending}
	err = repo.Insert(context.Background(), sub)

	assert.NoError(t, err)
	assert.Equal(t, now, sub.CreatedAt)
	assert.Equal(t, now, sub.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionFindByIDMapsNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, company_url, email, agent_id, agent_name, is_mock, status, created_at, updated_at FROM onboarding_submissions WHERE id = $1`)).
		WithArgs("sub-999").
		WillReturnRows(sqlmock.NewRows(submissionCols))

	repo := database.NewSubmissionRepository(db)

	sub, err := repo.FindByID(context.Background(), "sub-999")

	assert.Nil(t, sub)
	assert.ErrorIs(t, err, entity.ErrSubmissionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionFindByIDScansNullableFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM onboarding_submissions WHERE id`).
		WithArgs("sub-1").
		WillReturnRows(sqlmock.NewRows(submissionCols).
			AddRow("sub-1", "https://x.com", nil, "agent-7", nil, nil, entity.StatusAgentReady, now, now))

	repo := database.NewSubmissionRepository(db)

	sub, err := repo.FindByID(context.Background(), "sub-1")

	assert.NoError(t, err)
	assert.Nil(t, sub.Email)
	assert.Nil(t, sub.AgentName)
	assert.Nil(t, sub.IsMock)
	assert.NotNil(t, sub.AgentID)
	assert.Equal(t, "agent-7", *sub.AgentID)
}

// Campos ausentes no patch viajam como NULL e o COALESCE preserva o valor
// persistido.
func TestSubmissionUpdateSendsNullForOmittedFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	email := "ana@example.com"

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE onboarding_submissions SET`)).
		WithArgs("sub-1", email, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(submissionCols).
			AddRow("sub-1", "https://x.com", email, "agent-7", nil, nil, entity.StatusAgentReady, now, now))

	repo := database.NewSubmissionRepository(db)

	sub, err := repo.Update(context.Background(), "sub-1", entity.SubmissionPatch{Email: &email})

	assert.NoError(t, err)
	assert.Equal(t, "ana@example.com", *sub.Email)
	// os campos não enviados continuam com o que estava no banco
	assert.Equal(t, "agent-7", *sub.AgentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE onboarding_submissions SET`)).
		WillReturnRows(sqlmock.NewRows(submissionCols))

	repo := database.NewSubmissionRepository(db)

	sub, err := repo.Update(context.Background(), "sub-999", entity.SubmissionPatch{})

	assert.Nil(t, sub)
	assert.ErrorIs(t, err, entity.ErrSubmissionNotFound)
}

func TestSubmissionList(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT .+ FROM onboarding_submissions\s+WHERE \(\$1 = '' OR status = \$1\)\s+ORDER BY created_at DESC`).
		WithArgs(entity.StatusCompleted, 50).
		WillReturnRows(sqlmock.NewRows(submissionCols).
			AddRow("sub-2", "https://b.com", nil, nil, nil, nil, entity.StatusCompleted, now, now).
			AddRow("sub-1", "https://a.com", nil, nil, nil, nil, entity.StatusCompleted, now.Add(-time.Hour), now))

	repo := database.NewSubmissionRepository(db)

	subs, err := repo.List(context.Background(), entity.StatusCompleted, 50)

	assert.NoError(t, err)
	assert.Len(t, subs, 2)
	assert.Equal(t, "sub-2", subs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A mutação e o evento de outbox entram na mesma transação.
func TestUpdateCompletedCommitsSubmissionAndOutboxTogether(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	payload, _ := json.Marshal(map[string]string{"submission_id": "sub-1"})
	event := &entity.OutboxEvent{
		ID:      "evt-1",
		Type:    entity.EventOnboardingCompleted,
		Payload: payload,
		Status:  entity.OutboxPending,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE onboarding_submissions SET`)).
		WithArgs("sub-1", "ana@example.com", entity.StatusCompleted).
		WillReturnRows(sqlmock.NewRows(submissionCols).
			AddRow("sub-1", "https://x.com", "ana@example.com", "agent-7", nil, nil, entity.StatusCompleted, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO outbox_events`)).
		WithArgs("evt-1", entity.EventOnboardingCompleted, payload, entity.OutboxPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := database.NewSubmissionRepository(db)

	sub, err := repo.UpdateCompleted(context.Background(), "sub-1", "ana@example.com", event)

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, sub.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCompletedRollsBackWhenOutboxInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	event := &entity.OutboxEvent{ID: "evt-1", Type: entity.EventOnboardingCompleted, Payload: []byte(`{}`), Status: entity.OutboxPending}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE onboarding_submissions SET`)).
		WillReturnRows(sqlmock.NewRows(submissionCols).
			AddRow("sub-1", "https://x.com", "ana@example.com", "agent-7", nil, nil, entity.StatusCompleted, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO outbox_events`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	repo := database.NewSubmissionRepository(db)

	sub, err := repo.UpdateCompleted(context.Background(), "sub-1", "ana@example.com", event)

	assert.Nil(t, sub)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCompletedMissingSubmission(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	event := &entity.OutboxEvent{ID: "evt-1", Type: entity.EventOnboardingCompleted, Payload: []byte(`{}`), Status: entity.OutboxPending}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE onboarding_submissions SET`)).
		WillReturnRows(sqlmock.NewRows(submissionCols))
	mock.ExpectRollback()

	repo := database.NewSubmissionRepository(db)

	sub, err := repo.UpdateCompleted(context.Background(), "sub-999", "ana@example.com", event)

	assert.Nil(t, sub)
	assert.ErrorIs(t, err, entity.ErrSubmissionNotFound)
}
