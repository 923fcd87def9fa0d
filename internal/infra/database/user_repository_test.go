package database_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/atende-ai/internal/entity"
	"github.com/xavierca1/atende-ai/internal/infra/database"
)

var userCols = []string{
	"id", "email", "password_hash", "gateway_customer_id", "subscription_status", "created_at", "updated_at",
}

func TestUserCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("user-1", "ana@example.com", "$2a$10$hash", "none").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	repo := database.NewUserRepository(db)

	err = repo.Create(context.Background(), &entity.User{
		ID:                 "user-1",
		Email:              "ana@example.com",
		PasswordHash:       "$2a$10$hash",
		SubscriptionStatus: "none",
	})

	assert.ErrorIs(t, err, entity.ErrEmailAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("user-1", "ana@example.com", "$2a$10$hash", "", "none", now, now))

	repo := database.NewUserRepository(db)

	user, err := repo.FindByEmail(context.Background(), "ana@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Empty(t, user.GatewayCustomerID)
}

func TestUserFindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WithArgs("user-999").
		WillReturnRows(sqlmock.NewRows(userCols))

	repo := database.NewUserRepository(db)

	user, err := repo.FindByID(context.Background(), "user-999")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestUserUpdateSubscriptionStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET subscription_status = $2, updated_at = NOW() WHERE id = $1`)).
		WithArgs("user-1", "active").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := database.NewUserRepository(db)

	assert.NoError(t, repo.UpdateSubscriptionStatus(context.Background(), "user-1", "active"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
