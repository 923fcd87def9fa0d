package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/atende-ai/internal/entity"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, agent_id, customer, phone, service, starts_at, agent_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		b.ID,
		b.AgentID,
		b.Customer,
		b.Phone,
		b.Service,
		b.StartsAt,
		nullString(b.AgentName),
	).Scan(&b.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) ListByAgent(ctx context.Context, agentID string, limit int) ([]*entity.Booking, error) {
	query := `
		SELECT id, agent_id, customer, phone, service, starts_at, COALESCE(agent_name, ''), created_at
		FROM bookings
		WHERE agent_id = $1
		ORDER BY starts_at DESC
		LIMIT $2
	`
	return r.queryBookings(ctx, query, agentID, limit)
}

func (r *BookingRepository) ListByAgentBetween(ctx context.Context, agentID string, from, to time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT id, agent_id, customer, phone, service, starts_at, COALESCE(agent_name, ''), created_at
		FROM bookings
		WHERE agent_id = $1 AND starts_at >= $2 AND starts_at < $3
		ORDER BY starts_at
	`
	return r.queryBookings(ctx, query, agentID, from, to)
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var b entity.Booking
		if err := rows.Scan(&b.ID, &b.AgentID, &b.Customer, &b.Phone, &b.Service, &b.StartsAt, &b.AgentName, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
