package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmailAlreadyExists = errors.New("a user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
)

type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	GatewayCustomerID  string    `json:"gatewayCustomerId,omitempty"`
	SubscriptionStatus string    `json:"subscriptionStatus"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	// SetGatewayCustomerID persiste o id do cliente no gateway de pagamento
	// na primeira ida ao checkout.
	SetGatewayCustomerID(ctx context.Context, userID, gatewayID string) error
	FindByGatewayCustomerID(ctx context.Context, gatewayID string) (*User, error)
	UpdateSubscriptionStatus(ctx context.Context, userID, status string) error
}
