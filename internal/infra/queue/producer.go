package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/atende-ai/internal/entity"
)

// EventEnvelope é o que circula na fila: o evento de outbox como foi
// gravado no banco.
type EventEnvelope struct {
	EventID string          `json:"event_id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// OnboardingCompleted é o payload de entity.EventOnboardingCompleted.
type OnboardingCompleted struct {
	SubmissionID string `json:"submission_id"`
	CompanyURL   string `json:"company_url"`
	Email        string `json:"email"`
	AgentID      string `json:"agent_id"`
	AgentName    string `json:"agent_name,omitempty"`
	IsMock       bool   `json:"is_mock"`
}

type EventPublisherInterface interface {
	PublishEvent(ctx context.Context, event *entity.OutboxEvent) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishEvent(ctx context.Context, event *entity.OutboxEvent) error {
	body, err := json.Marshal(EventEnvelope{
		EventID: event.ID,
		Type:    event.Type,
		Payload: event.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			MessageId:    event.ID,
			DeliveryMode: amqp.Persistent, // mensagem sobrevive a restart do broker
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %v", err)
	}

	return nil
}
