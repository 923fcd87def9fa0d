package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/atende-ai/internal/infra/http/middleware"
)

// CRMClient: o que o worker precisa do CRM (Kommo hoje).
type CRMClient interface {
	CreateLead(input CRMLeadInput) (int, error)
}

type CRMLeadInput struct {
	CompanyURL string
	Email      string
	AgentName  string
	IsMock     bool
}

// WelcomeSender: email de boas-vindas pós-onboarding.
type WelcomeSender interface {
	SendWelcome(to, companyURL, agentName string) error
}

// Worker consome a fila de eventos e faz o trabalho lento: lead no CRM e
// email de boas-vindas. Ack manual; envelope podre vai pra DLQ sem requeue.
type Worker struct {
	Channel *amqp.Channel
	CRM     CRMClient
	Mail    WelcomeSender
}

func NewWorker(ch *amqp.Channel, crm CRMClient, mail WelcomeSender) *Worker {
	return &Worker{Channel: ch, CRM: crm, Mail: mail}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var envelope EventEnvelope
			if err := json.Unmarshal(d.Body, &envelope); err != nil {
				log.Printf("[WORKER] invalid envelope, dropping: %s", err)
				d.Nack(false, false)
				continue
			}

			if err := w.processEvent(envelope); err != nil {
				log.Printf("[WORKER] event %s failed: %s", envelope.EventID, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker aguardando eventos na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processEvent(envelope EventEnvelope) error {
	switch envelope.Type {
	case "onboarding.completed":
		var payload OnboardingCompleted
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
			return err
		}
		return w.handleOnboardingCompleted(payload)

	default:
		// Tipo que não conhecemos: ack e segue, não trava a fila.
		log.Printf("[WORKER] unknown event type %q, skipping", envelope.Type)
		return nil
	}
}

func (w *Worker) handleOnboardingCompleted(payload OnboardingCompleted) error {
	if w.CRM != nil {
		leadID, err := w.CRM.CreateLead(CRMLeadInput{
			CompanyURL: payload.CompanyURL,
			Email:      payload.Email,
			AgentName:  payload.AgentName,
			IsMock:     payload.IsMock,
		})
		if err != nil {
			middleware.RecordIntegrationError("kommo")
			return err
		}
		log.Printf("[WORKER] lead #%d criado para %s", leadID, payload.Email)
	}

	if w.Mail != nil {
		if err := w.Mail.SendWelcome(payload.Email, payload.CompanyURL, payload.AgentName); err != nil {
			// Lead já entrou; email de boas-vindas não justifica redelivery.
			middleware.RecordIntegrationError("mail")
			log.Printf("[WORKER] welcome email failed for %s: %v", payload.Email, err)
		}
	}

	middleware.RecordNotificationDelivered()
	return nil
}
