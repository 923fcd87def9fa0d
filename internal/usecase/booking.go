package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/atende-ai/internal/entity"
)

// Janela de atendimento para os slots de disponibilidade.
const (
	slotOpenHour  = 9
	slotCloseHour = 17
	slotStep      = 30 * time.Minute
)

type BookingService struct {
	Repo entity.BookingRepositoryInterface
	Mail EmailService
	// AlertTo: email do dono da conta que recebe aviso de novo
	// agendamento. Vazio = sem aviso.
	AlertTo string
}

func NewBookingService(repo entity.BookingRepositoryInterface, mail EmailService, alertTo string) *BookingService {
	return &BookingService{Repo: repo, Mail: mail, AlertTo: alertTo}
}

func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*entity.Booking, error) {
	if errs := ValidateCreateBookingInput(input); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	startsAt, err := time.Parse(time.RFC3339, input.StartsAt)
	if err != nil {
		startsAt, _ = time.Parse(time.RFC3339Nano, input.StartsAt)
	}

	booking := &entity.Booking{
		ID:        uuid.New().String(),
		AgentID:   strings.TrimSpace(input.AgentID),
		Customer:  strings.TrimSpace(input.Customer),
		Phone:     strings.TrimSpace(input.Phone),
		Service:   strings.TrimSpace(input.Service),
		StartsAt:  startsAt,
		AgentName: strings.TrimSpace(input.AgentName),
	}

	if err := s.Repo.Create(ctx, booking); err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to persist booking: " + err.Error()}
	}

	// Aviso ao dono é melhor-esforço, nunca derruba o agendamento.
	if s.Mail != nil && s.AlertTo != "" {
		go func(b entity.Booking) {
			if err := s.Mail.SendBookingAlert(s.AlertTo, &b); err != nil {
				log.Printf("booking alert email failed: %v", err)
			}
		}(*booking)
	}

	return booking, nil
}

func (s *BookingService) List(ctx context.Context, agentID string, limit int) ([]*entity.Booking, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "agentId is required", Fields: []string{"agentId"}}
	}
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	bookings, err := s.Repo.ListByAgent(ctx, agentID, limit)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}
	return bookings, nil
}

// Availability monta os slots do dia a partir dos agendamentos já
// persistidos. Sem sorteio: slot ocupado é slot com booking.
func (s *BookingService) Availability(ctx context.Context, agentID, date string) ([]AvailabilitySlot, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "agentId is required", Fields: []string{"agentId"}}
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: "date must be YYYY-MM-DD", Fields: []string{"date"}}
	}

	open := day.Add(slotOpenHour * time.Hour)
	closing := day.Add(slotCloseHour * time.Hour)

	booked, err := s.Repo.ListByAgentBetween(ctx, agentID, open, closing)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}

	taken := make(map[int64]bool, len(booked))
	for _, b := range booked {
		taken[b.StartsAt.Truncate(slotStep).Unix()] = true
	}

	var slots []AvailabilitySlot
	for t := open; t.Before(closing); t = t.Add(slotStep) {
		slots = append(slots, AvailabilitySlot{
			StartsAt:  t.Format(time.RFC3339),
			Available: !taken[t.Unix()],
		})
	}

	return slots, nil
}
