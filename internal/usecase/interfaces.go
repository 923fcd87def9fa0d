package usecase

import "github.com/xavierca1/atende-ai/internal/entity"

type EmailService interface {
	SendWelcome(to, companyURL, agentName string) error
	SendBookingAlert(to string, booking *entity.Booking) error
}
