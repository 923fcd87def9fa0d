package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/xavierca1/atende-ai/internal/entity"
	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(
	`Olá!

Sua secretária de voz {{if .AgentName}}"{{.AgentName}}" {{end}}já está configurada para {{.CompanyURL}}.

Acesse o painel para acompanhar as ligações e ajustar o comportamento dela.

Equipe AtendeAI`))

func (s *EmailSender) SendWelcome(to, companyURL, agentName string) error {
	data := welcomeEmailData{
		CompanyURL: companyURL,
		AgentName:  agentName,
	}

	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render welcome template: %w", err)
	}

	return s.send(to, "Sua secretária de voz está pronta 🎉", body.String())
}

func (s *EmailSender) SendBookingAlert(to string, booking *entity.Booking) error {
	body := fmt.Sprintf(
		"Novo agendamento feito pela sua secretária de voz:\n\nCliente: %s\nTelefone: %s\nServiço: %s\nHorário: %s\n",
		booking.Customer,
		booking.Phone,
		booking.Service,
		booking.StartsAt.Format("02/01/2006 15:04"),
	)

	return s.send(to, fmt.Sprintf("Novo agendamento: %s", booking.Customer), body)
}

func (s *EmailSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}

	return nil
}
