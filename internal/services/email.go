package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"eventmanagement/internal/domain"
)

var confirmationHTML = template.Must(template.New("confirmation").Parse(
	`<p>Hi{{if .Name}} {{.Name}}{{end}},</p>
<p>Please confirm your account by <a href="{{.ConfirmURL}}">clicking here</a>.</p>
<p>The link expires in 72 hours. If you did not sign up, ignore this email.</p>`))

type emailService struct {
	mailer domain.Mailer
}

// NewEmailService returns an EmailService that sends through the given Mailer.
func NewEmailService(mailer domain.Mailer) domain.EmailService {
	return &emailService{mailer: mailer}
}

// SendConfirmation sends the account confirmation email.
func (s *emailService) SendConfirmation(ctx context.Context, data *domain.ConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("confirmation data is nil")
	}
	var html bytes.Buffer
	if err := confirmationHTML.Execute(&html, data); err != nil {
		return fmt.Errorf("render confirmation template: %w", err)
	}
	text := fmt.Sprintf("Confirm your account: %s (the link expires in 72 hours)", data.ConfirmURL)
	if err := s.mailer.Send(data.Email, "Confirm your email", html.String(), text); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}
