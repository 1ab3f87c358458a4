package domain

import "context"

// Mailer sends a single email. Implementations may use SES, SMTP, or a no-op.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// ConfirmationEmailData is the payload for the account confirmation email.
type ConfirmationEmailData struct {
	Email      string
	Name       string
	ConfirmURL string
}

// EmailService composes and sends application emails.
type EmailService interface {
	SendConfirmation(ctx context.Context, data *ConfirmationEmailData) error
}
