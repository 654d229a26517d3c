package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// emailSender is the slice of the Resend SDK the mailer uses.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type resendMailer struct {
	emails emailSender
	from   string
}

// NewResendMailer sends through the Resend HTTP API.
func NewResendMailer(apiKey, from string) Mailer {
	client := resend.NewClient(apiKey)
	return &resendMailer{emails: client.Emails, from: from}
}

func (m *resendMailer) SendEmail(ctx context.Context, msg Message) error {
	sent, err := m.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("resend send email: %w", err)
	}
	slog.Info("email sent", "provider", "resend", "id", sent.Id, "subject", msg.Subject)
	return nil
}
