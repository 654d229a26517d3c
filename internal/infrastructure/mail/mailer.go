package mail

import (
	"context"
	"log/slog"

	"github.com/campus-events-api/internal/config"
)

// Message is a single transactional email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends transactional emails. A nil Mailer means email delivery is
// not configured; callers degrade instead of failing.
type Mailer interface {
	SendEmail(ctx context.Context, msg Message) error
}

// New picks the mailer for cfg.MailDriver. It returns nil when the selected
// driver has no credentials.
func New(cfg *config.Config) Mailer {
	switch cfg.MailDriver {
	case config.MailSMTP:
		if cfg.SMTPHost == "" {
			slog.Warn("SMTP_HOST not set, email delivery disabled")
			return nil
		}
		return NewSMTPMailer(cfg)
	default:
		if cfg.ResendAPIKey == "" {
			slog.Warn("RESEND_API_KEY not set, email delivery disabled")
			return nil
		}
		return NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
	}
}
