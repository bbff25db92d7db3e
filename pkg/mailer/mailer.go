package mailer

import (
	"fmt"

	"lms_backend/internal/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer sends transactional email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(msg Message) error
}

// SendGridMailer delivers mail through the SendGrid API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(cfg *config.MailConfig) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromAddress),
	}
}

func (m *SendGridMailer) Send(msg Message) error {
	email := mail.NewSingleEmail(m.from, msg.Subject, mail.NewEmail("", msg.To), msg.Text, msg.HTML)
	resp, err := m.client.Send(email)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
	}
	return nil
}

// ConsoleMailer logs mail instead of sending it. Used in development and tests.
type ConsoleMailer struct {
	Logger *zap.Logger
}

func (m *ConsoleMailer) Send(msg Message) error {
	m.Logger.Info("mail (console provider)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.HTML),
	)
	return nil
}

// NewMailer picks the provider configured in mail.provider, defaulting to console.
func NewMailer(cfg *config.Config, log *zap.Logger) Mailer {
	if cfg.Mail.Provider == "sendgrid" && cfg.Mail.SendGridAPIKey != "" {
		return NewSendGridMailer(&cfg.Mail)
	}
	return &ConsoleMailer{Logger: log}
}
