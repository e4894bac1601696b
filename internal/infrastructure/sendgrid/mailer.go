package sendgrid

import (
	"fmt"

	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/snapcloud/identity-api/internal/config"
)

// Mailer sends plain-text email through the SendGrid v3 API.
type Mailer struct {
	client *sg.Client
	from   string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		client: sg.NewSendClient(cfg.SendGridAPIKey),
		from:   cfg.MailFrom,
	}
}

func (m *Mailer) SendEmail(to, subject, body string) error {
	msg := mail.NewSingleEmail(
		mail.NewEmail("", m.from),
		subject,
		mail.NewEmail("", to),
		body,
		body,
	)
	resp, err := m.client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
