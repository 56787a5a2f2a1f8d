package identity

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers password-reset links through SendGrid.
type SendGridMailer struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewSendGridMailer(apiKey, fromName, fromEmail string) *SendGridMailer {
	if apiKey == "" {
		panic("sendgrid mailer requires api key")
	}
	if fromEmail == "" {
		panic("sendgrid mailer requires from email")
	}
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (m *SendGridMailer) SendResetLink(ctx context.Context, email, link string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail("", email)
	subject := "Reset your admin password"
	plain := fmt.Sprintf("Follow this link to reset your password: %s", link)
	html := fmt.Sprintf(`<p>Follow this link to reset your admin password:</p><p><a href=%q>Reset password</a></p>`, link)

	message := mail.NewSingleEmail(from, subject, to, plain, html)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send via sendgrid: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected reset mail: status %d", resp.StatusCode)
	}

	return nil
}

var _ ResetMailer = (*SendGridMailer)(nil)
