// internal/adapters/out/mail/reset_mailer.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// EmailClient abstracts the actual transport (SendGrid, SMTP, ...).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// PasswordResetMailer sends the password reset link produced by Firebase Admin.
type PasswordResetMailer struct {
	client      EmailClient
	fromAddress string
	storeName   string
}

func NewPasswordResetMailer(client EmailClient, fromAddress string) *PasswordResetMailer {
	return &PasswordResetMailer{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
		storeName:   "Storefront",
	}
}

func (m *PasswordResetMailer) SendPasswordReset(ctx context.Context, toEmail, link string) error {
	if m == nil || m.client == nil {
		return errors.New("mail: reset mailer is not configured")
	}
	to := strings.TrimSpace(toEmail)
	link = strings.TrimSpace(link)
	if to == "" || link == "" {
		return fmt.Errorf("mail: invalid reset mail to=%q", to)
	}

	subject := fmt.Sprintf("Reset your %s password", m.storeName)
	body := fmt.Sprintf(`Hello,

We received a request to reset the password for your %s account (%s).

Open the link below to choose a new password:

  %s

If you did not ask for this, you can ignore this message.

-- 
%s`, m.storeName, to, link, m.storeName)

	return m.client.Send(ctx, m.fromAddress, to, subject, body)
}
