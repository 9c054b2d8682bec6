// internal/adapters/out/mail/sendgrid_client.go
package mail

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// SendGridClient implements EmailClient.
type SendGridClient struct {
	apiKey   string
	fromName string
	log      *zap.Logger
}

func NewSendGridClient(apiKey string, log *zap.Logger) *SendGridClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &SendGridClient{apiKey: apiKey, fromName: "Storefront", log: log.Named("sendgrid")}
}

// Send sends a plain-text mail (HTML part is the escaped body in <pre>).
func (c *SendGridClient) Send(ctx context.Context, from, to, subject, body string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if from == "" {
		return fmt.Errorf("from address is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(c.fromName, from),
		subject,
		sgmail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body)),
	)

	response, err := sendgrid.NewSendClient(c.apiKey).SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		c.log.Error("send failed", zap.Int("status", response.StatusCode), zap.String("body", response.Body))
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	c.log.Info("mail sent", zap.Int("status", response.StatusCode), zap.String("to", to), zap.String("subject", subject))
	return nil
}
