// Package email sends transactional mail through SendGrid. Delivery is
// best-effort: callers treat failures as log-and-continue, never as a
// reason to fail the business operation that triggered the mail.
package email

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sethvargo/go-retry"

	"github.com/artvia/artvia-backend/pkg/config"
	"github.com/artvia/artvia-backend/pkg/logger"
)

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, to, subject, plain, html string) error
}

// SendgridSender sends through the SendGrid v3 API with bounded retries
// on transport errors and 5xx responses.
type SendgridSender struct {
	apiKey string
	from   string
	logg   *logger.Logger
}

// NewSendgridSender builds a sender from config. Returns an error when
// the API key or from address is missing so callers can decide to run
// without email instead of failing sends later.
func NewSendgridSender(cfg config.SendgridConfig, logg *logger.Logger) (*SendgridSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if cfg.DefaultFrom == "" {
		return nil, fmt.Errorf("sendgrid from address is required")
	}
	return &SendgridSender{
		apiKey: cfg.APIKey,
		from:   cfg.DefaultFrom,
		logg:   logg,
	}, nil
}

func (s *SendgridSender) Send(ctx context.Context, to, subject, plain, html string) error {
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	message := mail.NewSingleEmail(
		mail.NewEmail("Artvia Gallery", s.from),
		subject,
		mail.NewEmail("", to),
		plain,
		html,
	)
	client := sendgrid.NewSendClient(s.apiKey)

	backoff := retry.WithMaxRetries(3, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		response, err := client.SendWithContext(ctx, message)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("sendgrid send: %w", err))
		}
		if response.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("sendgrid status %d: %s", response.StatusCode, response.Body))
		}
		if response.StatusCode >= 400 {
			return fmt.Errorf("sendgrid status %d: %s", response.StatusCode, response.Body)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.logg != nil {
		lctx := s.logg.WithFields(ctx, map[string]any{
			"to":      to,
			"subject": subject,
		})
		s.logg.Info(lctx, "email sent")
	}
	return nil
}
