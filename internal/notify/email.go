package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/resend/resend-go/v2"

	"github.com/nixrix/site-api/pkg/logging"
)

// EmailSender defines the interface for sending emails.
// Implementations can be swapped (Resend, SMTP, stub) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	From    string
	To      string
	Subject string
	Text    string // Plain text body
	HTML    string // Optional HTML body
	ReplyTo string
}

// ProviderError reports that the email provider itself rejected the send.
// Body carries the provider's response text for diagnostics; callers map
// this to a gateway-class failure, anything else to a plain server error.
type ProviderError struct {
	Body string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("notify: email provider failed: %s", e.Body)
}

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	logger *logging.Logger
}

// NewResendSender creates a new Resend email sender. Returns nil when no
// API key is configured.
func NewResendSender(apiKey string, logger *logging.Logger) *ResendSender {
	if apiKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		logger: logger,
	}
}

// Send sends an email via Resend. Provider rejections come back as
// *ProviderError; transport failures (DNS, connect, context deadline)
// stay wrapped transport errors.
func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: resend client not configured")
	}

	sent, err := s.client.Emails.SendWithContext(ctx, BuildSendParams(msg))
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) || ctx.Err() != nil {
			s.logger.Error("resend send failed", "error", err, "to", msg.To)
			return fmt.Errorf("notify: resend send failed: %w", err)
		}
		s.logger.Error("resend rejected email", "error", err, "to", msg.To)
		return &ProviderError{Body: err.Error()}
	}

	s.logger.Info("email sent via resend", "id", sent.Id, "to", msg.To, "subject", msg.Subject)
	return nil
}

// BuildSendParams maps an EmailMessage onto the Resend request shape.
func BuildSendParams(msg EmailMessage) *resend.SendEmailRequest {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	}
	if msg.ReplyTo != "" {
		params.ReplyTo = msg.ReplyTo
	}
	return params
}

// StubSender is a no-op sender for development and tests. It logs what it
// would have sent.
type StubSender struct {
	logger *logging.Logger
}

// NewStubSender creates a stub email sender that logs but doesn't send.
func NewStubSender(logger *logging.Logger) *StubSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubSender{logger: logger}
}

// Send logs the email but doesn't actually send it.
func (s *StubSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("stub email sender: would send email", "to", msg.To, "subject", msg.Subject, "reply_to", msg.ReplyTo)
	return nil
}

// Ensure interface compliance
var _ EmailSender = (*ResendSender)(nil)
var _ EmailSender = (*StubSender)(nil)
