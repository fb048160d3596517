package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/skillstream/edu-notify/internal/core/port"
	"github.com/skillstream/edu-notify/internal/infra/config"
	"github.com/skillstream/edu-notify/internal/infra/logger"
)

// Sender delivers rendered messages through the SendGrid v3 API.
type Sender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *zap.Logger
}

func NewSender(cfg config.MailSettings, log *zap.Logger) *Sender {
	return &Sender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    log,
	}
}

func (s *Sender) Send(ctx context.Context, msg port.MailMessage) error {
	message := sgmail.NewV3Mail()
	message.SetFrom(sgmail.NewEmail(s.fromName, s.fromEmail))
	message.Subject = msg.Subject

	personalization := sgmail.NewPersonalization()
	personalization.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))
	message.AddPersonalizations(personalization)

	message.AddContent(
		sgmail.NewContent("text/plain", msg.PlainBody),
		sgmail.NewContent("text/html", msg.HTMLBody),
	)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}

	s.logger.Debug("mail accepted by transport",
		zap.String("to", logger.MaskEmail(msg.ToEmail)),
		zap.String("subject", msg.Subject),
		zap.Int("status", resp.StatusCode),
	)

	return nil
}
