package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillstream/edu-notify/internal/core/domain"
	"github.com/skillstream/edu-notify/internal/core/port"
)

// ErrDeliveryFailed indicates the mail transport rejected the message. It is
// surfaced to the caller, never swallowed here; the change feed layer decides
// whether to isolate it.
var ErrDeliveryFailed = errors.New("notification delivery failed")

const (
	subjectNewRequest   = "New Video Request Received"
	subjectStatusUpdate = "Video Request Status Update"

	fallbackNoResponse = "No response yet"
	fallbackNoVideos   = "Not available"
)

var emailBody = template.Must(template.New("video_request").Parse(`<html>
<body>
    <h2>Hello {{.FullName}},</h2>
    <p>{{.StatusDescription}}</p>
    <p>Here are the details of your video request:</p>
    <ul>
        <li><strong>Topic:</strong> {{.Topic}}</li>
        <li><strong>Sub-Topic:</strong> {{.SubTopic}}</li>
        <li><strong>Short Title:</strong> {{.ShortTitle}}</li>
        <li><strong>Description:</strong> {{.Description}}</li>
        <li><strong>Response:</strong> {{.Response}}</li>
        <li><strong>Video URLs:</strong> {{.VideoURLs}}</li>
    </ul>
    <p>Thank you for your request!</p>
</body>
</html>`))

type emailBodyData struct {
	FullName          string
	StatusDescription string
	Topic             string
	SubTopic          string
	ShortTitle        string
	Description       string
	Response          string
	VideoURLs         string
}

// NotifierService renders status-dependent messages and delivers them through
// the external mail transport.
type NotifierService struct {
	sender   port.MailSender
	outcomes port.OutcomePublisher
	logger   *zap.Logger
}

// NewNotifierService constructs a notifier. The outcome publisher may be nil
// when outcome events are not wired.
func NewNotifierService(sender port.MailSender, outcomes port.OutcomePublisher, logger *zap.Logger) *NotifierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifierService{sender: sender, outcomes: outcomes, logger: logger}
}

// Notify renders the notification for the request and delivers it to the
// recipient. A transport fault is surfaced as ErrDeliveryFailed.
func (s *NotifierService) Notify(ctx context.Context, request domain.VideoRequest, recipientName, recipientEmail string) error {
	subject := subjectStatusUpdate
	if request.RequestStatus == domain.StatusRequested {
		subject = subjectNewRequest
	}

	description := request.RequestStatus.Description()

	body, err := renderBody(request, recipientName, description)
	if err != nil {
		return fmt.Errorf("render notification body: %w", err)
	}

	msg := port.MailMessage{
		ToName:    recipientName,
		ToEmail:   recipientEmail,
		Subject:   subject,
		HTMLBody:  body,
		PlainBody: description,
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.publishFailed(ctx, request, recipientEmail, err)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	s.publishDelivered(ctx, request, recipientEmail)

	return nil
}

func renderBody(request domain.VideoRequest, recipientName, description string) (string, error) {
	response := request.Response
	if response == "" {
		response = fallbackNoResponse
	}
	urls := request.VideoURLs
	if urls == "" {
		urls = fallbackNoVideos
	}

	var buf bytes.Buffer
	err := emailBody.Execute(&buf, emailBodyData{
		FullName:          recipientName,
		StatusDescription: description,
		Topic:             request.Topic,
		SubTopic:          request.SubTopic,
		ShortTitle:        request.ShortTitle,
		Description:       request.RequestDescription,
		Response:          response,
		VideoURLs:         urls,
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotifierService) publishDelivered(ctx context.Context, request domain.VideoRequest, recipient string) {
	if s.outcomes == nil {
		return
	}

	event := domain.NotificationDeliveredEvent{
		EventID:        uuid.NewString(),
		VideoRequestID: request.VideoRequestID,
		UserID:         request.UserID,
		Status:         request.RequestStatus,
		Recipient:      recipient,
		DeliveredAt:    time.Now().UTC(),
	}

	if err := s.outcomes.PublishNotificationDelivered(ctx, event); err != nil {
		s.logger.Warn("publish delivered outcome failed",
			zap.Int64("video_request_id", request.VideoRequestID),
			zap.Error(err),
		)
	}
}

func (s *NotifierService) publishFailed(ctx context.Context, request domain.VideoRequest, recipient string, cause error) {
	if s.outcomes == nil {
		return
	}

	event := domain.NotificationFailedEvent{
		EventID:        uuid.NewString(),
		VideoRequestID: request.VideoRequestID,
		UserID:         request.UserID,
		Status:         request.RequestStatus,
		Recipient:      recipient,
		FailedAt:       time.Now().UTC(),
		Reason:         cause.Error(),
	}

	if err := s.outcomes.PublishNotificationFailed(ctx, event); err != nil {
		s.logger.Warn("publish failed outcome failed",
			zap.Int64("video_request_id", request.VideoRequestID),
			zap.Error(err),
		)
	}
}
