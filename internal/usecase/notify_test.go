package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/skillstream/edu-notify/internal/core/domain"
	"github.com/skillstream/edu-notify/internal/core/port"
)

type mailSenderMock struct {
	sent    []port.MailMessage
	sendErr error
}

func (m *mailSenderMock) Send(_ context.Context, msg port.MailMessage) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

type outcomePublisherMock struct {
	delivered []domain.NotificationDeliveredEvent
	failed    []domain.NotificationFailedEvent
}

func (m *outcomePublisherMock) PublishNotificationDelivered(_ context.Context, event domain.NotificationDeliveredEvent) error {
	m.delivered = append(m.delivered, event)
	return nil
}

func (m *outcomePublisherMock) PublishNotificationFailed(_ context.Context, event domain.NotificationFailedEvent) error {
	m.failed = append(m.failed, event)
	return nil
}

func TestRequestStatus_Description_Total(t *testing.T) {
	cases := map[domain.RequestStatus]string{
		domain.StatusRequested:            "Your video request has been received and is under review.",
		domain.StatusReviewed:             "Your video request has been reviewed.",
		domain.StatusPendingClarification: "We need more information about your video request.",
		domain.StatusInProcess:            "Your video request is being processed.",
		domain.StatusCompleted:            "Your video request has been completed.",
		domain.StatusPublished:            "Your video request has been published.",
		domain.RequestStatus("Archived"):  "Your video request status is unknown.",
		domain.RequestStatus(""):          "Your video request status is unknown.",
	}

	for status, want := range cases {
		if got := status.Description(); got != want {
			t.Errorf("Description(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestNotifierService_Notify_SubjectByStatus(t *testing.T) {
	cases := []struct {
		status  domain.RequestStatus
		subject string
	}{
		{domain.StatusRequested, "New Video Request Received"},
		{domain.StatusReviewed, "Video Request Status Update"},
		{domain.StatusCompleted, "Video Request Status Update"},
		{domain.RequestStatus("Archived"), "Video Request Status Update"},
	}

	for _, tc := range cases {
		sender := &mailSenderMock{}
		service := NewNotifierService(sender, nil, nil)

		request := domain.VideoRequest{VideoRequestID: 1, RequestStatus: tc.status}
		if err := service.Notify(context.Background(), request, "Doe,Jane", "jane@x.com"); err != nil {
			t.Fatalf("Notify(%q) failed: %v", tc.status, err)
		}

		if len(sender.sent) != 1 {
			t.Fatalf("expected one message for %q, got %d", tc.status, len(sender.sent))
		}
		if sender.sent[0].Subject != tc.subject {
			t.Errorf("status %q: expected subject %q, got %q", tc.status, tc.subject, sender.sent[0].Subject)
		}
	}
}

func TestNotifierService_Notify_CompletedScenario(t *testing.T) {
	sender := &mailSenderMock{}
	service := NewNotifierService(sender, nil, nil)

	request := domain.VideoRequest{
		VideoRequestID:     9,
		UserID:             42,
		Topic:              "Algebra",
		SubTopic:           "Quadratic Equations",
		ShortTitle:         "Solving quadratics",
		RequestDescription: "Please cover the discriminant.",
		RequestStatus:      domain.StatusCompleted,
		Response:           "Recorded and uploaded",
		VideoURLs:          "https://videos.example/q1",
	}

	if err := service.Notify(context.Background(), request, "Doe,Jane", "jane@x.com"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	body := sender.sent[0].HTMLBody
	for _, want := range []string{
		"Hello Doe,Jane",
		"Your video request has been completed.",
		"Recorded and uploaded",
		"https://videos.example/q1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestNotifierService_Notify_EmptyFieldFallbacks(t *testing.T) {
	sender := &mailSenderMock{}
	service := NewNotifierService(sender, nil, nil)

	request := domain.VideoRequest{VideoRequestID: 3, RequestStatus: domain.StatusRequested}
	if err := service.Notify(context.Background(), request, "Doe,Jane", "jane@x.com"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	body := sender.sent[0].HTMLBody
	if !strings.Contains(body, "No response yet") {
		t.Errorf("expected response fallback in body:\n%s", body)
	}
	if !strings.Contains(body, "Not available") {
		t.Errorf("expected video urls fallback in body:\n%s", body)
	}
}

func TestNotifierService_Notify_DeliveryFailure(t *testing.T) {
	sender := &mailSenderMock{sendErr: errors.New("gateway timeout")}
	outcomes := &outcomePublisherMock{}
	service := NewNotifierService(sender, outcomes, nil)

	request := domain.VideoRequest{VideoRequestID: 5, UserID: 42, RequestStatus: domain.StatusReviewed}

	err := service.Notify(context.Background(), request, "Doe,Jane", "jane@x.com")
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}

	if len(outcomes.failed) != 1 {
		t.Fatalf("expected one failed outcome event, got %d", len(outcomes.failed))
	}
	if len(outcomes.delivered) != 0 {
		t.Errorf("expected no delivered outcome event, got %d", len(outcomes.delivered))
	}
	if outcomes.failed[0].VideoRequestID != 5 {
		t.Errorf("expected failed event for request 5, got %d", outcomes.failed[0].VideoRequestID)
	}
	if outcomes.failed[0].Reason == "" {
		t.Error("expected failure reason to be recorded")
	}
}

func TestNotifierService_Notify_PublishesDeliveredOutcome(t *testing.T) {
	sender := &mailSenderMock{}
	outcomes := &outcomePublisherMock{}
	service := NewNotifierService(sender, outcomes, nil)

	request := domain.VideoRequest{VideoRequestID: 5, UserID: 42, RequestStatus: domain.StatusPublished}

	if err := service.Notify(context.Background(), request, "Doe,Jane", "jane@x.com"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if len(outcomes.delivered) != 1 {
		t.Fatalf("expected one delivered outcome event, got %d", len(outcomes.delivered))
	}
	event := outcomes.delivered[0]
	if event.VideoRequestID != 5 || event.UserID != 42 {
		t.Errorf("unexpected delivered event: %+v", event)
	}
	if event.EventID == "" {
		t.Error("expected a generated event id")
	}
	if event.Recipient != "jane@x.com" {
		t.Errorf("expected recipient jane@x.com, got %s", event.Recipient)
	}
}
