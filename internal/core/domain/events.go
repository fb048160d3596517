package domain

import "time"

// NotificationDeliveredEvent records a successful render-and-send attempt.
type NotificationDeliveredEvent struct {
	EventID        string
	VideoRequestID int64
	UserID         int64
	Status         RequestStatus
	Recipient      string
	DeliveredAt    time.Time
}

// NotificationFailedEvent records a render-and-send attempt that the mail
// transport rejected. Failures are isolated per record; the event exists so
// downstream monitoring can observe them.
type NotificationFailedEvent struct {
	EventID        string
	VideoRequestID int64
	UserID         int64
	Status         RequestStatus
	Recipient      string
	FailedAt       time.Time
	Reason         string
}
