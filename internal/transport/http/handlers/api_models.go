package handlers

import (
	"strconv"
	"time"

	"github.com/skillstream/edu-notify/internal/core/domain"
)

// apiVersion is stamped into every response envelope.
const apiVersion = "1.0.0"

// Envelope actions understood by existing platform clients.
const (
	ActionValidationError = "ValidationError"
	ActionNotFound        = "NotFound"
	ActionError           = "Error"
)

// ResponseEnvelope is the error payload shape shared with the other platform
// services. Clients switch on Action; UserMessage is safe to surface directly.
type ResponseEnvelope struct {
	Version     string `json:"version"`
	Action      string `json:"action"`
	UserMessage string `json:"userMessage,omitempty"`
	Status      string `json:"status,omitempty"`
}

// NewEnvelope builds a response envelope with the given action and message.
func NewEnvelope(action, userMessage string, status int) ResponseEnvelope {
	return ResponseEnvelope{
		Version:     apiVersion,
		Action:      action,
		UserMessage: userMessage,
		Status:      strconv.Itoa(status),
	}
}

// ProfilePayload is the inbound and outbound profile shape.
type ProfilePayload struct {
	UserID      int64    `json:"userId"`
	DisplayName string   `json:"displayName"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	ADObjID     string   `json:"adObjId"`
	Roles       []string `json:"roles"`
}

// toDomain converts the payload into a domain profile. Roles are not carried
// over: role membership is resolved server-side, never taken from the caller.
func (p ProfilePayload) toDomain() domain.UserProfile {
	return domain.UserProfile{
		UserID:      p.UserID,
		ADObjectID:  p.ADObjID,
		DisplayName: p.DisplayName,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
	}
}

// newProfilePayload converts a reconciled profile and its resolved role names
// into the API shape.
func newProfilePayload(profile domain.UserProfile, roles []string) ProfilePayload {
	if roles == nil {
		roles = []string{}
	}
	return ProfilePayload{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		Email:       profile.Email,
		ADObjID:     profile.ADObjectID,
		Roles:       roles,
	}
}

// VideoRequestPayload is the on-demand notification trigger body. The summary
// fields are echoed back verbatim on success.
type VideoRequestPayload struct {
	VideoRequestID     int64  `json:"videoRequestId"`
	UserID             int64  `json:"userId,omitempty"`
	Topic              string `json:"topic,omitempty"`
	SubTopic           string `json:"subTopic,omitempty"`
	ShortTitle         string `json:"shortTitle,omitempty"`
	RequestDescription string `json:"requestDescription,omitempty"`
	RequestStatus      string `json:"requestStatus,omitempty"`
	Response           string `json:"response,omitempty"`
	VideoURLs          string `json:"videoUrls,omitempty"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
