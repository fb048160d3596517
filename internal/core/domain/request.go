package domain

// RequestStatus enumerates the lifecycle states of a video request. The status
// is mutated by the course administration tooling, never by this service.
type RequestStatus string

const (
	StatusRequested            RequestStatus = "Requested"
	StatusReviewed             RequestStatus = "Reviewed"
	StatusPendingClarification RequestStatus = "Pending Clarification"
	StatusInProcess            RequestStatus = "InProcess"
	StatusCompleted            RequestStatus = "Completed"
	StatusPublished            RequestStatus = "Published"
)

// Description returns the human-readable summary used in notification bodies.
// Total over the enumeration: unrecognized statuses map to a generic fallback.
func (s RequestStatus) Description() string {
	switch s {
	case StatusRequested:
		return "Your video request has been received and is under review."
	case StatusReviewed:
		return "Your video request has been reviewed."
	case StatusPendingClarification:
		return "We need more information about your video request."
	case StatusInProcess:
		return "Your video request is being processed."
	case StatusCompleted:
		return "Your video request has been completed."
	case StatusPublished:
		return "Your video request has been published."
	default:
		return "Your video request status is unknown."
	}
}

// VideoRequest mirrors the persisted representation in the video_requests table.
type VideoRequest struct {
	VideoRequestID     int64
	UserID             int64
	Topic              string
	SubTopic           string
	ShortTitle         string
	RequestDescription string
	RequestStatus      RequestStatus
	Response           string
	VideoURLs          string
}
