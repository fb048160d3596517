package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillstream/edu-notify/internal/usecase"
)

// NotificationHandler exposes the on-demand notification trigger.
type NotificationHandler struct {
	feed *usecase.ChangeFeedService
}

func NewNotificationHandler(feed *usecase.ChangeFeedService) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// RegisterRoutes binds notification endpoints.
func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/notifications/video-request", h.Trigger)
}

// Trigger re-sends the status notification for a single video request. Only
// the id is authoritative: the request is re-read from storage before mailing,
// and the submitted payload is echoed back on success.
func (h *NotificationHandler) Trigger(c *gin.Context) {
	var req VideoRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewEnvelope(ActionValidationError, "invalid video request payload", http.StatusBadRequest))
		return
	}

	if err := h.feed.NotifyByRequestID(c.Request.Context(), req.VideoRequestID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{
				Err:     usecase.ErrInvalidRequestID,
				Status:  http.StatusBadRequest,
				Action:  ActionValidationError,
				Message: "videoRequestId is required",
			},
			{
				Err:     usecase.ErrRequestNotFound,
				Status:  http.StatusNotFound,
				Action:  ActionNotFound,
				Message: "video request not found",
			},
			{
				Err:     usecase.ErrDeliveryFailed,
				Status:  http.StatusBadGateway,
				Message: "notification could not be delivered",
			},
		}, http.StatusInternalServerError, "failed to send notification")
		return
	}

	c.JSON(http.StatusOK, req)
}
