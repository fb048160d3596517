package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCase maps a sentinel error to an HTTP status code and response envelope.
type ErrorCase struct {
	Err     error
	Status  int
	Action  string
	Message string
}

// RespondWithMappedError resolves the provided error against known cases or
// falls back to a generic envelope.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			action := cs.Action
			if action == "" {
				action = ActionError
			}
			c.JSON(cs.Status, NewEnvelope(action, cs.Message, cs.Status))
			return
		}
	}

	c.JSON(fallbackStatus, NewEnvelope(ActionError, fallbackMessage, fallbackStatus))
}
