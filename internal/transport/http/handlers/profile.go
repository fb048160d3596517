package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillstream/edu-notify/internal/usecase"
)

// ProfileHandler exposes the idempotent profile upsert endpoint.
type ProfileHandler struct {
	profiles *usecase.ProfileService
}

func NewProfileHandler(profiles *usecase.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterRoutes binds profile endpoints.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/profile", h.Upsert)
}

// Upsert creates the profile on first sight of an external identity and
// updates descriptive fields on subsequent calls. The response always carries
// the canonical persisted profile with its resolved role names.
func (h *ProfileHandler) Upsert(c *gin.Context) {
	var req ProfilePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewEnvelope(ActionValidationError, "invalid profile payload", http.StatusBadRequest))
		return
	}

	profile, roles, err := h.profiles.Reconcile(c.Request.Context(), req.toDomain())
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{
				Err:     usecase.ErrMissingExternalID,
				Status:  http.StatusBadRequest,
				Action:  ActionValidationError,
				Message: "adObjId is required",
			},
			{
				Err:     usecase.ErrDefaultRoleMissing,
				Status:  http.StatusInternalServerError,
				Message: "default role is not provisioned",
			},
		}, http.StatusInternalServerError, "failed to reconcile profile")
		return
	}

	c.JSON(http.StatusOK, newProfilePayload(profile, roles))
}
