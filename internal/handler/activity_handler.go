package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/probudget/probudget-backend/internal/domain"
	"github.com/probudget/probudget-backend/internal/service"
)

// ActivityHandler handles activity log HTTP requests
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ActivityResponse represents an activity log entry in API responses
type ActivityResponse struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

func toActivityResponse(e *domain.ActivityLogEntry) ActivityResponse {
	return ActivityResponse{
		ID:          e.ID.String(),
		Timestamp:   e.Timestamp.Format(time.RFC3339),
		Action:      e.Action,
		Description: e.Description,
	}
}

// GetActivity handles GET /activity
func (h *ActivityHandler) GetActivity(c echo.Context) error {
	entries, err := h.activityService.List(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "Failed to list activity log")
	}
	out := make([]ActivityResponse, len(entries))
	for i, e := range entries {
		out[i] = toActivityResponse(e)
	}
	return c.JSON(http.StatusOK, out)
}
