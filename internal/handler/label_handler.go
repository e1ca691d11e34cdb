package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/probudget/probudget-backend/internal/domain"
)

// LabelHandler handles label HTTP requests
type LabelHandler struct {
	labelRepo domain.LabelRepository
}

// NewLabelHandler creates a new LabelHandler
func NewLabelHandler(labelRepo domain.LabelRepository) *LabelHandler {
	return &LabelHandler{labelRepo: labelRepo}
}

// LabelResponse represents a label in API responses
type LabelResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetLabels handles GET /labels
func (h *LabelHandler) GetLabels(c echo.Context) error {
	labels, err := h.labelRepo.List(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "Failed to list labels")
	}
	out := make([]LabelResponse, len(labels))
	for i, l := range labels {
		out[i] = LabelResponse{ID: l.ID.String(), Name: l.Name}
	}
	return c.JSON(http.StatusOK, out)
}
