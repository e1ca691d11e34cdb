package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/probudget/probudget-backend/internal/domain"
	"github.com/probudget/probudget-backend/internal/money"
	"github.com/probudget/probudget-backend/internal/service"
)

// RecurringHandler handles recurring obligation HTTP requests
type RecurringHandler struct {
	recurringService *service.RecurringService
	materializer     *service.Materializer
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurringService *service.RecurringService, materializer *service.Materializer) *RecurringHandler {
	return &RecurringHandler{
		recurringService: recurringService,
		materializer:     materializer,
	}
}

// RecurringRequest represents the create/update recurring request body
type RecurringRequest struct {
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	Kind        string   `json:"kind"`
	Category    string   `json:"category"`
	StartDate   string   `json:"startDate"`
	Labels      []string `json:"labels,omitempty"`
}

// RecurringResponse represents a recurring obligation in API responses
type RecurringResponse struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	Kind        string   `json:"kind"`
	Category    string   `json:"category"`
	StartDate   string   `json:"startDate"`
	DayOfMonth  int      `json:"dayOfMonth"`
	Labels      []string `json:"labels"`
}

// MaterializeResponse reports how many entries a materialization run created
type MaterializeResponse struct {
	Generated int `json:"generated"`
}

func toRecurringResponse(ob *domain.RecurringObligation) RecurringResponse {
	resp := RecurringResponse{
		ID:          ob.ID.String(),
		Description: ob.Description,
		Amount:      money.Format(ob.Amount),
		Kind:        string(ob.Kind),
		Category:    ob.Category,
		StartDate:   ob.StartDate.Format(dateLayout),
		DayOfMonth:  ob.DayOfMonth,
		Labels:      ob.Labels,
	}
	if resp.Labels == nil {
		resp.Labels = []string{}
	}
	return resp
}

func (r RecurringRequest) toInput() (service.RecurringInput, []ValidationError) {
	var fieldErrs []ValidationError

	amount, err := money.Parse(r.Amount)
	if err != nil {
		fieldErrs = append(fieldErrs, ValidationError{Field: "amount", Message: "Must be a valid decimal number"})
	}

	var startDate time.Time
	if r.StartDate != "" {
		startDate, err = time.Parse(dateLayout, r.StartDate)
		if err != nil {
			fieldErrs = append(fieldErrs, ValidationError{Field: "startDate", Message: "Must be in YYYY-MM-DD format"})
		}
	}

	return service.RecurringInput{
		Description: r.Description,
		Amount:      amount,
		Kind:        domain.EntryKind(r.Kind),
		Category:    r.Category,
		StartDate:   startDate,
		Labels:      r.Labels,
	}, fieldErrs
}

// CreateRecurring handles POST /recurrings
func (h *RecurringHandler) CreateRecurring(c echo.Context) error {
	var req RecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, fieldErrs := req.toInput()
	if len(fieldErrs) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrs)
	}

	ob, err := h.recurringService.CreateRecurring(c.Request().Context(), input)
	if err != nil {
		return serviceError(c, err, "Failed to create recurring obligation")
	}
	return c.JSON(http.StatusCreated, toRecurringResponse(ob))
}

// GetRecurrings handles GET /recurrings
func (h *RecurringHandler) GetRecurrings(c echo.Context) error {
	obs, err := h.recurringService.ListRecurring(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "Failed to list recurring obligations")
	}
	out := make([]RecurringResponse, len(obs))
	for i, ob := range obs {
		out[i] = toRecurringResponse(ob)
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateRecurring handles PUT /recurrings/:id
func (h *RecurringHandler) UpdateRecurring(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid recurring ID", nil)
	}

	var req RecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, fieldErrs := req.toInput()
	if len(fieldErrs) > 0 {
		return NewValidationError(c, "Validation failed", fieldErrs)
	}

	ob, err := h.recurringService.UpdateRecurring(c.Request().Context(), id, input)
	if err != nil {
		return serviceError(c, err, "Failed to update recurring obligation")
	}
	return c.JSON(http.StatusOK, toRecurringResponse(ob))
}

// DeleteRecurring handles DELETE /recurrings/:id
func (h *RecurringHandler) DeleteRecurring(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid recurring ID", nil)
	}

	if err := h.recurringService.DeleteRecurring(c.Request().Context(), id); err != nil {
		return serviceError(c, err, "Failed to delete recurring obligation")
	}
	return c.NoContent(http.StatusNoContent)
}

// Materialize handles POST /recurrings/materialize. The optional asOf query
// parameter defaults to today and may not be in the future: entries only
// come into existence once their month has elapsed.
func (h *RecurringHandler) Materialize(c echo.Context) error {
	now := time.Now().UTC()
	asOf := now
	if asOfStr := c.QueryParam("asOf"); asOfStr != "" {
		parsed, err := time.Parse(dateLayout, asOfStr)
		if err != nil {
			return NewValidationError(c, "Invalid asOf date", []ValidationError{
				{Field: "asOf", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		if parsed.After(now) {
			return NewValidationError(c, "Invalid asOf date", []ValidationError{
				{Field: "asOf", Message: "Must not be in the future"},
			})
		}
		asOf = parsed
	}

	generated := h.materializer.MaterializeAll(c.Request().Context(), asOf)
	return c.JSON(http.StatusOK, MaterializeResponse{Generated: generated})
}
