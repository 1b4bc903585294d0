package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stempro/academy-api/internal/models"
	"github.com/stempro/academy-api/internal/service"
	appErrors "github.com/stempro/academy-api/pkg/errors"
	"github.com/stempro/academy-api/pkg/response"
)

// ScheduleHandler wires HTTP endpoints to the schedule service.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler creates a new handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Create records a public consultation request.
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req models.ScheduleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	schedule, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, schedule)
}

// List returns all schedules, optionally filtered by status. Admin only.
func (h *ScheduleHandler) List(c *gin.Context) {
	skip, limit := paginationParams(c)
	status := models.ScheduleStatus(c.Query("status"))

	schedules, pagination, err := h.service.List(c.Request.Context(), skip, limit, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, schedules, pagination)
}

// ListPending returns pending schedules. Admin only.
func (h *ScheduleHandler) ListPending(c *gin.Context) {
	skip, limit := paginationParams(c)

	schedules, pagination, err := h.service.List(c.Request.Context(), skip, limit, models.SchedulePending)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, schedules, pagination)
}

// ListMine returns the caller's own schedule requests.
func (h *ScheduleHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	schedules, err := h.service.ListMine(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, schedules, nil)
}

// Stats summarises schedules for the admin dashboard.
func (h *ScheduleHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats, nil)
}

// Get returns a single schedule.
func (h *ScheduleHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	schedule, err := h.service.Get(c.Request.Context(), *claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, schedule, nil)
}

// Update applies admin changes to a schedule.
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req models.ScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	schedule, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, schedule, nil)
}

// Complete marks a schedule as completed. Admin only.
func (h *ScheduleHandler) Complete(c *gin.Context) {
	schedule, err := h.service.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Schedule marked as completed", "schedule": schedule}, nil)
}

// Cancel cancels a schedule. Admin only.
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	// The body is optional; a cancel without a reason is fine.
	_ = c.ShouldBindJSON(&req)

	schedule, err := h.service.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Schedule cancelled", "schedule": schedule}, nil)
}

// Delete removes a schedule request. Admin only.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Schedule deleted successfully"}, nil)
}
