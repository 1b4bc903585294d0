package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stempro/academy-api/internal/models"
	"github.com/stempro/academy-api/internal/service"
	appErrors "github.com/stempro/academy-api/pkg/errors"
	"github.com/stempro/academy-api/pkg/response"
)

// JobApplicationHandler wires HTTP endpoints to the job application service.
type JobApplicationHandler struct {
	service *service.JobApplicationService
}

// NewJobApplicationHandler creates a new handler.
func NewJobApplicationHandler(svc *service.JobApplicationService) *JobApplicationHandler {
	return &JobApplicationHandler{service: svc}
}

// Create records a public job application.
func (h *JobApplicationHandler) Create(c *gin.Context) {
	var req models.JobApplicationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	application, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, application)
}

// List returns applications, optionally filtered. Admin only.
func (h *JobApplicationHandler) List(c *gin.Context) {
	skip, limit := paginationParams(c)
	status := models.JobApplicationStatus(c.Query("status"))
	position := c.Query("position")

	applications, pagination, err := h.service.List(c.Request.Context(), skip, limit, status, position)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, applications, pagination)
}

// Positions returns the static careers listing.
func (h *JobApplicationHandler) Positions(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"positions": h.service.Positions()}, nil)
}

// Stats summarises applications for the admin dashboard.
func (h *JobApplicationHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats, nil)
}

// Get returns a single application. Admin only.
func (h *JobApplicationHandler) Get(c *gin.Context) {
	application, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, application, nil)
}

// Update applies an admin status or notes change.
func (h *JobApplicationHandler) Update(c *gin.Context) {
	var req models.JobApplicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	application, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, application, nil)
}

// Delete removes an application. Admin only.
func (h *JobApplicationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Job application deleted successfully"}, nil)
}
