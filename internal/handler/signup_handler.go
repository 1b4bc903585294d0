package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stempro/academy-api/internal/models"
	"github.com/stempro/academy-api/internal/service"
	appErrors "github.com/stempro/academy-api/pkg/errors"
	"github.com/stempro/academy-api/pkg/response"
)

// SignupHandler wires HTTP endpoints to the early-access signup service.
type SignupHandler struct {
	service *service.SignupService
}

// NewSignupHandler creates a new handler.
func NewSignupHandler(svc *service.SignupService) *SignupHandler {
	return &SignupHandler{service: svc}
}

// StudentSignup records a public student signup.
func (h *SignupHandler) StudentSignup(c *gin.Context) {
	var req models.StudentSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid signup payload"))
		return
	}

	signup, err := h.service.SignupStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, signup)
}

// CounselorSignup records a public counselor signup.
func (h *SignupHandler) CounselorSignup(c *gin.Context) {
	var req models.CounselorSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid signup payload"))
		return
	}

	signup, err := h.service.SignupCounselor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, signup)
}

// ListStudents returns student signups. Admin only.
func (h *SignupHandler) ListStudents(c *gin.Context) {
	skip, limit := paginationParams(c)
	status := models.SignupStatus(c.Query("status"))

	signups, pagination, err := h.service.ListStudents(c.Request.Context(), skip, limit, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, signups, pagination)
}

// ListCounselors returns counselor signups. Admin only.
func (h *SignupHandler) ListCounselors(c *gin.Context) {
	skip, limit := paginationParams(c)
	status := models.SignupStatus(c.Query("status"))

	signups, pagination, err := h.service.ListCounselors(c.Request.Context(), skip, limit, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, signups, pagination)
}

// Stats summarises signups for the admin dashboard.
func (h *SignupHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats, nil)
}

type signupStatusRequest struct {
	Status models.SignupStatus `json:"status" binding:"required"`
}

// UpdateStudentStatus moves a student signup through the outreach workflow.
func (h *SignupHandler) UpdateStudentStatus(c *gin.Context) {
	var req signupStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status required"))
		return
	}

	if err := h.service.UpdateStudentStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Status updated successfully"}, nil)
}

// UpdateCounselorStatus moves a counselor signup through the outreach workflow.
func (h *SignupHandler) UpdateCounselorStatus(c *gin.Context) {
	var req signupStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status required"))
		return
	}

	if err := h.service.UpdateCounselorStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"message": "Status updated successfully"}, nil)
}
