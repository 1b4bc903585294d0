package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stempro/academy-api/internal/service"
	"github.com/stempro/academy-api/pkg/response"
)

// ExportHandler streams admin data exports.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Enrollments streams the enrollment export. Admin only.
func (h *ExportHandler) Enrollments(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	result, err := h.service.Enrollments(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.stream(c, result)
}

// Schedules streams the consultation export. Admin only.
func (h *ExportHandler) Schedules(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	result, err := h.service.Schedules(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.stream(c, result)
}

func (h *ExportHandler) stream(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
