package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stempro/academy-api/internal/service"
	"github.com/stempro/academy-api/pkg/response"
)

// CourseHandler serves the static catalog endpoints.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a new handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// Catalog returns all courses and programs.
func (h *CourseHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Catalog(), nil)
}

// Course returns a single course.
func (h *CourseHandler) Course(c *gin.Context) {
	course, err := h.service.Course(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, course, nil)
}

// Program returns a single program.
func (h *CourseHandler) Program(c *gin.Context) {
	program, err := h.service.Program(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, program, nil)
}
