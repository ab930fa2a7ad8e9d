package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-api/internal/dto"
	"github.com/learnhub/lms-api/internal/service"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
	"github.com/learnhub/lms-api/pkg/response"
)

// TeacherHandler wires the teacher-facing course and dashboard endpoints.
type TeacherHandler struct {
	courses *service.CourseService
	stats   *service.StatsService
}

// NewTeacherHandler creates a new handler.
func NewTeacherHandler(courses *service.CourseService, stats *service.StatsService) *TeacherHandler {
	return &TeacherHandler{courses: courses, stats: stats}
}

// Dashboard godoc
// @Summary Teacher dashboard
// @Description Rolled-up catalog numbers and recent courses for the acting teacher
// @Tags Teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/stats [get]
func (h *TeacherHandler) Dashboard(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dashboard, err := h.stats.TeacherDashboard(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// CreateCourse godoc
// @Summary Create a course
// @Description Register a new course; it enters the moderation queue as pending
// @Tags Teacher
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teacher/courses [post]
func (h *TeacherHandler) CreateCourse(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.courses.CreateCourse(c.Request.Context(), principal.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// ListCourses godoc
// @Summary List own courses
// @Description The acting teacher's courses with enrollment counts and rating averages
// @Tags Teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/courses [get]
func (h *TeacherHandler) ListCourses(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	courses, err := h.courses.ListOwnCourses(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// GetCourse godoc
// @Summary Own course detail
// @Description Roster, approved reviews and aggregates for one owned course
// @Tags Teacher
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/courses/{id} [get]
func (h *TeacherHandler) GetCourse(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	detail, err := h.courses.GetOwnCourse(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// UpdateCourse godoc
// @Summary Update an owned course
// @Description Edit title or description; an approved course returns to pending
// @Tags Teacher
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/courses/{id} [patch]
func (h *TeacherHandler) UpdateCourse(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.courses.UpdateCourse(c.Request.Context(), principal.ID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}
