package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-api/internal/dto"
	"github.com/learnhub/lms-api/internal/models"
	"github.com/learnhub/lms-api/internal/service"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
	"github.com/learnhub/lms-api/pkg/response"
)

// AdminHandler wires the admin moderation and dashboard endpoints.
type AdminHandler struct {
	moderation *service.ModerationService
	stats      *service.StatsService
	metrics    *service.MetricsService
	exports    bool
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(moderation *service.ModerationService, stats *service.StatsService, metrics *service.MetricsService, exportsEnabled bool) *AdminHandler {
	return &AdminHandler{moderation: moderation, stats: stats, metrics: metrics, exports: exportsEnabled}
}

// Dashboard godoc
// @Summary Admin dashboard
// @Description Platform-wide counts including pending moderation queues
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/stats [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.stats.AdminDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// ListTeachers godoc
// @Summary List teacher accounts
// @Description List teachers filtered by status or search, paginated
// @Tags Admin
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Match against name or email"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/teachers [get]
func (h *AdminHandler) ListTeachers(c *gin.Context) {
	filter, err := userFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	teachers, total, err := h.moderation.ListTeachers(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, teachers, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// GetTeacher godoc
// @Summary Teacher detail
// @Description Admin drill-down on one teacher with catalog and aggregates
// @Tags Admin
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/teachers/{id}/details [get]
func (h *AdminHandler) GetTeacher(c *gin.Context) {
	detail, err := h.moderation.GetTeacherDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// DecideTeacher godoc
// @Summary Decide a pending teacher
// @Description Approve or reject a pending teacher account
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body dto.DecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/teachers/{id}/status [patch]
func (h *AdminHandler) DecideTeacher(c *gin.Context) {
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	teacher, err := h.moderation.DecideTeacher(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordDecision("teacher", string(teacher.Status))
	response.JSON(c, http.StatusOK, teacher, nil)
}

// ListCourses godoc
// @Summary List courses for moderation
// @Description List courses with their teacher, optionally scoped to one status
// @Tags Admin
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /admin/courses [get]
func (h *AdminHandler) ListCourses(c *gin.Context) {
	status, err := statusFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	courses, err := h.moderation.ListCourses(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// DecideCourse godoc
// @Summary Decide a pending course
// @Description Approve or reject a pending course
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.DecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/courses/{id}/status [patch]
func (h *AdminHandler) DecideCourse(c *gin.Context) {
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	course, err := h.moderation.DecideCourse(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordDecision("course", string(course.Status))
	response.JSON(c, http.StatusOK, course, nil)
}

// ListReviews godoc
// @Summary List reviews for moderation
// @Description List reviews with author and course, optionally scoped to one status
// @Tags Admin
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /admin/reviews [get]
func (h *AdminHandler) ListReviews(c *gin.Context) {
	status, err := statusFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	reviews, err := h.moderation.ListReviews(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviews, nil)
}

// DecideReview godoc
// @Summary Decide a pending review
// @Description Approve or reject a pending review
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param payload body dto.DecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/reviews/{id}/status [patch]
func (h *AdminHandler) DecideReview(c *gin.Context) {
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	review, err := h.moderation.DecideReview(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordDecision("review", string(review.Status))
	response.JSON(c, http.StatusOK, review, nil)
}

// ListStudents godoc
// @Summary List student accounts
// @Description List students filtered by search, paginated
// @Tags Admin
// @Produce json
// @Param search query string false "Match against name or email"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/students [get]
func (h *AdminHandler) ListStudents(c *gin.Context) {
	filter, err := userFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	students, total, err := h.moderation.ListStudents(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, students, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	})
}

// GetStudent godoc
// @Summary Student detail
// @Description Admin drill-down on one student with enrollments and reviews
// @Tags Admin
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/students/{id}/details [get]
func (h *AdminHandler) GetStudent(c *gin.Context) {
	detail, err := h.moderation.GetStudentDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// ExportCatalog godoc
// @Summary Export the course catalog
// @Description Download the full catalog with aggregates as CSV or PDF
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} byte
// @Failure 400 {object} response.Envelope
// @Router /admin/courses/export [get]
func (h *AdminHandler) ExportCatalog(c *gin.Context) {
	if !h.exports {
		response.Error(c, appErrors.Clone(appErrors.ErrUnavailable, "exports are disabled"))
		return
	}

	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.stats.ExportCatalog(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("course-catalog-%s.%s", time.Now().UTC().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

func userFilterFromQuery(c *gin.Context) (models.UserFilter, error) {
	filter := models.UserFilter{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ApprovalStatus(raw)
		if !status.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
		}
		filter.Status = &status
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "page must be a number")
		}
		filter.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "page_size must be a number")
		}
		filter.PageSize = size
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	return filter, nil
}

func statusFromQuery(c *gin.Context) (*models.ApprovalStatus, error) {
	raw := c.Query("status")
	if raw == "" {
		return nil, nil
	}
	status := models.ApprovalStatus(raw)
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
	}
	return &status, nil
}
