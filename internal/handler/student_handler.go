package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-api/internal/dto"
	"github.com/learnhub/lms-api/internal/service"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
	"github.com/learnhub/lms-api/pkg/response"
)

// StudentHandler wires the student-facing catalog, enrollment and
// review endpoints.
type StudentHandler struct {
	courses     *service.CourseService
	enrollments *service.EnrollmentService
	reviews     *service.ReviewService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(courses *service.CourseService, enrollments *service.EnrollmentService, reviews *service.ReviewService) *StudentHandler {
	return &StudentHandler{courses: courses, enrollments: enrollments, reviews: reviews}
}

// BrowseCourses godoc
// @Summary Browse the catalog
// @Description Approved courses with teacher and aggregates
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/courses [get]
func (h *StudentHandler) BrowseCourses(c *gin.Context) {
	catalog, err := h.courses.BrowseCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, catalog, nil)
}

// GetCourse godoc
// @Summary Catalog course detail
// @Description One approved course, personalised with the caller's enrollment and review state
// @Tags Student
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/courses/{id} [get]
func (h *StudentHandler) GetCourse(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	detail, err := h.courses.GetCatalogCourse(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Join an approved course; enrolling twice is a conflict
// @Tags Student
// @Produce json
// @Param id path string true "Course ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/courses/{id}/enroll [post]
func (h *StudentHandler) Enroll(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	enrollment, err := h.enrollments.Enroll(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// ListEnrollments godoc
// @Summary List own enrollments
// @Description The acting student's enrollments with course and teacher fields
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/enrollments [get]
func (h *StudentHandler) ListEnrollments(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	enrollments, err := h.enrollments.ListOwnEnrollments(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// UpdateProgress godoc
// @Summary Update course progress
// @Description Move the progress marker on an owned enrollment; 100 marks it completed
// @Tags Student
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.UpdateProgressRequest true "Progress payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/courses/{id}/progress [patch]
func (h *StudentHandler) UpdateProgress(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid progress payload"))
		return
	}

	enrollment, err := h.enrollments.UpdateProgress(c.Request.Context(), principal.ID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// SubmitReview godoc
// @Summary Review a course
// @Description Submit a review on an enrolled course; it enters moderation as pending
// @Tags Student
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body dto.CreateReviewRequest true "Review payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/courses/{id}/reviews [post]
func (h *StudentHandler) SubmitReview(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}

	review, err := h.reviews.SubmitReview(c.Request.Context(), principal.ID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, review)
}

// ListReviews godoc
// @Summary List own reviews
// @Description Everything the acting student has written, in every moderation state
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/reviews [get]
func (h *StudentHandler) ListReviews(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	reviews, err := h.reviews.ListOwnReviews(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reviews, nil)
}
