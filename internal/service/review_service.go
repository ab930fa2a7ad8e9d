package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/learnhub/lms-api/internal/dto"
	"github.com/learnhub/lms-api/internal/models"
	"github.com/learnhub/lms-api/internal/repository"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
)

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListWithRefs(ctx context.Context, filter models.ReviewFilter) ([]models.ReviewWithRefs, error)
}

type reviewEnrollmentRepository interface {
	FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error)
}

type reviewCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// ReviewService provides student review use cases. Moderation of
// reviews lives in the admin moderation service.
type ReviewService struct {
	reviews     reviewRepository
	enrollments reviewEnrollmentRepository
	courses     reviewCourseRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewReviewService constructs a ReviewService instance.
func NewReviewService(reviews reviewRepository, enrollments reviewEnrollmentRepository, courses reviewCourseRepository, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ReviewService{reviews: reviews, enrollments: enrollments, courses: courses, validator: validate, logger: logger}
}

// SubmitReview records the acting student's feedback on a course they
// are enrolled in. Reviews always enter pending; the client cannot
// choose a status. One review per (course, student) pair, with the
// unique index as the arbiter under concurrency.
func (s *ReviewService) SubmitReview(ctx context.Context, studentID, courseID string, req dto.CreateReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if !course.Status.IsApproved() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	if _, err := s.enrollments.FindByCourseAndStudent(ctx, courseID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "must be enrolled to review this course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	review := &models.Review{
		CourseID:  courseID,
		StudentID: studentID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Status:    models.StatusPending,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateReview, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create review")
	}

	s.logger.Info("review submitted", zap.String("course_id", courseID), zap.String("student_id", studentID))
	return review, nil
}

// ListOwnReviews returns everything the acting student has written,
// in every moderation state, newest first.
func (s *ReviewService) ListOwnReviews(ctx context.Context, studentID string) ([]models.ReviewWithRefs, error) {
	reviews, err := s.reviews.ListWithRefs(ctx, models.ReviewFilter{StudentID: studentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	return reviews, nil
}
