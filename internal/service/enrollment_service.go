package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/learnhub/lms-api/internal/dto"
	"github.com/learnhub/lms-api/internal/models"
	"github.com/learnhub/lms-api/internal/repository"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
)

type enrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error)
	UpdateProgress(ctx context.Context, enrollment *models.Enrollment) error
	ListByStudentWithCourse(ctx context.Context, studentID string) ([]models.EnrollmentWithCourse, error)
}

type enrollmentCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollmentService provides student enrollment use cases.
type EnrollmentService struct {
	enrollments enrollmentRepository
	courses     enrollmentCourseRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollments enrollmentRepository, courses enrollmentCourseRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{enrollments: enrollments, courses: courses, validator: validate, logger: logger}
}

// Enroll joins the acting student to an approved course. Courses still
// in moderation read as absent. The storage layer's unique index makes
// the insert the arbiter under concurrency, so a lost race surfaces as
// the same conflict a plain duplicate does.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
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

	enrollment := &models.Enrollment{
		CourseID:  courseID,
		StudentID: studentID,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateEnrollment, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.logger.Info("student enrolled", zap.String("course_id", courseID), zap.String("student_id", studentID))
	return enrollment, nil
}

// ListOwnEnrollments returns the acting student's enrollments with
// course and teacher fields populated.
func (s *EnrollmentService) ListOwnEnrollments(ctx context.Context, studentID string) ([]models.EnrollmentWithCourse, error) {
	enrollments, err := s.enrollments.ListByStudentWithCourse(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// UpdateProgress moves the acting student's progress marker on one of
// their enrollments. Reaching 100 marks the enrollment completed.
func (s *EnrollmentService) UpdateProgress(ctx context.Context, studentID, courseID string, req dto.UpdateProgressRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid progress payload")
	}

	enrollment, err := s.enrollments.FindByCourseAndStudent(ctx, courseID, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	enrollment.SetProgress(req.Progress, time.Now().UTC())
	if err := s.enrollments.UpdateProgress(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update progress")
	}
	return enrollment, nil
}
