package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/learnhub/lms-api/internal/dto"
	"github.com/learnhub/lms-api/internal/models"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
)

type moderationUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
}

type moderationCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error
	ListWithTeacher(ctx context.Context, status *models.ApprovalStatus) ([]models.CourseWithTeacher, error)
	ListSummariesByTeacher(ctx context.Context, teacherID string, limit int) ([]models.CourseSummary, error)
}

type moderationReviewRepository interface {
	FindByID(ctx context.Context, id string) (*models.Review, error)
	UpdateStatus(ctx context.Context, id string, status models.ApprovalStatus) error
	ListWithRefs(ctx context.Context, filter models.ReviewFilter) ([]models.ReviewWithRefs, error)
	ListByTeacherCourses(ctx context.Context, teacherID string, status *models.ApprovalStatus) ([]models.ReviewWithRefs, error)
	AverageRatingForTeacher(ctx context.Context, teacherID string) (float64, error)
	CountByStudent(ctx context.Context, studentID string) (int, error)
}

type moderationEnrollmentRepository interface {
	ListByStudentWithCourse(ctx context.Context, studentID string) ([]models.EnrollmentWithCourse, error)
	CountByTeacher(ctx context.Context, teacherID string) (int, error)
	CountByStudent(ctx context.Context, studentID string) (int, error)
}

type dashboardInvalidator interface {
	InvalidateDashboard(ctx context.Context)
}

// ModerationService owns the admin side of the approval workflow:
// queues, one-shot decisions and the drill-down detail views.
type ModerationService struct {
	users       moderationUserRepository
	courses     moderationCourseRepository
	reviews     moderationReviewRepository
	enrollments moderationEnrollmentRepository
	cache       dashboardInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewModerationService constructs a ModerationService instance. The
// cache invalidator may be nil when dashboard caching is disabled.
func NewModerationService(users moderationUserRepository, courses moderationCourseRepository, reviews moderationReviewRepository, enrollments moderationEnrollmentRepository, cache dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *ModerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ModerationService{users: users, courses: courses, reviews: reviews, enrollments: enrollments, cache: cache, validator: validate, logger: logger}
}

// ListTeachers returns teacher accounts matching the filter with a
// total count for pagination.
func (s *ModerationService) ListTeachers(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	role := models.RoleTeacher
	filter.Role = &role
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return users, total, nil
}

// ListStudents returns student accounts matching the filter with a
// total count for pagination.
func (s *ModerationService) ListStudents(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	role := models.RoleStudent
	filter.Role = &role
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return users, total, nil
}

// DecideTeacher applies a one-shot moderation decision to a teacher
// account. Only pending teachers are open for decision; re-deciding is
// a conflict. A non-teacher id reads as absent.
func (s *ModerationService) DecideTeacher(ctx context.Context, teacherID string, req dto.DecisionRequest) (*models.User, error) {
	decision, err := models.ParseDecision(req.Status)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if user.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	if !models.CanDecide(user.Status) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "teacher has already been decided")
	}

	if err := s.users.UpdateStatus(ctx, teacherID, decision); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher status")
	}
	user.Status = decision

	s.logger.Info("teacher decided", zap.String("teacher_id", teacherID), zap.String("status", string(decision)))
	s.invalidate(ctx)
	return user, nil
}

// ListCourses returns courses with their teacher for the moderation
// queue, optionally scoped to one status.
func (s *ModerationService) ListCourses(ctx context.Context, status *models.ApprovalStatus) ([]models.CourseWithTeacher, error) {
	courses, err := s.courses.ListWithTeacher(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// DecideCourse applies a one-shot moderation decision to a course. A
// decided course only re-enters the queue via the owner's resubmission
// edge, never via another decision.
func (s *ModerationService) DecideCourse(ctx context.Context, courseID string, req dto.DecisionRequest) (*models.Course, error) {
	decision, err := models.ParseDecision(req.Status)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if !models.CanDecide(course.Status) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course has already been decided")
	}

	if err := s.courses.UpdateStatus(ctx, courseID, decision); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course status")
	}
	course.Status = decision

	s.logger.Info("course decided", zap.String("course_id", courseID), zap.String("status", string(decision)))
	s.invalidate(ctx)
	return course, nil
}

// ListReviews returns reviews with author and course fields for the
// moderation queue, optionally scoped to one status.
func (s *ModerationService) ListReviews(ctx context.Context, status *models.ApprovalStatus) ([]models.ReviewWithRefs, error) {
	reviews, err := s.reviews.ListWithRefs(ctx, models.ReviewFilter{Status: status})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	return reviews, nil
}

// DecideReview applies a one-shot moderation decision to a review.
func (s *ModerationService) DecideReview(ctx context.Context, reviewID string, req dto.DecisionRequest) (*models.Review, error) {
	decision, err := models.ParseDecision(req.Status)
	if err != nil {
		return nil, err
	}

	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "review not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load review")
	}
	if !models.CanDecide(review.Status) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "review has already been decided")
	}

	if err := s.reviews.UpdateStatus(ctx, reviewID, decision); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update review status")
	}
	review.Status = decision

	s.logger.Info("review decided", zap.String("review_id", reviewID), zap.String("status", string(decision)))
	s.invalidate(ctx)
	return review, nil
}

// GetTeacherDetail returns the admin drill-down on one teacher: the
// account, their catalog with aggregates, the reviews their courses
// received and the rolled-up numbers.
func (s *ModerationService) GetTeacherDetail(ctx context.Context, teacherID string) (*dto.AdminTeacherDetail, error) {
	user, err := s.users.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if user.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	courses, err := s.courses.ListSummariesByTeacher(ctx, teacherID, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher courses")
	}

	reviews, err := s.reviews.ListByTeacherCourses(ctx, teacherID, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher reviews")
	}

	totalStudents, err := s.enrollments.CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}

	avgRating, err := s.reviews.AverageRatingForTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to average ratings")
	}

	return &dto.AdminTeacherDetail{
		Teacher: *user,
		Courses: courses,
		Reviews: reviews,
		Stats: dto.TeacherDetailStats{
			TotalCourses:  len(courses),
			TotalStudents: totalStudents,
			AverageRating: avgRating,
		},
	}, nil
}

// GetStudentDetail returns the admin drill-down on one student: the
// account, their enrollments, their reviews and the counts.
func (s *ModerationService) GetStudentDetail(ctx context.Context, studentID string) (*dto.AdminStudentDetail, error) {
	user, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if user.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	enrollments, err := s.enrollments.ListByStudentWithCourse(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	reviews, err := s.reviews.ListWithRefs(ctx, models.ReviewFilter{StudentID: studentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}

	totalEnrollments, err := s.enrollments.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}

	totalReviews, err := s.reviews.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reviews")
	}

	return &dto.AdminStudentDetail{
		Student:     *user,
		Enrollments: enrollments,
		Reviews:     reviews,
		Stats: dto.StudentDetailStats{
			TotalEnrollments: totalEnrollments,
			TotalReviews:     totalReviews,
		},
	}, nil
}

func (s *ModerationService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateDashboard(ctx)
	}
}
