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

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	ListWithTeacher(ctx context.Context, status *models.ApprovalStatus) ([]models.CourseWithTeacher, error)
	FindWithTeacher(ctx context.Context, id string, status *models.ApprovalStatus) (*models.CourseWithTeacher, error)
	ListSummariesByTeacher(ctx context.Context, teacherID string, limit int) ([]models.CourseSummary, error)
}

type courseEnrollmentRepository interface {
	FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error)
	ListByCourseWithStudent(ctx context.Context, courseID string) ([]models.EnrollmentWithStudent, error)
	CountByCourse(ctx context.Context, courseID string) (int, error)
}

type courseReviewRepository interface {
	FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Review, error)
	ListWithRefs(ctx context.Context, filter models.ReviewFilter) ([]models.ReviewWithRefs, error)
	AverageRatingForCourse(ctx context.Context, courseID string) (float64, error)
	CountByCourse(ctx context.Context, courseID string, status *models.ApprovalStatus) (int, error)
}

// CourseService provides course use cases for teachers and students.
type CourseService struct {
	courses     courseRepository
	enrollments courseEnrollmentRepository
	reviews     courseReviewRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courses courseRepository, enrollments courseEnrollmentRepository, reviews courseReviewRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{courses: courses, enrollments: enrollments, reviews: reviews, validator: validate, logger: logger}
}

// CreateCourse registers a new course for the acting teacher. Courses
// always start pending regardless of the owner's standing.
func (s *CourseService) CreateCourse(ctx context.Context, teacherID string, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		TeacherID:   teacherID,
		Status:      models.StatusPending,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("teacher_id", teacherID))
	return course, nil
}

// ListOwnCourses returns the acting teacher's courses with enrollment
// counts and rating averages.
func (s *CourseService) ListOwnCourses(ctx context.Context, teacherID string) ([]models.CourseSummary, error) {
	summaries, err := s.courses.ListSummariesByTeacher(ctx, teacherID, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return summaries, nil
}

// GetOwnCourse returns the owner's detail view of one course: the
// record, its roster, its approved reviews and the aggregates. The
// lookup is scoped to the owner, so someone else's course id reads as
// absent rather than forbidden.
func (s *CourseService) GetOwnCourse(ctx context.Context, teacherID, courseID string) (*dto.TeacherCourseDetail, error) {
	course, err := s.findOwnedCourse(ctx, teacherID, courseID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.ListByCourseWithStudent(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	approved := models.StatusApproved
	reviews, err := s.reviews.ListWithRefs(ctx, models.ReviewFilter{CourseID: courseID, Status: &approved})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}

	stats, err := s.courseStats(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return &dto.TeacherCourseDetail{
		Course:      *course,
		Enrollments: enrollments,
		Reviews:     reviews,
		Stats:       stats,
	}, nil
}

// UpdateCourse applies the owner's content edits. Editing an approved
// course sends it back to pending for fresh moderation; pending and
// rejected courses keep their status.
func (s *CourseService) UpdateCourse(ctx context.Context, teacherID, courseID string, req dto.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.findOwnedCourse(ctx, teacherID, courseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	course.Status = models.Resubmit(course.Status)

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	return course, nil
}

// BrowseCourses returns the public catalog: approved courses joined
// with their teacher, enriched with aggregates.
func (s *CourseService) BrowseCourses(ctx context.Context) ([]dto.CatalogCourse, error) {
	approved := models.StatusApproved
	courses, err := s.courses.ListWithTeacher(ctx, &approved)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list catalog")
	}

	catalog := make([]dto.CatalogCourse, 0, len(courses))
	for _, course := range courses {
		stats, err := s.courseStats(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		catalog = append(catalog, dto.CatalogCourse{CourseWithTeacher: course, Stats: stats})
	}
	return catalog, nil
}

// GetCatalogCourse returns a student's view of one approved course,
// personalised with the caller's enrollment and review state. An
// unapproved course id reads as absent.
func (s *CourseService) GetCatalogCourse(ctx context.Context, studentID, courseID string) (*dto.StudentCourseDetail, error) {
	approved := models.StatusApproved
	course, err := s.courses.FindWithTeacher(ctx, courseID, &approved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	reviews, err := s.reviews.ListWithRefs(ctx, models.ReviewFilter{CourseID: courseID, Status: &approved})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}

	isEnrolled := false
	if _, err := s.enrollments.FindByCourseAndStudent(ctx, courseID, studentID); err == nil {
		isEnrolled = true
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	hasReviewed := false
	if _, err := s.reviews.FindByCourseAndStudent(ctx, courseID, studentID); err == nil {
		hasReviewed = true
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check review")
	}

	stats, err := s.courseStats(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return &dto.StudentCourseDetail{
		Course:      *course,
		Reviews:     reviews,
		IsEnrolled:  isEnrolled,
		HasReviewed: hasReviewed,
		Stats:       stats,
	}, nil
}

func (s *CourseService) findOwnedCourse(ctx context.Context, teacherID, courseID string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return course, nil
}

func (s *CourseService) courseStats(ctx context.Context, courseID string) (dto.CourseStats, error) {
	enrollmentCount, err := s.enrollments.CountByCourse(ctx, courseID)
	if err != nil {
		return dto.CourseStats{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	approved := models.StatusApproved
	reviewCount, err := s.reviews.CountByCourse(ctx, courseID, &approved)
	if err != nil {
		return dto.CourseStats{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reviews")
	}
	avgRating, err := s.reviews.AverageRatingForCourse(ctx, courseID)
	if err != nil {
		return dto.CourseStats{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to average ratings")
	}
	return dto.CourseStats{
		TotalEnrollments: enrollmentCount,
		TotalReviews:     reviewCount,
		AverageRating:    avgRating,
	}, nil
}
