package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/learnhub/lms-api/internal/dto"
	"github.com/learnhub/lms-api/internal/models"
	"github.com/learnhub/lms-api/pkg/export"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:admin"

type statsUserRepository interface {
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
	CountByRoleAndStatus(ctx context.Context, role models.UserRole, status models.ApprovalStatus) (int, error)
}

type statsCourseRepository interface {
	Count(ctx context.Context, filter models.CourseFilter) (int, error)
	ListSummariesByTeacher(ctx context.Context, teacherID string, limit int) ([]models.CourseSummary, error)
	ListWithTeacher(ctx context.Context, status *models.ApprovalStatus) ([]models.CourseWithTeacher, error)
}

type statsReviewRepository interface {
	CountByStatus(ctx context.Context, status models.ApprovalStatus) (int, error)
	AverageRatingForTeacher(ctx context.Context, teacherID string) (float64, error)
	AverageRatingForCourse(ctx context.Context, courseID string) (float64, error)
	CountByCourse(ctx context.Context, courseID string, status *models.ApprovalStatus) (int, error)
}

type statsEnrollmentRepository interface {
	CountByTeacher(ctx context.Context, teacherID string) (int, error)
	CountByCourse(ctx context.Context, courseID string) (int, error)
}

// StatsService computes the dashboard aggregates and the catalog
// export. Everything is derived per request; the optional cache only
// shortens the admin dashboard path.
type StatsService struct {
	users       statsUserRepository
	courses     statsCourseRepository
	reviews     statsReviewRepository
	enrollments statsEnrollmentRepository
	cache       *CacheService
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewStatsService constructs a StatsService instance.
func NewStatsService(users statsUserRepository, courses statsCourseRepository, reviews statsReviewRepository, enrollments statsEnrollmentRepository, cache *CacheService, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		users:       users,
		courses:     courses,
		reviews:     reviews,
		enrollments: enrollments,
		cache:       cache,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// AdminDashboard returns the admin landing-page cardinalities,
// including the three pending moderation queues.
func (s *StatsService) AdminDashboard(ctx context.Context) (*dto.AdminDashboardStats, error) {
	var cached dto.AdminDashboardStats
	if hit, _ := s.cache.Get(ctx, dashboardCacheKey, &cached); hit {
		return &cached, nil
	}

	stats := &dto.AdminDashboardStats{}
	var err error

	if stats.TotalStudents, err = s.users.CountByRole(ctx, models.RoleStudent); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	if stats.TotalTeachers, err = s.users.CountByRole(ctx, models.RoleTeacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teachers")
	}
	if stats.TotalCourses, err = s.courses.Count(ctx, models.CourseFilter{}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
	}
	if stats.PendingTeachers, err = s.users.CountByRoleAndStatus(ctx, models.RoleTeacher, models.StatusPending); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending teachers")
	}
	pending := models.StatusPending
	if stats.PendingCourses, err = s.courses.Count(ctx, models.CourseFilter{Status: &pending}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending courses")
	}
	if stats.PendingReviews, err = s.reviews.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending reviews")
	}

	if err := s.cache.Set(ctx, dashboardCacheKey, stats, 0); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}

	return stats, nil
}

// InvalidateDashboard drops the cached admin dashboard after a
// moderation decision so the pending counts stay honest.
func (s *StatsService) InvalidateDashboard(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("dashboard cache invalidate failed", zap.Error(err))
	}
}

// TeacherDashboard returns the acting teacher's rolled-up numbers and
// their most recent courses.
func (s *StatsService) TeacherDashboard(ctx context.Context, teacherID string) (*dto.TeacherDashboardResponse, error) {
	totalCourses, err := s.courses.Count(ctx, models.CourseFilter{TeacherID: teacherID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
	}

	pending := models.StatusPending
	pendingCourses, err := s.courses.Count(ctx, models.CourseFilter{TeacherID: teacherID, Status: &pending})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending courses")
	}

	approved := models.StatusApproved
	approvedCourses, err := s.courses.Count(ctx, models.CourseFilter{TeacherID: teacherID, Status: &approved})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count approved courses")
	}

	totalStudents, err := s.enrollments.CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}

	avgRating, err := s.reviews.AverageRatingForTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to average ratings")
	}

	recent, err := s.courses.ListSummariesByTeacher(ctx, teacherID, 5)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent courses")
	}

	return &dto.TeacherDashboardResponse{
		Stats: dto.TeacherStats{
			TotalCourses:    totalCourses,
			PendingCourses:  pendingCourses,
			ApprovedCourses: approvedCourses,
			TotalStudents:   totalStudents,
			AverageRating:   avgRating,
		},
		RecentCourses: recent,
	}, nil
}

// ExportCatalog renders the full course catalog, with teacher names
// and aggregates, as CSV or PDF bytes.
func (s *StatsService) ExportCatalog(ctx context.Context, format string) ([]byte, string, error) {
	courses, err := s.courses.ListWithTeacher(ctx, nil)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list catalog")
	}

	dataset := export.Dataset{
		Headers: []string{"Title", "Teacher", "Status", "Enrollments", "Reviews", "Average Rating", "Created"},
	}
	approved := models.StatusApproved
	for _, course := range courses {
		enrollmentCount, err := s.enrollments.CountByCourse(ctx, course.ID)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
		}
		reviewCount, err := s.reviews.CountByCourse(ctx, course.ID, &approved)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reviews")
		}
		avgRating, err := s.reviews.AverageRatingForCourse(ctx, course.ID)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to average ratings")
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Title":          course.Title,
			"Teacher":        course.TeacherName,
			"Status":         string(course.Status),
			"Enrollments":    strconv.Itoa(enrollmentCount),
			"Reviews":        strconv.Itoa(reviewCount),
			"Average Rating": strconv.FormatFloat(avgRating, 'f', 2, 64),
			"Created":        course.CreatedAt.Format(time.RFC3339),
		})
	}

	switch format {
	case "csv", "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, "Course Catalog")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
