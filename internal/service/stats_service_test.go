package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/learnhub/lms-api/internal/models"
)

type statsUserStub struct {
	byRole       map[models.UserRole]int
	byRoleStatus map[string]int
}

func roleStatusKey(role models.UserRole, status models.ApprovalStatus) string {
	return string(role) + "/" + string(status)
}

func (m *statsUserStub) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	return m.byRole[role], nil
}

func (m *statsUserStub) CountByRoleAndStatus(ctx context.Context, role models.UserRole, status models.ApprovalStatus) (int, error) {
	return m.byRoleStatus[roleStatusKey(role, status)], nil
}

type statsCourseStub struct {
	courses []models.Course
}

func (m *statsCourseStub) Count(ctx context.Context, filter models.CourseFilter) (int, error) {
	count := 0
	for _, c := range m.courses {
		if filter.TeacherID != "" && c.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		count++
	}
	return count, nil
}

func (m *statsCourseStub) ListSummariesByTeacher(ctx context.Context, teacherID string, limit int) ([]models.CourseSummary, error) {
	var out []models.CourseSummary
	for _, c := range m.courses {
		if c.TeacherID == teacherID {
			out = append(out, models.CourseSummary{Course: c})
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *statsCourseStub) ListWithTeacher(ctx context.Context, status *models.ApprovalStatus) ([]models.CourseWithTeacher, error) {
	var out []models.CourseWithTeacher
	for _, c := range m.courses {
		if status != nil && c.Status != *status {
			continue
		}
		out = append(out, models.CourseWithTeacher{Course: c, TeacherName: "Jane"})
	}
	return out, nil
}

type statsReviewStub struct {
	pending int
	average float64
}

func (m *statsReviewStub) CountByStatus(ctx context.Context, status models.ApprovalStatus) (int, error) {
	if status == models.StatusPending {
		return m.pending, nil
	}
	return 0, nil
}

func (m *statsReviewStub) AverageRatingForTeacher(ctx context.Context, teacherID string) (float64, error) {
	return m.average, nil
}

func (m *statsReviewStub) AverageRatingForCourse(ctx context.Context, courseID string) (float64, error) {
	return m.average, nil
}

func (m *statsReviewStub) CountByCourse(ctx context.Context, courseID string, status *models.ApprovalStatus) (int, error) {
	return 0, nil
}

type statsEnrollmentStub struct {
	byTeacher int
	byCourse  int
}

func (m *statsEnrollmentStub) CountByTeacher(ctx context.Context, teacherID string) (int, error) {
	return m.byTeacher, nil
}

func (m *statsEnrollmentStub) CountByCourse(ctx context.Context, courseID string) (int, error) {
	return m.byCourse, nil
}

func newStatsService(users *statsUserStub, courses *statsCourseStub, reviews *statsReviewStub, enrollments *statsEnrollmentStub) *StatsService {
	if users == nil {
		users = &statsUserStub{}
	}
	if courses == nil {
		courses = &statsCourseStub{}
	}
	if reviews == nil {
		reviews = &statsReviewStub{}
	}
	if enrollments == nil {
		enrollments = &statsEnrollmentStub{}
	}
	cache := NewCacheService(nil, nil, 0, zap.NewNop(), false)
	return NewStatsService(users, courses, reviews, enrollments, cache, zap.NewNop())
}

func TestAdminDashboardCounts(t *testing.T) {
	users := &statsUserStub{
		byRole: map[models.UserRole]int{models.RoleStudent: 12, models.RoleTeacher: 4},
		byRoleStatus: map[string]int{
			roleStatusKey(models.RoleTeacher, models.StatusPending): 2,
		},
	}
	courses := &statsCourseStub{courses: []models.Course{
		{ID: "c1", Status: models.StatusPending},
		{ID: "c2", Status: models.StatusApproved},
	}}
	reviews := &statsReviewStub{pending: 3}
	svc := newStatsService(users, courses, reviews, nil)

	stats, err := svc.AdminDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalStudents)
	assert.Equal(t, 4, stats.TotalTeachers)
	assert.Equal(t, 2, stats.TotalCourses)
	assert.Equal(t, 2, stats.PendingTeachers)
	assert.Equal(t, 1, stats.PendingCourses)
	assert.Equal(t, 3, stats.PendingReviews)
}

func TestTeacherDashboard(t *testing.T) {
	courses := &statsCourseStub{courses: []models.Course{
		{ID: "c1", TeacherID: "t1", Status: models.StatusApproved},
		{ID: "c2", TeacherID: "t1", Status: models.StatusPending},
		{ID: "c3", TeacherID: "other", Status: models.StatusApproved},
	}}
	reviews := &statsReviewStub{average: 4.8}
	enrollments := &statsEnrollmentStub{byTeacher: 20}
	svc := newStatsService(nil, courses, reviews, enrollments)

	dashboard, err := svc.TeacherDashboard(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.Stats.TotalCourses)
	assert.Equal(t, 1, dashboard.Stats.PendingCourses)
	assert.Equal(t, 1, dashboard.Stats.ApprovedCourses)
	assert.Equal(t, 20, dashboard.Stats.TotalStudents)
	assert.InDelta(t, 4.8, dashboard.Stats.AverageRating, 0.001)
	assert.Len(t, dashboard.RecentCourses, 2)
}

func TestExportCatalogCSV(t *testing.T) {
	courses := &statsCourseStub{courses: []models.Course{
		{ID: "c1", Title: "Algebra", Status: models.StatusApproved},
	}}
	enrollments := &statsEnrollmentStub{byCourse: 5}
	svc := newStatsService(nil, courses, &statsReviewStub{average: 4.0}, enrollments)

	payload, contentType, err := svc.ExportCatalog(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "Title,Teacher,Status,Enrollments,Reviews,Average Rating,Created"))
	assert.Contains(t, body, "Algebra,Jane,approved,5,0,4.00")
}

func TestExportCatalogPDF(t *testing.T) {
	courses := &statsCourseStub{courses: []models.Course{
		{ID: "c1", Title: "Algebra", Status: models.StatusApproved},
	}}
	svc := newStatsService(nil, courses, nil, nil)

	payload, contentType, err := svc.ExportCatalog(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportCatalogUnknownFormat(t *testing.T) {
	svc := newStatsService(nil, nil, nil, nil)

	_, _, err := svc.ExportCatalog(context.Background(), "xlsx")
	require.Error(t, err)
}
