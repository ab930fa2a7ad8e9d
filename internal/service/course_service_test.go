package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/learnhub/lms-api/internal/dto"
	"github.com/learnhub/lms-api/internal/models"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
)

type courseRepoStub struct {
	courses map[string]*models.Course
}

func (m *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	if m.courses == nil {
		m.courses = make(map[string]*models.Course)
	}
	if course.ID == "" {
		course.ID = "generated"
	}
	copy := *course
	m.courses[course.ID] = &copy
	return nil
}

func (m *courseRepoStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *courseRepoStub) Update(ctx context.Context, course *models.Course) error {
	copy := *course
	m.courses[course.ID] = &copy
	return nil
}

func (m *courseRepoStub) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	return nil, nil
}

func (m *courseRepoStub) ListWithTeacher(ctx context.Context, status *models.ApprovalStatus) ([]models.CourseWithTeacher, error) {
	var out []models.CourseWithTeacher
	for _, c := range m.courses {
		if status != nil && c.Status != *status {
			continue
		}
		out = append(out, models.CourseWithTeacher{Course: *c})
	}
	return out, nil
}

func (m *courseRepoStub) FindWithTeacher(ctx context.Context, id string, status *models.ApprovalStatus) (*models.CourseWithTeacher, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if status != nil && c.Status != *status {
		return nil, sql.ErrNoRows
	}
	return &models.CourseWithTeacher{Course: *c}, nil
}

func (m *courseRepoStub) ListSummariesByTeacher(ctx context.Context, teacherID string, limit int) ([]models.CourseSummary, error) {
	var out []models.CourseSummary
	for _, c := range m.courses {
		if c.TeacherID == teacherID {
			out = append(out, models.CourseSummary{Course: *c})
		}
	}
	return out, nil
}

type courseEnrollmentStub struct {
	enrollments map[string]*models.Enrollment
}

func enrollKey(courseID, studentID string) string { return courseID + "/" + studentID }

func (m *courseEnrollmentStub) FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[enrollKey(courseID, studentID)]; ok {
		copy := *e
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *courseEnrollmentStub) ListByCourseWithStudent(ctx context.Context, courseID string) ([]models.EnrollmentWithStudent, error) {
	var out []models.EnrollmentWithStudent
	for _, e := range m.enrollments {
		if e.CourseID == courseID {
			out = append(out, models.EnrollmentWithStudent{Enrollment: *e})
		}
	}
	return out, nil
}

func (m *courseEnrollmentStub) CountByCourse(ctx context.Context, courseID string) (int, error) {
	count := 0
	for _, e := range m.enrollments {
		if e.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

type courseReviewStub struct {
	reviews map[string]*models.Review
	average float64
}

func (m *courseReviewStub) FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Review, error) {
	if r, ok := m.reviews[enrollKey(courseID, studentID)]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *courseReviewStub) ListWithRefs(ctx context.Context, filter models.ReviewFilter) ([]models.ReviewWithRefs, error) {
	var out []models.ReviewWithRefs
	for _, r := range m.reviews {
		if filter.CourseID != "" && r.CourseID != filter.CourseID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, models.ReviewWithRefs{Review: *r})
	}
	return out, nil
}

func (m *courseReviewStub) AverageRatingForCourse(ctx context.Context, courseID string) (float64, error) {
	return m.average, nil
}

func (m *courseReviewStub) CountByCourse(ctx context.Context, courseID string, status *models.ApprovalStatus) (int, error) {
	count := 0
	for _, r := range m.reviews {
		if r.CourseID != courseID {
			continue
		}
		if status != nil && r.Status != *status {
			continue
		}
		count++
	}
	return count, nil
}

func newCourseService(courses *courseRepoStub, enrollments *courseEnrollmentStub, reviews *courseReviewStub) *CourseService {
	if courses == nil {
		courses = &courseRepoStub{}
	}
	if enrollments == nil {
		enrollments = &courseEnrollmentStub{}
	}
	if reviews == nil {
		reviews = &courseReviewStub{}
	}
	return NewCourseService(courses, enrollments, reviews, validator.New(), zap.NewNop())
}

func TestCreateCourseStartsPending(t *testing.T) {
	repo := &courseRepoStub{}
	svc := newCourseService(repo, nil, nil)

	course, err := svc.CreateCourse(context.Background(), "t1", dto.CreateCourseRequest{Title: "Algebra", Description: "Linear equations"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, course.Status)
	assert.Equal(t, "t1", course.TeacherID)
}

func TestUpdateApprovedCourseReturnsToPending(t *testing.T) {
	repo := &courseRepoStub{courses: map[string]*models.Course{
		"c1": {ID: "c1", Title: "Algebra", TeacherID: "t1", Status: models.StatusApproved},
	}}
	svc := newCourseService(repo, nil, nil)

	title := "Algebra II"
	course, err := svc.UpdateCourse(context.Background(), "t1", "c1", dto.UpdateCourseRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, course.Status)
	assert.Equal(t, "Algebra II", course.Title)
}

func TestUpdateRejectedCourseKeepsStatus(t *testing.T) {
	repo := &courseRepoStub{courses: map[string]*models.Course{
		"c1": {ID: "c1", Title: "Algebra", TeacherID: "t1", Status: models.StatusRejected},
	}}
	svc := newCourseService(repo, nil, nil)

	title := "Algebra II"
	course, err := svc.UpdateCourse(context.Background(), "t1", "c1", dto.UpdateCourseRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, course.Status)
}

func TestUpdateCourseNotOwnerReadsAbsent(t *testing.T) {
	repo := &courseRepoStub{courses: map[string]*models.Course{
		"c1": {ID: "c1", Title: "Algebra", TeacherID: "t1", Status: models.StatusApproved},
	}}
	svc := newCourseService(repo, nil, nil)

	title := "Hijack"
	_, err := svc.UpdateCourse(context.Background(), "t2", "c1", dto.UpdateCourseRequest{Title: &title})
	assertCode(t, err, appErrors.ErrNotFound.Code)
	assert.Equal(t, "Algebra", repo.courses["c1"].Title)
}

func TestGetCatalogCourseHidesUnapproved(t *testing.T) {
	repo := &courseRepoStub{courses: map[string]*models.Course{
		"c1": {ID: "c1", TeacherID: "t1", Status: models.StatusPending},
	}}
	svc := newCourseService(repo, nil, nil)

	_, err := svc.GetCatalogCourse(context.Background(), "s1", "c1")
	assertCode(t, err, appErrors.ErrNotFound.Code)
}

func TestGetCatalogCoursePersonalisation(t *testing.T) {
	repo := &courseRepoStub{courses: map[string]*models.Course{
		"c1": {ID: "c1", TeacherID: "t1", Status: models.StatusApproved},
	}}
	enrollments := &courseEnrollmentStub{enrollments: map[string]*models.Enrollment{
		enrollKey("c1", "s1"): {ID: "e1", CourseID: "c1", StudentID: "s1"},
	}}
	reviews := &courseReviewStub{average: 3.5}
	svc := newCourseService(repo, enrollments, reviews)

	detail, err := svc.GetCatalogCourse(context.Background(), "s1", "c1")
	require.NoError(t, err)
	assert.True(t, detail.IsEnrolled)
	assert.False(t, detail.HasReviewed)
	assert.Equal(t, 1, detail.Stats.TotalEnrollments)
	assert.InDelta(t, 3.5, detail.Stats.AverageRating, 0.001)
}

func TestCourseStatsZeroForEmptySets(t *testing.T) {
	repo := &courseRepoStub{courses: map[string]*models.Course{
		"c1": {ID: "c1", TeacherID: "t1", Status: models.StatusApproved},
	}}
	svc := newCourseService(repo, nil, nil)

	detail, err := svc.GetCatalogCourse(context.Background(), "s1", "c1")
	require.NoError(t, err)
	assert.Zero(t, detail.Stats.TotalEnrollments)
	assert.Zero(t, detail.Stats.TotalReviews)
	assert.Zero(t, detail.Stats.AverageRating)
}
