package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/learnhub/lms-api/internal/dto"
	"github.com/learnhub/lms-api/internal/models"
	"github.com/learnhub/lms-api/internal/repository"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
)

type reviewRepoStub struct {
	created []*models.Review
	dup     bool
}

func (m *reviewRepoStub) Create(ctx context.Context, review *models.Review) error {
	if m.dup {
		return repository.ErrDuplicate
	}
	if review.ID == "" {
		review.ID = "generated"
	}
	copy := *review
	m.created = append(m.created, &copy)
	return nil
}

func (m *reviewRepoStub) ListWithRefs(ctx context.Context, filter models.ReviewFilter) ([]models.ReviewWithRefs, error) {
	var out []models.ReviewWithRefs
	for _, r := range m.created {
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		out = append(out, models.ReviewWithRefs{Review: *r})
	}
	return out, nil
}

func newReviewService(reviews *reviewRepoStub, enrollments *courseEnrollmentStub, courses *courseRepoStub) *ReviewService {
	if reviews == nil {
		reviews = &reviewRepoStub{}
	}
	if enrollments == nil {
		enrollments = &courseEnrollmentStub{}
	}
	if courses == nil {
		courses = &courseRepoStub{}
	}
	return NewReviewService(reviews, enrollments, courses, validator.New(), zap.NewNop())
}

func TestSubmitReviewEntersPending(t *testing.T) {
	courses := &courseRepoStub{courses: map[string]*models.Course{
		"c1": {ID: "c1", TeacherID: "t1", Status: models.StatusApproved},
	}}
	enrollments := &courseEnrollmentStub{enrollments: map[string]*models.Enrollment{
		enrollKey("c1", "s1"): {ID: "e1", CourseID: "c1", StudentID: "s1"},
	}}
	reviews := &reviewRepoStub{}
	svc := newReviewService(reviews, enrollments, courses)

	review, err := svc.SubmitReview(context.Background(), "s1", "c1", dto.CreateReviewRequest{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, review.Status)
	require.Len(t, reviews.created, 1)
	assert.Equal(t, models.StatusPending, reviews.created[0].Status)
}

func TestSubmitReviewWithoutEnrollment(t *testing.T) {
	courses := &courseRepoStub{courses: map[string]*models.Course{
		"c1": {ID: "c1", TeacherID: "t1", Status: models.StatusApproved},
	}}
	svc := newReviewService(&reviewRepoStub{}, &courseEnrollmentStub{}, courses)

	_, err := svc.SubmitReview(context.Background(), "s1", "c1", dto.CreateReviewRequest{Rating: 4, Comment: "ok"})
	assertCode(t, err, appErrors.ErrForbidden.Code)
}

func TestSubmitReviewTwiceConflicts(t *testing.T) {
	courses := &courseRepoStub{courses: map[string]*models.Course{
		"c1": {ID: "c1", TeacherID: "t1", Status: models.StatusApproved},
	}}
	enrollments := &courseEnrollmentStub{enrollments: map[string]*models.Enrollment{
		enrollKey("c1", "s1"): {ID: "e1", CourseID: "c1", StudentID: "s1"},
	}}
	svc := newReviewService(&reviewRepoStub{dup: true}, enrollments, courses)

	_, err := svc.SubmitReview(context.Background(), "s1", "c1", dto.CreateReviewRequest{Rating: 4, Comment: "ok"})
	assertCode(t, err, appErrors.ErrDuplicateReview.Code)
}

func TestSubmitReviewValidatesRating(t *testing.T) {
	svc := newReviewService(nil, nil, nil)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.SubmitReview(context.Background(), "s1", "c1", dto.CreateReviewRequest{Rating: rating, Comment: "ok"})
		assertCode(t, err, appErrors.ErrValidation.Code)
	}
}

func TestSubmitReviewUnapprovedCourseReadsAbsent(t *testing.T) {
	courses := &courseRepoStub{courses: map[string]*models.Course{
		"c1": {ID: "c1", TeacherID: "t1", Status: models.StatusRejected},
	}}
	svc := newReviewService(&reviewRepoStub{}, nil, courses)

	_, err := svc.SubmitReview(context.Background(), "s1", "c1", dto.CreateReviewRequest{Rating: 4, Comment: "ok"})
	assertCode(t, err, appErrors.ErrNotFound.Code)
}

func TestListOwnReviewsIncludesAllStates(t *testing.T) {
	reviews := &reviewRepoStub{created: []*models.Review{
		{ID: "r1", CourseID: "c1", StudentID: "s1", Rating: 5, Status: models.StatusApproved},
		{ID: "r2", CourseID: "c2", StudentID: "s1", Rating: 2, Status: models.StatusRejected},
		{ID: "r3", CourseID: "c3", StudentID: "other", Rating: 3, Status: models.StatusPending},
	}}
	svc := newReviewService(reviews, nil, nil)

	mine, err := svc.ListOwnReviews(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
