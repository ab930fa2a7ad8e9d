package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/lms-api/internal/models"
)

func TestReviewCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec("INSERT INTO reviews").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Review{CourseID: "c1", StudentID: "s1", Rating: 5, Comment: "great", Status: models.StatusPending})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAverageRatingForCourseEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE course_id = $1 AND status = 'approved'")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	avg, err := repo.AverageRatingForCourse(context.Background(), "c1")
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAverageRatingForTeacher(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(AVG(r.rating), 0) FROM reviews r JOIN courses c ON c.id = r.course_id WHERE c.teacher_id = $1 AND r.status = 'approved'")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4.5))

	avg, err := repo.AverageRatingForTeacher(context.Background(), "t1")
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewUpdateStatusMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectExec("UPDATE reviews SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.StatusApproved)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCountByStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reviews WHERE status = $1")).
		WithArgs(string(models.StatusPending)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountByStatus(context.Background(), models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
