package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/lms-api/internal/models"
)

func TestEnrollmentCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").WillReturnResult(sqlmock.NewResult(1, 1))

	enrollment := &models.Enrollment{CourseID: "c1", StudentID: "s1"}
	err := repo.Create(context.Background(), enrollment)
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.ID)
	assert.False(t, enrollment.JoinedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Enrollment{CourseID: "c1", StudentID: "s1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentFindByCourseAndStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "course_id", "student_id", "progress", "completed", "joined_at", "last_accessed_at"}).
		AddRow("e1", "c1", "s1", 40, false, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, student_id, progress, completed, joined_at, last_accessed_at FROM enrollments WHERE course_id = $1 AND student_id = $2 LIMIT 1")).
		WithArgs("c1", "s1").
		WillReturnRows(rows)

	enrollment, err := repo.FindByCourseAndStudent(context.Background(), "c1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 40, enrollment.Progress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentCountByTeacher(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments e JOIN courses c ON c.id = e.course_id WHERE c.teacher_id = $1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountByTeacher(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
