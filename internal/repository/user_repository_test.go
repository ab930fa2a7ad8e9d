package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/lms-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func userRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "status", "bio", "avatar_url", "created_at", "updated_at"}).
		AddRow("u1", "Jane", "jane@example.com", "hash", string(models.RoleTeacher), string(models.StatusPending), nil, nil, now, now)
}

func TestUserFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, role, status, bio, avatar_url, created_at, updated_at FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("jane@example.com").
		WillReturnRows(userRows(time.Now()))

	user, err := repo.FindByEmail(context.Background(), "Jane@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.StatusPending, user.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.User{Name: "Jane", Email: "jane@example.com", PasswordHash: "hash", Role: models.RoleStudent, Status: models.StatusApproved})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateStatusMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.StatusApproved)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, role, status, bio, avatar_url, created_at, updated_at FROM users WHERE 1=1 AND role = $1 AND status = $2 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs(string(models.RoleTeacher), string(models.StatusPending)).
		WillReturnRows(userRows(time.Now()))

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE 1=1 AND role = $1 AND status = $2")).
		WithArgs(string(models.RoleTeacher), string(models.StatusPending)).
		WillReturnRows(countRows)

	role := models.RoleTeacher
	status := models.StatusPending
	users, total, err := repo.List(context.Background(), models.UserFilter{Role: &role, Status: &status})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByRoleAndStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE role = $1 AND status = $2")).
		WithArgs(string(models.RoleTeacher), string(models.StatusPending)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByRoleAndStatus(context.Background(), models.RoleTeacher, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
