package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub/lms-api/internal/models"
	"github.com/learnhub/lms-api/internal/repository"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected typed error, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

type authRepoStub struct {
	users     map[string]*models.User
	createErr error
}

func (m *authRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *authRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *authRepoStub) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	if user.ID == "" {
		user.ID = "generated"
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func newAuthService(repo *authRepoStub) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "lms-api-test",
	})
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegisterTeacherStartsPending(t *testing.T) {
	repo := &authRepoStub{}
	svc := newAuthService(repo)

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "secret1", Role: models.RoleTeacher,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, info.Status)
}

func TestRegisterStudentAndAdminStartApproved(t *testing.T) {
	for _, role := range []models.UserRole{models.RoleStudent, models.RoleAdmin} {
		repo := &authRepoStub{}
		svc := newAuthService(repo)

		info, err := svc.Register(context.Background(), models.RegisterRequest{
			Name: "Sam", Email: "sam@example.com", Password: "secret1", Role: role,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, info.Status, string(role))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &authRepoStub{createErr: repository.ErrDuplicate}
	svc := newAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "secret1", Role: models.RoleStudent,
	})
	assertCode(t, err, appErrors.ErrEmailTaken.Code)
}

func TestLoginPendingTeacherBlocked(t *testing.T) {
	repo := &authRepoStub{users: map[string]*models.User{
		"t1": {ID: "t1", Email: "jane@example.com", PasswordHash: hashOf(t, "secret1"), Role: models.RoleTeacher, Status: models.StatusPending},
	}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "jane@example.com", Password: "secret1", Role: models.RoleTeacher})
	assertCode(t, err, appErrors.ErrAccountNotApproved.Code)
}

func TestLoginRoleMismatch(t *testing.T) {
	repo := &authRepoStub{users: map[string]*models.User{
		"s1": {ID: "s1", Email: "sam@example.com", PasswordHash: hashOf(t, "secret1"), Role: models.RoleStudent, Status: models.StatusApproved},
	}}
	svc := newAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "sam@example.com", Password: "secret1", Role: models.RoleAdmin})
	assertCode(t, err, appErrors.ErrInvalidCredentials.Code)
}

func TestLoginIssuesValidToken(t *testing.T) {
	repo := &authRepoStub{users: map[string]*models.User{
		"s1": {ID: "s1", Email: "sam@example.com", PasswordHash: hashOf(t, "secret1"), Role: models.RoleStudent, Status: models.StatusApproved},
	}}
	svc := newAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "sam@example.com", Password: "secret1", Role: models.RoleStudent})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestResolvePrincipalEnforcesApprovalGate(t *testing.T) {
	repo := &authRepoStub{users: map[string]*models.User{
		"t1": {ID: "t1", Email: "jane@example.com", Role: models.RoleTeacher, Status: models.StatusRejected},
		"s1": {ID: "s1", Email: "sam@example.com", Role: models.RoleStudent, Status: models.StatusApproved},
	}}
	svc := newAuthService(repo)

	_, err := svc.ResolvePrincipal(context.Background(), "t1")
	assertCode(t, err, appErrors.ErrAccountNotApproved.Code)

	_, err = svc.ResolvePrincipal(context.Background(), "missing")
	assertCode(t, err, appErrors.ErrAccountNotApproved.Code)

	principal, err := svc.ResolvePrincipal(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, principal.Role)
}
