package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/lms-api/internal/models"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
)

type profileRepoStub struct {
	users map[string]*models.User
}

func (m *profileRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *profileRepoStub) UpdateProfile(ctx context.Context, user *models.User) error {
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func TestUpdateProfilePatchesOnlyProvidedFields(t *testing.T) {
	bio := "old bio"
	repo := &profileRepoStub{users: map[string]*models.User{
		"u1": {ID: "u1", Name: "Jane", Bio: &bio, Role: models.RoleTeacher, Status: models.StatusApproved},
	}}
	svc := NewUserService(repo, nil, nil)

	name := "Jane Doe"
	user, err := svc.UpdateProfile(context.Background(), "u1", models.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", user.Name)
	require.NotNil(t, user.Bio)
	assert.Equal(t, "old bio", *user.Bio)
}

func TestUpdateProfileNeverTouchesRoleOrStatus(t *testing.T) {
	repo := &profileRepoStub{users: map[string]*models.User{
		"u1": {ID: "u1", Name: "Jane", Role: models.RoleTeacher, Status: models.StatusPending},
	}}
	svc := NewUserService(repo, nil, nil)

	name := "Renamed"
	user, err := svc.UpdateProfile(context.Background(), "u1", models.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, user.Role)
	assert.Equal(t, models.StatusPending, user.Status)
}

func TestGetProfileUnknownUser(t *testing.T) {
	svc := NewUserService(&profileRepoStub{}, nil, nil)

	_, err := svc.GetProfile(context.Background(), "missing")
	assertCode(t, err, appErrors.ErrNotFound.Code)
}
