package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/learnhub/lms-api/pkg/errors"
)

func TestParseDecision(t *testing.T) {
	status, err := ParseDecision("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, status)

	status, err = ParseDecision("rejected")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, status)
}

func TestParseDecisionRejectsOtherValues(t *testing.T) {
	for _, raw := range []string{"pending", "", "Approved", "deleted"} {
		_, err := ParseDecision(raw)
		require.Error(t, err, raw)
		var appErr *appErrors.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrInvalidStatus.Code, appErr.Code)
	}
}

func TestCanDecide(t *testing.T) {
	assert.True(t, CanDecide(StatusPending))
	assert.False(t, CanDecide(StatusApproved))
	assert.False(t, CanDecide(StatusRejected))
}

func TestResubmit(t *testing.T) {
	assert.Equal(t, StatusPending, Resubmit(StatusApproved))
	assert.Equal(t, StatusPending, Resubmit(StatusPending))
	assert.Equal(t, StatusRejected, Resubmit(StatusRejected))
}

func TestInitialUserStatus(t *testing.T) {
	assert.Equal(t, StatusPending, InitialUserStatus(RoleTeacher))
	assert.Equal(t, StatusApproved, InitialUserStatus(RoleAdmin))
	assert.Equal(t, StatusApproved, InitialUserStatus(RoleStudent))
}

func TestApprovalStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusApproved.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, ApprovalStatus("archived").Valid())
}
