package profile

import (
	"context"
	"testing"

	"github.com/frankotendo/geolevelup/internal/test_utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoImpl_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(test_utils.TestWithDB(t))

	p := Default()
	p.Uid = uuid.NewString()
	id, err := repo.CreateProfile(ctx, p)
	require.NoError(t, err)

	stored, err := repo.GetProfileByUid(ctx, p.Uid)
	require.NoError(t, err)
	assert.Equal(t, id, stored.Id)
	assert.Equal(t, p.Hobbies, stored.Hobbies)
	assert.Equal(t, p.Goals, stored.Goals)
	assert.Equal(t, PermissionDefault, stored.Notifications)

	require.NoError(t, repo.UpdateNotificationPermission(ctx, id, PermissionGranted))
	stored, err = repo.GetProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, PermissionGranted, stored.Notifications)
}

func TestRepoImpl_GetMissingProfile(t *testing.T) {
	repo := NewRepo(test_utils.TestWithDB(t))

	_, err := repo.GetProfile(context.Background(), 9999)

	assert.ErrorIs(t, err, ErrProfileNotFound)
}
