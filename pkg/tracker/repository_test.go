package tracker

import (
	"context"
	"testing"

	"github.com/frankotendo/geolevelup/internal/test_utils"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryImpl_Marks(t *testing.T) {
	ctx := context.Background()
	pool := test_utils.TestWithDB(t)
	p := profile.Default()
	p.Uid = uuid.NewString()
	userId, err := profile.NewRepo(pool).CreateProfile(ctx, p)
	require.NoError(t, err)
	repo := NewRepository(pool)

	require.NoError(t, repo.AddMark(ctx, userId, day, KindDone, "a"))
	require.NoError(t, repo.AddMark(ctx, userId, day, KindDone, "a"))
	require.NoError(t, repo.AddMark(ctx, userId, day, KindDone, "b"))
	require.NoError(t, repo.AddMark(ctx, userId, day, KindReminder, "b"))
	require.NoError(t, repo.AddMark(ctx, userId, day.AddDate(0, 0, 1), KindDone, "c"))

	marks, err := repo.GetMarks(ctx, userId, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, marks.Done)
	assert.Equal(t, []string{"b"}, marks.Reminders)

	require.NoError(t, repo.RemoveMark(ctx, userId, day, KindDone, "a"))
	pruned, err := repo.PruneMarks(ctx, userId, day, []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, 2, pruned)

	marks, err = repo.GetMarks(ctx, userId, day)
	require.NoError(t, err)
	assert.Empty(t, marks.Done)
	assert.Empty(t, marks.Reminders)

	other, err := repo.GetMarks(ctx, userId, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, other.Done)
}
