package services

import (
	"context"
	"quill/internal/models"
	"quill/internal/testutil"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countFollows(t *testing.T, s *FollowService) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(&models.Follow{}).Count(&n).Error)
	return n
}

func TestFollowIsIdempotent(t *testing.T) {
	conn := testutil.NewDB(t)
	follows := NewFollowService(conn)
	user := testutil.NewUser(t, conn, "user")
	author := testutil.NewUser(t, conn, "author")
	ctx := context.Background()

	created, err := follows.Follow(ctx, user, "author")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = follows.Follow(ctx, user, "author")
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 1, countFollows(t, follows))

	ok, err := isFollowing(ctx, conn, user.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = isFollowing(ctx, conn, author.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowSelfIsNoop(t *testing.T) {
	conn := testutil.NewDB(t)
	follows := NewFollowService(conn)
	user := testutil.NewUser(t, conn, "user")

	created, err := follows.Follow(context.Background(), user, "user")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Zero(t, countFollows(t, follows))
}

func TestFollowUnknownAuthor(t *testing.T) {
	conn := testutil.NewDB(t)
	follows := NewFollowService(conn)
	user := testutil.NewUser(t, conn, "user")
	ctx := context.Background()

	_, err := follows.Follow(ctx, user, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, follows.Unfollow(ctx, user, "ghost"), ErrNotFound)
}

func TestUnfollow(t *testing.T) {
	conn := testutil.NewDB(t)
	follows := NewFollowService(conn)
	user := testutil.NewUser(t, conn, "user")
	testutil.NewUser(t, conn, "author")
	ctx := context.Background()

	_, err := follows.Follow(ctx, user, "author")
	require.NoError(t, err)

	require.NoError(t, follows.Unfollow(ctx, user, "author"))
	assert.Zero(t, countFollows(t, follows))
	assert.ErrorIs(t, follows.Unfollow(ctx, user, "author"), ErrNotFound)
}

func TestConcurrentFollowCreatesOneRow(t *testing.T) {
	conn := testutil.NewDB(t)
	follows := NewFollowService(conn)
	user := testutil.NewUser(t, conn, "user")
	testutil.NewUser(t, conn, "author")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := follows.Follow(context.Background(), user, "author")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 1, countFollows(t, follows))
}
