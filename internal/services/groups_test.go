package services

import (
	"context"
	"quill/internal/models"
	"quill/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroup(t *testing.T) {
	conn := testutil.NewDB(t)
	groups := NewGroupService(conn)
	ctx := context.Background()

	group, err := groups.Create(ctx, "Cats", "cats", "all about cats")
	require.NoError(t, err)
	assert.Equal(t, "Cats", group.String())

	t.Run("duplicate slug", func(t *testing.T) {
		_, err := groups.Create(ctx, "More cats", "cats", "")
		assert.Contains(t, fieldErrors(t, err), "slug")
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := groups.Create(ctx, " ", "not a slug!", "")
		fields := fieldErrors(t, err)
		assert.Contains(t, fields, "title")
		assert.Contains(t, fields, "slug")
	})

	t.Run("listed by title", func(t *testing.T) {
		_, err := groups.Create(ctx, "Birds", "birds", "")
		require.NoError(t, err)

		list, err := groups.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "birds", list[0].Slug)
		assert.Equal(t, "cats", list[1].Slug)
	})
}

func TestDeleteGroupKeepsPosts(t *testing.T) {
	conn := testutil.NewDB(t)
	groups := NewGroupService(conn)
	author := testutil.NewUser(t, conn, "author")
	group := testutil.NewGroup(t, conn, "title", "slug")
	post := testutil.NewPost(t, conn, author, group, "text")
	ctx := context.Background()

	require.NoError(t, groups.Delete(ctx, "slug"))

	var stored models.Post
	require.NoError(t, conn.First(&stored, post.ID).Error)
	assert.Nil(t, stored.GroupID)

	_, _, err := NewFeedService(conn).GroupFeed(ctx, "slug", 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, groups.Delete(ctx, "slug"), ErrNotFound)
}
