package services

import (
	"context"
	"fmt"
	"quill/internal/models"
	"quill/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const totalPosts = 13

type feedFixture struct {
	db     *gorm.DB
	feeds  *FeedService
	author *models.User
	reader *models.User
	group  *models.Group
	posts  []*models.Post
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()
	conn := testutil.NewDB(t)
	f := &feedFixture{
		db:     conn,
		feeds:  NewFeedService(conn),
		author: testutil.NewUser(t, conn, "author"),
		reader: testutil.NewUser(t, conn, "reader"),
		group:  testutil.NewGroup(t, conn, "title", "slug"),
	}
	for i := 0; i < totalPosts; i++ {
		f.posts = append(f.posts, testutil.NewPost(t, conn, f.author, f.group, fmt.Sprintf("text_%d", i)))
	}
	return f
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestGlobalFeed(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()

	first, err := f.feeds.GlobalFeed(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, PostsPerPage, first.Len())
	assert.EqualValues(t, totalPosts, first.Total)

	t.Run("newest first", func(t *testing.T) {
		assert.Equal(t, f.posts[totalPosts-1].ID, first.Items[0].ID)
		for i := 1; i < first.Len(); i++ {
			assert.Greater(t, first.Items[i-1].ID, first.Items[i].ID)
		}
	})

	t.Run("author and group attached", func(t *testing.T) {
		post := first.Items[0]
		assert.Equal(t, "author", post.Author.Username)
		require.NotNil(t, post.Group)
		assert.Equal(t, "slug", post.Group.Slug)
	})

	t.Run("second page holds the rest", func(t *testing.T) {
		second, err := f.feeds.GlobalFeed(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, totalPosts-PostsPerPage, second.Len())
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		page, err := f.feeds.GlobalFeed(ctx, 9)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})
}

func TestGroupFeed(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()
	other := testutil.NewGroup(t, f.db, "other", "other")
	lonely := testutil.NewPost(t, f.db, f.reader, other, "in other group")
	ungrouped := testutil.NewPost(t, f.db, f.reader, nil, "no group")

	group, page, err := f.feeds.GroupFeed(ctx, "slug", 1)
	require.NoError(t, err)
	assert.Equal(t, f.group.ID, group.ID)
	assert.Equal(t, PostsPerPage, page.Len())
	assert.NotContains(t, postIDs(page.Items), lonely.ID)
	assert.NotContains(t, postIDs(page.Items), ungrouped.ID)

	_, page, err = f.feeds.GroupFeed(ctx, "other", 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{lonely.ID}, postIDs(page.Items))

	t.Run("unknown slug", func(t *testing.T) {
		_, _, err := f.feeds.GroupFeed(ctx, "missing", 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("new group is empty", func(t *testing.T) {
		testutil.NewGroup(t, f.db, "new title", "new_slug")
		group, page, err := f.feeds.GroupFeed(ctx, "new_slug", 1)
		require.NoError(t, err)
		assert.Equal(t, "new title", group.Title)
		assert.Equal(t, 0, page.Len())
	})
}

func TestGroupFeedScenario(t *testing.T) {
	conn := testutil.NewDB(t)
	feeds := NewFeedService(conn)
	user := testutil.NewUser(t, conn, "u")
	group := testutil.NewGroup(t, conn, "title", "slug")
	post := testutil.NewPost(t, conn, user, group, "text")

	_, page, err := feeds.GroupFeed(context.Background(), "slug", 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{post.ID}, postIDs(page.Items))
}

func TestProfileFeed(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()
	testutil.NewPost(t, f.db, f.reader, nil, "reader post")

	profile, err := f.feeds.ProfileFeed(ctx, "author", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, "author", profile.Author.Username)
	assert.EqualValues(t, totalPosts, profile.PostCount)
	assert.Equal(t, totalPosts-PostsPerPage, profile.Page.Len())
	assert.False(t, profile.Following)

	t.Run("viewer following flag", func(t *testing.T) {
		profile, err := f.feeds.ProfileFeed(ctx, "author", f.reader.ID, 1)
		require.NoError(t, err)
		assert.False(t, profile.Following)

		require.NoError(t, f.db.Create(&models.Follow{UserID: f.reader.ID, AuthorID: f.author.ID}).Error)
		profile, err = f.feeds.ProfileFeed(ctx, "author", f.reader.ID, 1)
		require.NoError(t, err)
		assert.True(t, profile.Following)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.feeds.ProfileFeed(ctx, "nobody", 0, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFollowFeed(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()
	follows := NewFollowService(f.db)
	stranger := testutil.NewUser(t, f.db, "stranger")
	strangerPost := testutil.NewPost(t, f.db, stranger, nil, "unfollowed")

	page, err := f.feeds.FollowFeed(ctx, f.reader.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = follows.Follow(ctx, f.reader, "author")
	require.NoError(t, err)

	page, err = f.feeds.FollowFeed(ctx, f.reader.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, totalPosts, page.Total)
	assert.Equal(t, f.posts[totalPosts-1].ID, page.Items[0].ID)
	assert.NotContains(t, postIDs(page.Items), strangerPost.ID)

	t.Run("only the viewer's follows count", func(t *testing.T) {
		page, err := f.feeds.FollowFeed(ctx, stranger.ID, 1)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("unfollow removes posts", func(t *testing.T) {
		require.NoError(t, follows.Unfollow(ctx, f.reader, "author"))
		page, err := f.feeds.FollowFeed(ctx, f.reader.ID, 1)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})
}

func TestPostDetail(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()
	post := f.posts[0]
	posts := NewPostService(f.db, nil)

	_, err := posts.AddComment(ctx, f.reader, post.ID, "first")
	require.NoError(t, err)
	_, err = posts.AddComment(ctx, f.author, post.ID, "second")
	require.NoError(t, err)

	detail, err := f.feeds.PostDetail(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "text_0", detail.Post.Text)
	assert.Equal(t, "author", detail.Post.Author.Username)
	assert.EqualValues(t, totalPosts, detail.PostCount)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "first", detail.Comments[0].Text)
	assert.Equal(t, "reader", detail.Comments[0].Author.Username)
	assert.Equal(t, "second", detail.Comments[1].Text)

	t.Run("comment counts in feeds", func(t *testing.T) {
		page, err := f.feeds.GlobalFeed(ctx, 2)
		require.NoError(t, err)
		last := page.Items[page.Len()-1]
		assert.Equal(t, post.ID, last.ID)
		assert.Equal(t, 2, last.CommentCount)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := f.feeds.PostDetail(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
