package services

import (
	"context"
	"fmt"
	"quill/internal/models"

	"gorm.io/gorm"
)

// FeedService composes the read-only post listings. None of its results are
// cached here; the handler layer decides what to cache.
type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// Profile is an author's page: their posts plus counters for the viewer.
type Profile struct {
	Author    models.User
	PostCount int64
	Following bool
	Page      Page[models.Post]
}

// PostDetail is a single post with its comments, oldest first.
type PostDetail struct {
	Post      models.Post
	PostCount int64
	Comments  []models.Comment
}

// GlobalFeed lists every post, newest first.
func (s *FeedService) GlobalFeed(ctx context.Context, page int) (Page[models.Post], error) {
	return s.paginate(ctx, func(q *gorm.DB) *gorm.DB { return q }, page)
}

// GroupFeed lists the posts of the group identified by slug.
func (s *FeedService) GroupFeed(ctx context.Context, slug string, page int) (models.Group, Page[models.Post], error) {
	var group models.Group
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return group, Page[models.Post]{}, notFound(err, "group "+slug)
	}

	posts, err := s.paginate(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.group_id = ?", group.ID)
	}, page)
	return group, posts, err
}

// ProfileFeed lists the posts written by username. viewerID is 0 for
// anonymous visitors, in which case Following is always false.
func (s *FeedService) ProfileFeed(ctx context.Context, username string, viewerID uint, page int) (*Profile, error) {
	var author models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&author).Error; err != nil {
		return nil, notFound(err, "user "+username)
	}

	posts, err := s.paginate(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.author_id = ?", author.ID)
	}, page)
	if err != nil {
		return nil, err
	}

	profile := &Profile{Author: author, PostCount: posts.Total, Page: posts}
	if viewerID != 0 {
		following, err := isFollowing(ctx, s.db, viewerID, author.ID)
		if err != nil {
			return nil, fmt.Errorf("check follow: %w", err)
		}
		profile.Following = following
	}
	return profile, nil
}

// FollowFeed lists posts whose author the viewer follows.
func (s *FeedService) FollowFeed(ctx context.Context, viewerID uint, page int) (Page[models.Post], error) {
	followed := s.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", viewerID)
	return s.paginate(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("posts.author_id IN (?)", followed)
	}, page)
}

// PostDetail loads one post, its author's post count and its comments.
func (s *FeedService) PostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	tx := s.db.WithContext(ctx)

	var post models.Post
	if err := tx.Preload("Author").Preload("Group").First(&post, postID).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", postID))
	}

	detail := &PostDetail{Post: post}
	if err := tx.Model(&models.Post{}).Where("author_id = ?", post.AuthorID).Count(&detail.PostCount).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	if err := tx.Preload("Author").
		Where("post_id = ?", post.ID).
		Order("created ASC, id ASC").
		Find(&detail.Comments).Error; err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	detail.Post.CommentCount = len(detail.Comments)
	return detail, nil
}

// Latest returns the newest limit posts, for syndication.
func (s *FeedService) Latest(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Order("posts.pub_date DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list latest posts: %w", err)
	}
	return posts, nil
}

// paginate counts the filtered posts, then loads one page of them newest
// first with author and group attached.
func (s *FeedService) paginate(ctx context.Context, filter func(*gorm.DB) *gorm.DB, number int) (Page[models.Post], error) {
	tx := s.db.WithContext(ctx)

	var total int64
	if err := tx.Model(&models.Post{}).Scopes(filter).Count(&total).Error; err != nil {
		return Page[models.Post]{}, fmt.Errorf("count posts: %w", err)
	}

	page := newPage[models.Post](number, PostsPerPage, total)
	if int64(page.offset()) >= total {
		return page, nil
	}

	var posts []models.Post
	err := tx.Scopes(filter).
		Preload("Author").
		Preload("Group").
		Order("posts.pub_date DESC, posts.id DESC").
		Limit(page.PerPage).
		Offset(page.offset()).
		Find(&posts).Error
	if err != nil {
		return Page[models.Post]{}, fmt.Errorf("list posts: %w", err)
	}

	if err := s.fillCommentCounts(ctx, posts); err != nil {
		return Page[models.Post]{}, err
	}
	page.Items = posts
	return page, nil
}

// fillCommentCounts 批量填充帖子的评论数量
func (s *FeedService) fillCommentCounts(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type CountResult struct {
		PostID uint
		Count  int
	}
	var results []CountResult
	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error
	if err != nil {
		return fmt.Errorf("count comments: %w", err)
	}

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
	return nil
}
