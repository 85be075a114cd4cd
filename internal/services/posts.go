package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"quill/internal/models"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostInput is the validated content of a post form. A nil Image keeps the
// current image on edit.
type PostInput struct {
	Text    string
	GroupID *uint
	Image   *Upload
}

// PostService owns every write to posts and comments.
type PostService struct {
	db    *gorm.DB
	media MediaStore
}

func NewPostService(db *gorm.DB, media MediaStore) *PostService {
	return &PostService{db: db, media: media}
}

// Get loads a post with author and group.
func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author").Preload("Group").First(&post, postID).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", postID))
	}
	return &post, nil
}

// Create stores a new post written by author.
func (s *PostService) Create(ctx context.Context, author *models.User, in PostInput) (*models.Post, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: author.ID,
		Text:     in.Text,
		GroupID:  in.GroupID,
	}
	if in.Image != nil {
		stored, err := s.media.Save(ctx, in.Image.Filename, in.Image.Data)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		post.Image = stored
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		s.discard(ctx, post.Image)
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Author = *author
	return post, nil
}

// Update changes text, group and image of a post. Only the author may edit;
// author and publication date never change.
func (s *PostService) Update(ctx context.Context, editor *models.User, postID uint, in PostInput) (*models.Post, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != editor.ID {
		return nil, ErrForbidden
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	image := post.Image
	if in.Image != nil {
		if image, err = s.media.Save(ctx, in.Image.Filename, in.Image.Data); err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
	}

	err = s.db.WithContext(ctx).Model(&models.Post{ID: post.ID}).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{
			"text":     in.Text,
			"group_id": in.GroupID,
			"image":    image,
		}).Error
	if err != nil {
		if image != post.Image {
			s.discard(ctx, image)
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	if image != post.Image {
		s.discard(ctx, post.Image)
	}
	return s.Get(ctx, post.ID)
}

// discard 删除不再被引用的图片，失败只记录日志
func (s *PostService) discard(ctx context.Context, stored string) {
	if stored == "" {
		return
	}
	if err := s.media.Delete(ctx, stored); err != nil {
		log.Printf("discard image %s: %v", stored, err)
	}
}

// Delete removes a post together with its comments.
func (s *PostService) Delete(ctx context.Context, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		res := tx.Delete(&models.Post{}, postID)
		if res.Error != nil {
			return fmt.Errorf("delete post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post %d: %w", postID, ErrNotFound)
		}
		return nil
	})
}

// AddComment attaches a comment by author to an existing post.
func (s *PostService) AddComment(ctx context.Context, author *models.User, postID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		verr := &ValidationError{}
		verr.Add("text", "This field is required.")
		return nil, verr
	}

	var post models.Post
	if err := s.db.WithContext(ctx).Select("id").First(&post, postID).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("post %d", postID))
	}

	comment := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: text}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	comment.Author = *author
	return comment, nil
}

// validate checks a post form; no write happens when it fails.
func (s *PostService) validate(ctx context.Context, in *PostInput) error {
	verr := &ValidationError{}

	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		verr.Add("text", "This field is required.")
	}

	if in.GroupID != nil {
		var group models.Group
		err := s.db.WithContext(ctx).Select("id").First(&group, *in.GroupID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			verr.Add("group", "Select a valid choice. That choice is not one of the available choices.")
		case err != nil:
			return fmt.Errorf("check group: %w", err)
		}
	}

	if in.Image != nil {
		if _, err := DetectImage(in.Image.Data); err != nil {
			verr.Add("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		}
	}

	return verr.OrNil()
}
