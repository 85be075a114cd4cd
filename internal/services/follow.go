package services

import (
	"context"
	"fmt"
	"quill/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow makes user follow the author named username. Following yourself or
// someone already followed is a no-op; created reports whether a row was
// inserted.
func (s *FollowService) Follow(ctx context.Context, user *models.User, username string) (created bool, err error) {
	author, err := s.author(ctx, username)
	if err != nil {
		return false, err
	}
	if author.ID == user.ID {
		return false, nil
	}

	// get-or-create in one statement so concurrent requests cannot insert twice
	follow := models.Follow{UserID: user.ID, AuthorID: author.ID}
	res := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow)
	if res.Error != nil {
		return false, fmt.Errorf("follow %s: %w", username, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Unfollow removes the follow row; ErrNotFound when there is none.
func (s *FollowService) Unfollow(ctx context.Context, user *models.User, username string) error {
	author, err := s.author(ctx, username)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", user.ID, author.ID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return fmt.Errorf("unfollow %s: %w", username, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("follow of %s: %w", username, ErrNotFound)
	}
	return nil
}

// isFollowing 判断是否关注
func isFollowing(ctx context.Context, db *gorm.DB, userID, authorID uint) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *FollowService) author(ctx context.Context, username string) (*models.User, error) {
	var author models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&author).Error; err != nil {
		return nil, notFound(err, "user "+username)
	}
	return &author, nil
}
