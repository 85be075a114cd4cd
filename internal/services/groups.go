package services

import (
	"context"
	"errors"
	"fmt"
	"quill/internal/models"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// GroupService manages groups. Groups are created by administrators, never
// through the public site.
type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.WithContext(ctx).Order("title ASC, id ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

func (s *GroupService) Create(ctx context.Context, title, slug, description string) (*models.Group, error) {
	verr := &ValidationError{}
	title = strings.TrimSpace(title)
	if title == "" {
		verr.Add("title", "This field is required.")
	}
	if !slugPattern.MatchString(slug) {
		verr.Add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	group := &models.Group{Title: title, Slug: slug, Description: description}
	if err := s.db.WithContext(ctx).Create(group).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			verr.Add("slug", "Group with this slug already exists.")
			return nil, verr
		}
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

// Delete removes a group. Its posts stay and lose their group.
func (s *GroupService) Delete(ctx context.Context, slug string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Where("slug = ?", slug).First(&group).Error; err != nil {
			return notFound(err, "group "+slug)
		}
		if err := tx.Model(&models.Post{}).Where("group_id = ?", group.ID).Update("group_id", nil).Error; err != nil {
			return fmt.Errorf("detach posts: %w", err)
		}
		if err := tx.Delete(&group).Error; err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		return nil
	})
}
