package models

import (
	"fmt"
	"time"
)

// Follow links a follower (User) to the author they follow. The pair is
// unique; self-follows are rejected before reaching the database.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_follow_user_author" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	AuthorID  uint      `gorm:"not null;index;uniqueIndex:idx_follow_user_author" json:"author_id"`
	Author    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

func (f Follow) String() string {
	return fmt.Sprintf("follower: %s, author: %s", f.User.Username, f.Author.Username)
}
