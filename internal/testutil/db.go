// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"quill/internal/db"
	"quill/internal/models"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain-text password of every user created by NewUser.
const Password = "correct-horse-battery"

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(conn))
	return conn
}

// NewUser inserts a user whose password is Password.
func NewUser(t *testing.T, conn *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Username: username, Password: string(hash)}
	require.NoError(t, conn.Create(user).Error)
	return user
}

// NewGroup inserts a group.
func NewGroup(t *testing.T, conn *gorm.DB, title, slug string) *models.Group {
	t.Helper()

	group := &models.Group{Title: title, Slug: slug, Description: "description"}
	require.NoError(t, conn.Create(group).Error)
	return group
}

// NewPost inserts a post written by author, optionally in group.
func NewPost(t *testing.T, conn *gorm.DB, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()

	post := &models.Post{AuthorID: author.ID, Text: text}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, conn.Omit("Author", "Group").Create(post).Error)
	return post
}

// GIF is a valid 2x1 GIF image.
var GIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}
