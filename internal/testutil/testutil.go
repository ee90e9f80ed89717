// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"yatube/internal/database"
	"yatube/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SmallGIF is a valid 2x1 GIF image.
var SmallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

// DefaultPassword is the plain-text password of users made by CreateUser.
const DefaultPassword = "Str0ng-Passw0rd!"

var (
	seq      atomic.Int64
	passHash []byte
)

func init() {
	// MinCost keeps fixture creation fast.
	h, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	passHash = h
}

// NewTestDB opens a private in-memory SQLite database with the full schema
// and foreign keys enforced.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN("")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts a user with DefaultPassword.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(passHash),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateGroup inserts a group with a unique slug derived from name.
func CreateGroup(t testing.TB, db *gorm.DB, name string) *models.Group {
	t.Helper()
	g := &models.Group{
		Title:       name,
		Slug:        fmt.Sprintf("%s-%d", name, seq.Add(1)),
		Description: "Test description",
	}
	require.NoError(t, db.Create(g).Error)
	return g
}

// CreatePost inserts a post by author in group (nil for none).
func CreatePost(t testing.TB, db *gorm.DB, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreatePosts inserts n posts by author.
func CreatePosts(t testing.TB, db *gorm.DB, author *models.User, group *models.Group, n int) []*models.Post {
	t.Helper()
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, CreatePost(t, db, author, group, fmt.Sprintf("Test post number %d", i+1)))
	}
	return posts
}

// CreateComment inserts a comment by author on post.
func CreateComment(t testing.TB, db *gorm.DB, author *models.User, post *models.Post, text string) *models.Comment {
	t.Helper()
	c := &models.Comment{Text: text, AuthorID: author.ID, PostID: post.ID}
	require.NoError(t, db.Create(c).Error)
	return c
}

// Count returns the row count for model.
func Count(t testing.TB, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
