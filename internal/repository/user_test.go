package repository

import (
	"context"
	"regexp"
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		wantUsername string
		wantNotFound bool
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "leo"))
			},
			wantUsername: "leo",
		},
		{
			name:   "Not found",
			userID: 2,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(2, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "username"}))
			},
			wantNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)
			if tt.wantNotFound {
				assert.True(t, models.IsNotFound(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUsername, user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "leo", Password: "x"}))
	err := repo.Create(ctx, &models.User{Username: "leo", Password: "y"})
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
}

func TestUserRepository_Lookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	leo := testutil.CreateUser(t, db, "leo")

	got, err := repo.GetByUsername(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, leo.ID, got.ID)
	assert.NotEmpty(t, got.Password)

	got, err = repo.GetByEmail(ctx, "LEO@example.com")
	require.NoError(t, err)
	assert.Equal(t, leo.ID, got.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.True(t, models.IsNotFound(err))

	users, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "author")
	reader := testutil.CreateUser(t, db, "reader")

	authorPost := testutil.CreatePost(t, db, author, nil, "by author")
	require.NoError(t, db.Model(authorPost).Update("image", "posts/a.png").Error)
	testutil.CreatePost(t, db, author, nil, "no image")
	readerPost := testutil.CreatePost(t, db, reader, nil, "by reader")
	testutil.CreateComment(t, db, reader, authorPost, "reader on author")
	testutil.CreateComment(t, db, author, readerPost, "author on reader")
	keep := testutil.CreateComment(t, db, reader, readerPost, "reader on reader")
	require.NoError(t, db.Create(&models.Follow{UserID: reader.ID, AuthorID: author.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{UserID: author.ID, AuthorID: reader.ID}).Error)

	images, err := repo.Delete(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"posts/a.png"}, images)

	assert.Equal(t, int64(1), testutil.Count(t, db, &models.User{}))
	assert.Equal(t, int64(1), testutil.Count(t, db, &models.Post{}))
	assert.Equal(t, int64(0), testutil.Count(t, db, &models.Follow{}))

	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, keep.ID, comments[0].ID)

	_, err = repo.Delete(ctx, author.ID)
	assert.True(t, models.IsNotFound(err))
}
