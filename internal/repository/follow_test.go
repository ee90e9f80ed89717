package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_CreateUsesOnConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "follows" ("user_id","author_id") VALUES ($1,$2) ON CONFLICT DO NOTHING RETURNING "id"`)).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	created, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_Graph(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	reader := testutil.CreateUser(t, db, "reader")
	author := testutil.CreateUser(t, db, "author")

	created, err := repo.Create(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(1), testutil.Count(t, db, &models.Follow{}))

	ok, err := repo.Exists(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(ctx, author.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	followers, err := repo.CountFollowers(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)
	following, err := repo.CountFollowing(ctx, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), following)

	deleted, err := repo.Delete(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFollowRepository_SelfFollowRejectedBySchema(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	leo := testutil.CreateUser(t, db, "leo")

	created, err := repo.Create(ctx, leo.ID, leo.ID)
	assert.False(t, created)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	assert.Equal(t, int64(0), testutil.Count(t, db, &models.Follow{}))
}

func TestConstraintClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		unique bool
		check  bool
	}{
		{"postgres unique", &pgconn.PgError{Code: "23505"}, true, false},
		{"postgres check", &pgconn.PgError{Code: "23514"}, false, true},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, true, false},
		{"mysql check", &mysql.MySQLError{Number: 3819}, false, true},
		{"sqlite unique", errors.New("UNIQUE constraint failed: follows.user_id, follows.author_id"), true, false},
		{"sqlite check", errors.New("CHECK constraint failed: author_not_user"), false, true},
		{"other", errors.New("connection refused"), false, false},
		{"nil", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, isUniqueViolation(tt.err))
			assert.Equal(t, tt.check, isCheckViolation(tt.err))
		})
	}
}
