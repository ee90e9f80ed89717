package service

import (
	"context"
	"errors"
	"testing"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/testutil"
	"yatube/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_Validation(t *testing.T) {
	missingGroup := uint(99)
	tests := []struct {
		name    string
		in      CreatePostInput
		field   string
		message string
	}{
		{"empty text", CreatePostInput{AuthorID: 1, Text: ""}, "text", validation.RequiredMessage},
		{"whitespace text", CreatePostInput{AuthorID: 1, Text: "  \n\t"}, "text", validation.RequiredMessage},
		{"unknown group", CreatePostInput{AuthorID: 1, Text: "hello", GroupID: &missingGroup}, "group", InvalidChoiceMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := noopPostRepo()
			created := false
			posts.createFn = func(_ context.Context, _ *models.Post) error {
				created = true
				return nil
			}
			groups := noopGroupRepo()
			groups.getByIDFn = func(_ context.Context, id uint) (*models.Group, error) {
				return nil, models.NewNotFoundError("Group", id)
			}

			svc := NewPostService(posts, groups, nil)
			_, err := svc.CreatePost(context.Background(), tt.in)
			assertFieldError(t, err, tt.field, tt.message)
			assert.False(t, created)
		})
	}
}

func TestCreatePost_RequiresAuthor(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopGroupRepo(), nil)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{Text: "hello"})
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))
}

func TestCreatePost_StoresImage(t *testing.T) {
	var saved *models.Post
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		saved = p
		return nil
	}
	images := &imageStoreStub{saveFn: func(_ context.Context, in ImageUpload) (string, error) {
		assert.Equal(t, "small.gif", in.Filename)
		return "posts/abc.gif", nil
	}}

	svc := NewPostService(posts, noopGroupRepo(), images)
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 7,
		Text:     "with picture",
		Image:    &ImageUpload{Filename: "small.gif", Content: testutil.SmallGIF},
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "posts/abc.gif", post.Image)
	assert.Equal(t, uint(7), post.AuthorID)
}

func TestCreatePost_RemovesImageWhenInsertFails(t *testing.T) {
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, _ *models.Post) error {
		return models.NewInternalError(errors.New("db down"))
	}
	images := &imageStoreStub{saveFn: func(_ context.Context, _ ImageUpload) (string, error) {
		return "posts/abc.gif", nil
	}}

	svc := NewPostService(posts, noopGroupRepo(), images)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 7,
		Text:     "with picture",
		Image:    &ImageUpload{Content: testutil.SmallGIF},
	})
	require.Error(t, err)
	assert.Equal(t, []string{"posts/abc.gif"}, images.removed)
}

func TestEditPost_Authorization(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1, Text: "original"}, nil
	}
	updated := false
	posts.updateFn = func(_ context.Context, _ *models.Post) error {
		updated = true
		return nil
	}

	svc := NewPostService(posts, noopGroupRepo(), nil)

	_, err := svc.EditPost(context.Background(), EditPostInput{PostID: 5, EditorID: 2, Text: "hijack"})
	require.Error(t, err)
	assert.True(t, models.IsForbidden(err))
	assert.False(t, updated)

	// Non-authors are refused before validation runs.
	_, err = svc.EditPost(context.Background(), EditPostInput{PostID: 5, EditorID: 2, Text: ""})
	assert.True(t, models.IsForbidden(err))
}

func TestEditPost_NotFound(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewPostService(posts, noopGroupRepo(), nil)

	_, err := svc.EditPost(context.Background(), EditPostInput{PostID: 5, EditorID: 1, Text: "x"})
	assert.True(t, models.IsNotFound(err))
}

func TestEditPost_ReplacesImageOnlyWhenUploaded(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.CreateUser(t, db, "author")
	post := testutil.CreatePost(t, db, author, nil, "original")
	require.NoError(t, db.Model(post).Update("image", "posts/old.gif").Error)

	images := &imageStoreStub{saveFn: func(_ context.Context, _ ImageUpload) (string, error) {
		return "posts/new.gif", nil
	}}
	svc := NewPostService(repository.NewPostRepository(db), repository.NewGroupRepository(db), images)

	edited, err := svc.EditPost(context.Background(), EditPostInput{PostID: post.ID, EditorID: author.ID, Text: "no new image"})
	require.NoError(t, err)
	assert.Equal(t, "posts/old.gif", edited.Image)
	assert.Empty(t, images.removed)

	edited, err = svc.EditPost(context.Background(), EditPostInput{
		PostID:   post.ID,
		EditorID: author.ID,
		Text:     "new image",
		Image:    &ImageUpload{Content: testutil.SmallGIF},
	})
	require.NoError(t, err)
	assert.Equal(t, "posts/new.gif", edited.Image)
	assert.Equal(t, []string{"posts/old.gif"}, images.removed)
}

func TestEditPost_KeepsPubDateAndCount(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.CreateUser(t, db, "author")
	group := testutil.CreateGroup(t, db, "cats")
	post := testutil.CreatePost(t, db, author, nil, "original")
	before := testutil.Count(t, db, &models.Post{})

	svc := NewPostService(repository.NewPostRepository(db), repository.NewGroupRepository(db), nil)
	edited, err := svc.EditPost(context.Background(), EditPostInput{
		PostID:   post.ID,
		EditorID: author.ID,
		Text:     "edited",
		GroupID:  &group.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "edited", edited.Text)
	require.NotNil(t, edited.Group)
	assert.Equal(t, group.Slug, edited.Group.Slug)
	assert.True(t, post.PubDate.Equal(edited.PubDate))
	assert.Equal(t, before, testutil.Count(t, db, &models.Post{}))

	// Clearing the group is an edit too.
	edited, err = svc.EditPost(context.Background(), EditPostInput{PostID: post.ID, EditorID: author.ID, Text: "edited"})
	require.NoError(t, err)
	assert.Nil(t, edited.GroupID)
}

func TestCreatePost_Integration(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.CreateUser(t, db, "author")
	group := testutil.CreateGroup(t, db, "cats")

	svc := NewPostService(repository.NewPostRepository(db), repository.NewGroupRepository(db), nil)

	before := testutil.Count(t, db, &models.Post{})
	_, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: author.ID, Text: "  "})
	assertFieldError(t, err, "text", validation.RequiredMessage)
	assert.Equal(t, before, testutil.Count(t, db, &models.Post{}))

	post, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: author.ID, Text: "hello", GroupID: &group.ID})
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.Count(t, db, &models.Post{}))

	got, err := svc.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "author", got.Author.Username)
	assert.False(t, got.PubDate.IsZero())
}

func TestDeletePost(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.CreateUser(t, db, "author")
	other := testutil.CreateUser(t, db, "other")
	post := testutil.CreatePost(t, db, author, nil, "doomed")
	testutil.CreateComment(t, db, other, post, "first")

	svc := NewPostService(repository.NewPostRepository(db), repository.NewGroupRepository(db), nil)

	err := svc.DeletePost(context.Background(), post.ID, other.ID)
	assert.True(t, models.IsForbidden(err))

	require.NoError(t, svc.DeletePost(context.Background(), post.ID, author.ID))
	assert.Zero(t, testutil.Count(t, db, &models.Post{}))
	assert.Zero(t, testutil.Count(t, db, &models.Comment{}))
}
