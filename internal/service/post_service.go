// Package service implements the application's use cases on top of the repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
	"yatube/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// InvalidChoiceMessage is the form error for a group id that does not exist.
const InvalidChoiceMessage = "Select a valid choice. That choice is not one of the available choices."

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	images    ImageStore
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
	Image    *ImageUpload
}

// EditPostInput replaces text and group. Image is only replaced when a new
// upload is present.
type EditPostInput struct {
	PostID   uint
	EditorID uint
	Text     string
	GroupID  *uint
	Image    *ImageUpload
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	images ImageStore,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		images:    images,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "CreatePost",
		attribute.Int64("author.id", int64(in.AuthorID)))
	defer func() { observability.EndSpan(span, err) }()

	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := s.validate(ctx, in.Text, in.GroupID); err != nil {
		return nil, err
	}

	image, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	post = &models.Post{
		Text:     in.Text,
		AuthorID: in.AuthorID,
		GroupID:  in.GroupID,
		Image:    image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.removeImage(ctx, image)
		return nil, err
	}

	observability.ContentCreated.WithLabelValues("post").Inc()
	return post, nil
}

// EditPost applies an author's edit. Non-authors get a forbidden error
// before any validation runs.
func (s *PostService) EditPost(ctx context.Context, in EditPostInput) (post *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "EditPost",
		attribute.Int64("post.id", int64(in.PostID)))
	defer func() { observability.EndSpan(span, err) }()

	post, err = s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.EditorID {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}
	if err := s.validate(ctx, in.Text, in.GroupID); err != nil {
		return nil, err
	}

	image, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	previousImage := post.Image
	post.Text = in.Text
	post.GroupID = in.GroupID
	if image != "" {
		post.Image = image
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		s.removeImage(ctx, image)
		return nil, err
	}
	if image != "" && previousImage != "" && previousImage != image {
		s.removeImage(ctx, previousImage)
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// DeletePost removes the post, its comments and its image.
func (s *PostService) DeletePost(ctx context.Context, postID, actorID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return models.NewForbiddenError("Only the author can delete this post")
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	s.removeImage(ctx, post.Image)
	return nil
}

func (s *PostService) validate(ctx context.Context, text string, groupID *uint) error {
	if err := validation.ValidateText(text); err != nil {
		return models.NewFieldError("text", err.Error())
	}
	if groupID == nil {
		return nil
	}
	if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
		if models.IsNotFound(err) {
			return models.NewFieldError("group", InvalidChoiceMessage)
		}
		return err
	}
	return nil
}

func (s *PostService) storeImage(ctx context.Context, upload *ImageUpload) (string, error) {
	if upload == nil || len(upload.Content) == 0 {
		return "", nil
	}
	if s.images == nil {
		return "", models.NewInternalError(errors.New("image storage not configured"))
	}
	return s.images.Save(ctx, *upload)
}

func (s *PostService) removeImage(ctx context.Context, name string) {
	if s.images != nil && strings.TrimSpace(name) != "" {
		s.images.Remove(ctx, name)
	}
}
