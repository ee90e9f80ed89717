package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FeedService assembles paginated post listings.
type FeedService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	perPage   int
}

func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	perPage int,
) *FeedService {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	return &FeedService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		perPage:   perPage,
	}
}

// PerPage is the configured page size.
func (s *FeedService) PerPage() int {
	return s.perPage
}

// ListAll is the global feed.
func (s *FeedService) ListAll(ctx context.Context, page int) (*Page, error) {
	return s.list(ctx, "ListAll", repository.PostFilter{}, page)
}

func (s *FeedService) ListByGroup(ctx context.Context, slug string, page int) (*models.Group, *Page, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.list(ctx, "ListByGroup", repository.PostFilter{GroupID: group.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return group, p, nil
}

func (s *FeedService) ListByAuthor(ctx context.Context, username string, page int) (*models.User, *Page, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.list(ctx, "ListByAuthor", repository.PostFilter{AuthorID: author.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return author, p, nil
}

// ListFollowed returns posts by the authors userID follows.
func (s *FeedService) ListFollowed(ctx context.Context, userID uint, page int) (*Page, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	return s.list(ctx, "ListFollowed", repository.PostFilter{FollowerID: userID}, page)
}

func (s *FeedService) list(ctx context.Context, method string, filter repository.PostFilter, number int) (p *Page, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FeedService", method,
		attribute.Int("page.requested", number))
	defer func() { observability.EndSpan(span, err) }()

	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	p, offset := Paginate(total, number, s.perPage)
	if total == 0 {
		p.Posts = []models.Post{}
		return p, nil
	}

	p.Posts, err = s.postRepo.List(ctx, filter, p.PerPage, offset)
	if err != nil {
		return nil, err
	}
	return p, nil
}
