package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

// GroupService is the administrative surface for groups.
type GroupService struct {
	groupRepo repository.GroupRepository
}

type CreateGroupInput struct {
	Title       string
	Slug        string
	Description string
}

func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	title := strings.TrimSpace(in.Title)
	if err := validation.ValidateGroupTitle(title); err != nil {
		return nil, models.NewFieldError("title", err.Error())
	}
	slug := strings.TrimSpace(in.Slug)
	if err := validation.ValidateGroupSlug(slug); err != nil {
		return nil, models.NewFieldError("slug", err.Error())
	}

	group := &models.Group{
		Title:       title,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group; its posts stay, without a group.
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	return s.groupRepo.Delete(ctx, slug)
}

func (s *GroupService) GetGroup(ctx context.Context, slug string) (*models.Group, error) {
	return s.groupRepo.GetBySlug(ctx, slug)
}

func (s *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}
