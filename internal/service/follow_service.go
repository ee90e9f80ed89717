package service

import (
	"context"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// FollowService maintains the follow graph. Follow and Unfollow are idempotent.
type FollowService struct {
	followRepo repository.FollowRepository
}

func NewFollowService(followRepo repository.FollowRepository) *FollowService {
	return &FollowService{followRepo: followRepo}
}

// Follow adds the edge user -> author. Self-follows and existing edges are no-ops.
func (s *FollowService) Follow(ctx context.Context, userID, authorID uint) error {
	if userID == 0 || authorID == 0 || userID == authorID {
		return nil
	}
	created, err := s.followRepo.Create(ctx, userID, authorID)
	if err != nil {
		if models.ErrorCode(err) == models.CodeConflict {
			middleware.Logger.DebugContext(ctx, "follow absorbed constraint violation",
				"user_id", userID, "author_id", authorID)
			return nil
		}
		return err
	}
	if created {
		observability.FollowEvents.WithLabelValues("follow").Inc()
	}
	return nil
}

// Unfollow removes the edge if present.
func (s *FollowService) Unfollow(ctx context.Context, userID, authorID uint) error {
	if userID == 0 || authorID == 0 {
		return nil
	}
	deleted, err := s.followRepo.Delete(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if deleted {
		observability.FollowEvents.WithLabelValues("unfollow").Inc()
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == 0 || authorID == 0 || userID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}

func (s *FollowService) FollowerCount(ctx context.Context, authorID uint) (int64, error) {
	return s.followRepo.CountFollowers(ctx, authorID)
}

func (s *FollowService) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	return s.followRepo.CountFollowing(ctx, userID)
}
