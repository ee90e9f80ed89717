package server

import (
	"yatube/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// ProfileFollow subscribes the current user to the author and returns to
// the author's profile.
func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	author, err := s.userRepo.GetByUsername(ctx, c.Params("username"))
	if err != nil {
		return err
	}
	uid, _ := middleware.CurrentUserID(c)
	if err := s.followService.Follow(ctx, uid, author.ID); err != nil {
		return err
	}
	return c.Redirect(profileURL(author.Username), fiber.StatusFound)
}

// ProfileUnfollow removes the subscription, if any.
func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	author, err := s.userRepo.GetByUsername(ctx, c.Params("username"))
	if err != nil {
		return err
	}
	uid, _ := middleware.CurrentUserID(c)
	if err := s.followService.Unfollow(ctx, uid, author.ID); err != nil {
		return err
	}
	return c.Redirect(profileURL(author.Username), fiber.StatusFound)
}
