package server

import (
	"fmt"

	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Index renders the global feed. Rendered pages are cached for
// INDEX_CACHE_SECONDS per page number and viewer; writes do not invalidate.
func (s *Server) Index(c *fiber.Ctx) error {
	ctx := c.UserContext()
	number := service.ParsePage(c.Query("page"))
	uid, _ := middleware.CurrentUserID(c)

	key := fmt.Sprintf("u%d:p%d", uid, number)
	body, err := s.indexCache.Aside(ctx, key, func() ([]byte, error) {
		page, err := s.feedService.ListAll(ctx, number)
		if err != nil {
			return nil, err
		}
		return s.renderBytes("posts/index", s.page(c, "Latest updates on the site", fiber.Map{
			"Page": page,
		}))
	})
	if err != nil {
		return err
	}
	return sendHTML(c, fiber.StatusOK, body)
}

// GroupPosts renders the posts of one group.
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	group, page, err := s.feedService.ListByGroup(c.UserContext(), c.Params("slug"), service.ParsePage(c.Query("page")))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "posts/group_list", s.page(c, "Posts of the group "+group.Title, fiber.Map{
		"Group": group,
		"Page":  page,
	}))
}

// Profile renders an author's posts and, for signed-in visitors, whether
// they follow the author.
func (s *Server) Profile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	author, page, err := s.feedService.ListByAuthor(ctx, c.Params("username"), service.ParsePage(c.Query("page")))
	if err != nil {
		return err
	}

	following := false
	uid, signedIn := middleware.CurrentUserID(c)
	if signedIn {
		if following, err = s.followService.IsFollowing(ctx, uid, author.ID); err != nil {
			return err
		}
	}
	followers, err := s.followService.FollowerCount(ctx, author.ID)
	if err != nil {
		return err
	}
	followingCount, err := s.followService.FollowingCount(ctx, author.ID)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "posts/profile", s.page(c, "Profile of "+author.FullName(), fiber.Map{
		"Author":         author,
		"Page":           page,
		"Following":      following,
		"IsSelf":         signedIn && uid == author.ID,
		"FollowerCount":  followers,
		"FollowingCount": followingCount,
	}))
}

// FollowIndex renders posts by the authors the current user follows.
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	uid, _ := middleware.CurrentUserID(c)
	page, err := s.feedService.ListFollowed(c.UserContext(), uid, service.ParsePage(c.Query("page")))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "posts/follow", s.page(c, "Your subscriptions", fiber.Map{
		"Page": page,
	}))
}
