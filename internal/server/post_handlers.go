package server

import (
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postFormView is the binding for posts/create_post.
type postFormView struct {
	Text    string
	GroupID uint
	Image   string
	Errors  formErrors
	Groups  []models.Group
	IsEdit  bool
	PostID  uint
}

// PostDetail renders one post with its comments.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return err
	}
	comments, err := s.commentService.ListComments(ctx, post.ID)
	if err != nil {
		return err
	}
	authorPosts, err := s.postRepo.Count(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return err
	}

	uid, _ := middleware.CurrentUserID(c)
	return s.render(c, fiber.StatusOK, "posts/post_detail", s.page(c, "Post "+post.String(), fiber.Map{
		"Post":        post,
		"Comments":    comments,
		"AuthorPosts": authorPosts,
		"CanEdit":     uid != 0 && uid == post.AuthorID,
	}))
}

// PostCreateForm renders an empty post form.
func (s *Server) PostCreateForm(c *fiber.Ctx) error {
	return s.renderPostForm(c, &postFormView{})
}

// PostCreate handles the post form. A valid post redirects to the author's
// profile; an invalid one re-renders the form with HTTP 200.
func (s *Server) PostCreate(c *fiber.Ctx) error {
	uid, _ := middleware.CurrentUserID(c)
	form := &postFormView{Text: c.FormValue("text")}

	post, err := s.submitPost(c, form, func(groupID *uint, upload *service.ImageUpload) (*models.Post, error) {
		return s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
			AuthorID: uid,
			Text:     form.Text,
			GroupID:  groupID,
			Image:    upload,
		})
	})
	if err != nil {
		return err
	}
	if post == nil {
		return s.renderPostForm(c, form)
	}

	username, _ := c.Locals("username").(string)
	return c.Redirect(profileURL(username), fiber.StatusFound)
}

// PostEditForm renders the edit form for the post's author. Everyone else
// is sent to the post page.
func (s *Server) PostEditForm(c *fiber.Ctx) error {
	post, err := s.editablePost(c)
	if err != nil || post == nil {
		return err
	}
	return s.renderPostForm(c, &postFormView{
		Text:    post.Text,
		GroupID: derefUint(post.GroupID),
		Image:   post.Image,
		IsEdit:  true,
		PostID:  post.ID,
	})
}

// PostEdit applies an edit and redirects to the post page.
func (s *Server) PostEdit(c *fiber.Ctx) error {
	post, err := s.editablePost(c)
	if err != nil || post == nil {
		return err
	}

	uid, _ := middleware.CurrentUserID(c)
	form := &postFormView{Text: c.FormValue("text"), Image: post.Image, IsEdit: true, PostID: post.ID}

	edited, err := s.submitPost(c, form, func(groupID *uint, upload *service.ImageUpload) (*models.Post, error) {
		return s.postService.EditPost(c.UserContext(), service.EditPostInput{
			PostID:   post.ID,
			EditorID: uid,
			Text:     form.Text,
			GroupID:  groupID,
			Image:    upload,
		})
	})
	switch {
	case models.IsForbidden(err):
		return c.Redirect(postURL(post.ID), fiber.StatusFound)
	case err != nil:
		return err
	case edited == nil:
		return s.renderPostForm(c, form)
	}
	return c.Redirect(postURL(post.ID), fiber.StatusFound)
}

// AddComment stores a comment when the form is valid and always returns to
// the post page.
func (s *Server) AddComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return err
	}

	if c.Method() == fiber.MethodPost {
		uid, _ := middleware.CurrentUserID(c)
		_, err := s.commentService.AddComment(ctx, service.AddCommentInput{
			PostID:   post.ID,
			AuthorID: uid,
			Text:     c.FormValue("text"),
		})
		if err != nil && !models.IsValidation(err) {
			return err
		}
	}
	return c.Redirect(postURL(post.ID), fiber.StatusFound)
}

// editablePost loads the post for the edit routes. It returns (nil, nil)
// after redirecting a non-author.
func (s *Server) editablePost(c *fiber.Ctx) (*models.Post, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, err
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if uid, _ := middleware.CurrentUserID(c); post.AuthorID != uid {
		return nil, c.Redirect(postURL(post.ID), fiber.StatusFound)
	}
	return post, nil
}

// submitPost parses the group and image inputs and runs save. A nil post
// with a nil error means form.Errors was filled in.
func (s *Server) submitPost(
	c *fiber.Ctx,
	form *postFormView,
	save func(groupID *uint, upload *service.ImageUpload) (*models.Post, error),
) (*models.Post, error) {
	var post *models.Post
	groupID, err := parseGroupID(c.FormValue("group"))
	if err == nil {
		form.GroupID = derefUint(groupID)
		var upload *service.ImageUpload
		if upload, err = readUpload(c, "image"); err == nil {
			post, err = save(groupID, upload)
		}
	}
	if err == nil {
		return post, nil
	}

	if models.IsForbidden(err) {
		return nil, err
	}
	errs, err := fieldErrors(err)
	if err != nil {
		return nil, err
	}
	form.Errors = errs
	return nil, nil
}

func (s *Server) renderPostForm(c *fiber.Ctx, form *postFormView) error {
	groups, err := s.groupRepo.List(c.UserContext())
	if err != nil {
		return err
	}
	form.Groups = groups

	title := "New post"
	if form.IsEdit {
		title = "Edit post"
	}
	return s.render(c, fiber.StatusOK, "posts/create_post", s.page(c, title, fiber.Map{
		"Form": form,
	}))
}
