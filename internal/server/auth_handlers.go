package server

import (
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// signupFormView is the binding for auth/signup.
type signupFormView struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Errors    formErrors
}

// loginFormView is the binding for auth/login.
type loginFormView struct {
	Username string
	Next     string
	Errors   formErrors
}

// SignupForm renders the registration form.
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "auth/signup", s.page(c, "Sign up", fiber.Map{
		"Form": &signupFormView{},
	}))
}

// Signup registers the user, signs them in and redirects to the index.
func (s *Server) Signup(c *fiber.Ctx) error {
	in := service.RegisterInput{
		FirstName:       c.FormValue("first_name"),
		LastName:        c.FormValue("last_name"),
		Username:        c.FormValue("username"),
		Email:           c.FormValue("email"),
		Password:        c.FormValue("password1"),
		PasswordConfirm: c.FormValue("password2"),
	}

	user, err := s.userService.Register(c.UserContext(), in)
	if err != nil {
		errs, err := fieldErrors(err)
		if err != nil {
			return err
		}
		return s.render(c, fiber.StatusOK, "auth/signup", s.page(c, "Sign up", fiber.Map{
			"Form": &signupFormView{
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Username:  in.Username,
				Email:     in.Email,
				Errors:    errs,
			},
		}))
	}

	if err := s.startSession(c, user); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

// LoginForm renders the login form, keeping ?next= for after sign-in.
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "auth/login", s.page(c, "Log in", fiber.Map{
		"Form": &loginFormView{Next: c.Query("next")},
	}))
}

// Login checks the credentials and redirects to next or the index.
func (s *Server) Login(c *fiber.Ctx) error {
	next := c.FormValue("next", c.Query("next"))
	username := c.FormValue("username")

	user, err := s.userService.Authenticate(c.UserContext(), username, c.FormValue("password"))
	if err != nil {
		errs, err := fieldErrors(err)
		if err != nil {
			return err
		}
		return s.render(c, fiber.StatusOK, "auth/login", s.page(c, "Log in", fiber.Map{
			"Form": &loginFormView{Username: username, Next: next, Errors: errs},
		}))
	}

	if err := s.startSession(c, user); err != nil {
		return err
	}
	return c.Redirect(middleware.SafeNext(next, "/"), fiber.StatusFound)
}

// Logout revokes the session token and clears the cookie.
func (s *Server) Logout(c *fiber.Ctx) error {
	if sess := middleware.CurrentSession(c); sess != nil {
		if err := s.sessions.Revoke(c.UserContext(), sess); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "session revoke failed", "error", err)
		}
	}
	s.sessions.ClearCookie(c)

	// The page below renders as an anonymous visitor.
	c.Locals("userID", nil)
	c.Locals("username", nil)
	c.Locals("session", nil)
	return s.render(c, fiber.StatusOK, "auth/logged_out", s.page(c, "Logged out", nil))
}

func (s *Server) startSession(c *fiber.Ctx, user *models.User) error {
	token, err := s.sessions.Issue(user.ID, user.Username)
	if err != nil {
		return models.NewInternalError(err)
	}
	s.sessions.SetCookie(c, token)
	return nil
}
