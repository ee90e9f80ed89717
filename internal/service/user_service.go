package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// Form messages surfaced by sign-up and login.
const (
	UsernameTakenMessage    = "A user with that username already exists."
	PasswordMismatchMessage = "The two password fields didn't match."
	InvalidLoginMessage     = "Please enter a correct username and password. Note that both fields may be case-sensitive."
)

type UserService struct {
	userRepo   repository.UserRepository
	images     ImageStore
	bcryptCost int
}

// RegisterInput mirrors the sign-up form.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo, bcryptCost: bcrypt.DefaultCost}
}

// WithImages lets DeleteUser remove the image files of the user's posts.
func (s *UserService) WithImages(images ImageStore) *UserService {
	s.images = images
	return s
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func (s *UserService) WithBcryptCost(cost int) *UserService {
	s.bcryptCost = cost
	return s
}

// Register validates the sign-up form and creates the user.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewFieldError("username", err.Error())
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewFieldError("email", err.Error())
		}
	}
	if in.Password == "" {
		return nil, models.NewFieldError("password1", validation.RequiredMessage)
	}
	if in.PasswordConfirm == "" {
		return nil, models.NewFieldError("password2", validation.RequiredMessage)
	}
	if in.Password != in.PasswordConfirm {
		return nil, models.NewFieldError("password2", PasswordMismatchMessage)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewFieldError("password2", err.Error())
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, models.NewFieldError("username", UsernameTakenMessage)
	} else if !models.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Password:  string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if models.ErrorCode(err) == models.CodeConflict {
			return nil, models.NewFieldError("username", UsernameTakenMessage)
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks the username and password. Any mismatch yields the
// same unauthorized error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, models.NewUnauthorizedError(InvalidLoginMessage)
	}
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewUnauthorizedError(InvalidLoginMessage)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError(InvalidLoginMessage)
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// DeleteUser removes the user with their posts, comments and follow edges.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	images, err := s.userRepo.Delete(ctx, user.ID)
	if err != nil {
		return err
	}
	if s.images != nil {
		for _, name := range images {
			s.images.Remove(ctx, name)
		}
	}
	return nil
}
