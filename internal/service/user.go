package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"adaptagent/internal/auth"
	"adaptagent/internal/model"
	"adaptagent/internal/repository"
)

// Authenticator issues tokens and hashes passwords. *auth.Manager implements it.
type Authenticator interface {
	Issue(userID, username string) (auth.Token, error)
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) bool
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"max=100"`
}

type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// UpdateProfileInput changes only the fields that are set.
type UpdateProfileInput struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	auth.Token
	User *model.User `json:"user"`
}

// UserService covers account creation, login and profile management.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
	auth Authenticator
	now  func() time.Time
}

// NewUserService constructs a new UserService.
func NewUserService(repo repository.UserRepository, a Authenticator) UserService {
	return &userService{repo: repo, auth: a, now: time.Now}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u, err := s.repo.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("user %w", ErrDuplicate)
		}
		return nil, err
	}

	tok, err := s.auth.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: tok, User: u}, nil
}

func (s *userService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.auth.CheckPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	if u.Disabled {
		return nil, ErrUserDisabled
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return nil, err
	}
	u.LastLoginAt = &now

	tok, err := s.auth.Issue(u.ID, u.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: tok, User: u}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error) {
	if in.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &e
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	u, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.FullName != nil {
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	u.UpdatedAt = s.now().UTC()

	out, err := s.repo.Update(ctx, u)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("email %w", ErrDuplicate)
		case errors.Is(err, sql.ErrNoRows):
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, err
	}
	return out, nil
}
