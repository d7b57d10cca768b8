package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-demo/forum/internal/model"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
	"github.com/go-demo/forum/internal/pkg/utils"
	"github.com/go-demo/forum/internal/repository"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

func NewAuthService(userRepo UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// SignupInput is the submitted signup form
type SignupInput struct {
	Name            string
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

const passwordMismatch = "The two password fields didn't match."

// Signup registers a user. Username and email are stored lower-cased and
// must be unique ignoring case. Failures carry utils.FieldErrors details.
func (s *AuthService) Signup(ctx context.Context, in *SignupInput) (*model.User, error) {
	v := utils.NewValidator()
	v.ValidateUsername("username", in.Username)
	v.Required("email", in.Email)
	v.MaxLength("name", in.Name, 200)
	if v.ValidatePassword("password1", in.Password) {
		v.Match("password2", in.PasswordConfirm, in.Password, passwordMismatch)
	}
	if v.HasErrors() {
		return nil, apperrors.ErrValidation.WithDetails(v.Errors())
	}

	username := strings.ToLower(in.Username)
	email := strings.ToLower(in.Email)

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("Failed to check username", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	if exists {
		v.AddError("username", apperrors.ErrUsernameExists.Message)
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check email", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	if exists {
		v.AddError("email", apperrors.ErrEmailExists.Message)
	}

	if v.HasErrors() {
		return nil, apperrors.ErrValidation.WithDetails(v.Errors())
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Name:         nullString(in.Name),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			// Lost a race with a concurrent signup.
			v.AddError("username", apperrors.ErrUsernameExists.Message)
			return nil, apperrors.ErrValidation.WithDetails(v.Errors())
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return user, nil
}

// Authenticate checks credentials. The email is compared lower-cased.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotExist
		}
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		s.logger.Info("Login failed", zap.String("user_id", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID))

	return user, nil
}

// UserByID resolves the user behind a session
func (s *AuthService) UserByID(ctx context.Context, id string) (*model.User, error) {
	if !utils.ValidateUUID(id) {
		return nil, apperrors.ErrUserNotFound
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		s.logger.Error("Failed to get user", zap.String("user_id", id), zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return user, nil
}
