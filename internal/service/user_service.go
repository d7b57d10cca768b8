package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/go-demo/forum/internal/model"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
	"github.com/go-demo/forum/internal/pkg/storage"
	"github.com/go-demo/forum/internal/pkg/utils"
	"github.com/go-demo/forum/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxAvatarSize is the largest accepted avatar upload
const MaxAvatarSize = 2 << 20 // 2 MB

// AvatarTypes maps accepted avatar content types to file extensions
var AvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UserService struct {
	userRepo    UserRepository
	roomRepo    RoomRepository
	topicRepo   TopicRepository
	messageRepo MessageRepository
	store       storage.Store
	logger      *zap.Logger
}

func NewUserService(
	userRepo UserRepository,
	roomRepo RoomRepository,
	topicRepo TopicRepository,
	messageRepo MessageRepository,
	store storage.Store,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		roomRepo:    roomRepo,
		topicRepo:   topicRepo,
		messageRepo: messageRepo,
		store:       store,
		logger:      logger,
	}
}

// ProfilePage is a user with their rooms and activity
type ProfilePage struct {
	User     *model.User
	Topics   []*model.TopicWithRoomCount
	Rooms    []*model.RoomDetail
	Messages []*model.MessageWithUser
}

// AvatarUpload is an uploaded image to store as the user's avatar
type AvatarUpload struct {
	Reader      io.Reader
	ContentType string
	Size        int64
}

// ProfileInput is the submitted profile form
type ProfileInput struct {
	Name   string
	Bio    string
	Avatar *AvatarUpload
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
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

// Profile loads a user with all topics, the rooms they own and their messages
func (s *UserService) Profile(ctx context.Context, id string) (*ProfilePage, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	topics, err := s.topicRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list topics", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	rooms, err := s.roomRepo.ListByOwner(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to list rooms by owner", zap.String("user_id", id), zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	messages, err := s.messageRepo.ListByUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to list messages by user", zap.String("user_id", id), zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	return &ProfilePage{
		User:     user,
		Topics:   topics,
		Rooms:    rooms,
		Messages: messages,
	}, nil
}

// UpdateProfile saves name, bio and an optional new avatar. Users may only
// edit their own profile.
func (s *UserService) UpdateProfile(ctx context.Context, actor *model.User, id string, in *ProfileInput) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutate(actor, user) {
		return user, apperrors.ErrForbidden
	}

	v := utils.NewValidator()
	v.MaxLength("name", in.Name, 200)
	if in.Avatar != nil {
		if _, ok := AvatarTypes[in.Avatar.ContentType]; !ok {
			v.AddError("avatar", "Upload a valid image. Accepted formats: JPEG, PNG, GIF, WebP.")
		} else if in.Avatar.Size > MaxAvatarSize {
			v.AddError("avatar", apperrors.ErrFileTooLarge.Message)
		}
	}
	if v.HasErrors() {
		return user, apperrors.ErrValidation.WithDetails(v.Errors())
	}

	updated := *user
	updated.Name = nullString(in.Name)
	updated.Bio = nullString(in.Bio)

	if in.Avatar != nil {
		url, err := s.storeAvatar(ctx, user.ID, in.Avatar)
		if err != nil {
			s.logger.Error("Failed to store avatar", zap.String("user_id", id), zap.Error(err))
			return user, apperrors.ErrInternal
		}
		updated.AvatarURL = sql.NullString{String: url, Valid: true}
	}

	if err := s.userRepo.UpdateProfile(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		s.logger.Error("Failed to update profile", zap.String("user_id", id), zap.Error(err))
		return user, apperrors.ErrInternal
	}

	s.logger.Info("Profile updated",
		zap.String("user_id", updated.ID),
		zap.Bool("avatar_changed", in.Avatar != nil),
	)

	return &updated, nil
}

func (s *UserService) storeAvatar(ctx context.Context, userID string, avatar *AvatarUpload) (string, error) {
	key := fmt.Sprintf("avatars/%s_%s%s", userID, uuid.New().String(), AvatarTypes[avatar.ContentType])
	return s.store.Put(ctx, key, avatar.ContentType, avatar.Reader, avatar.Size)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
