package service

import (
	"context"
	"errors"

	"github.com/go-demo/forum/internal/model"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
	"github.com/go-demo/forum/internal/pkg/utils"
	"github.com/go-demo/forum/internal/repository"
	"go.uber.org/zap"
)

type MessageService struct {
	messageRepo MessageRepository
	roomRepo    RoomRepository
	logger      *zap.Logger
}

func NewMessageService(
	messageRepo MessageRepository,
	roomRepo RoomRepository,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		roomRepo:    roomRepo,
		logger:      logger,
	}
}

func validateBody(body string) error {
	v := utils.NewValidator()
	if !v.Required("body", body) {
		return apperrors.ErrValidation.WithDetails(v.Errors())
	}
	return nil
}

// Post creates a message in a room. Posters other than the owner join the
// room's participants; joining twice is a no-op.
func (s *MessageService) Post(ctx context.Context, actor *model.User, roomID, body string) (*model.Message, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.ValidateUUID(roomID) {
		return nil, apperrors.ErrRoomNotFound
	}

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, apperrors.ErrRoomNotFound
		}
		s.logger.Error("Failed to get room", zap.String("room_id", roomID), zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	if err := validateBody(body); err != nil {
		return nil, err
	}

	msg := &model.Message{
		RoomID: room.ID,
		UserID: actor.ID,
		Body:   body,
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		s.logger.Error("Failed to create message", zap.String("room_id", roomID), zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	if actor.ID != room.OwnerID {
		if err := s.roomRepo.AddParticipant(ctx, room.ID, actor.ID); err != nil {
			s.logger.Error("Failed to add participant",
				zap.String("room_id", room.ID),
				zap.String("user_id", actor.ID),
				zap.Error(err),
			)
			return nil, apperrors.ErrInternal
		}
	}

	s.logger.Info("Message posted",
		zap.String("message_id", msg.ID),
		zap.String("room_id", room.ID),
		zap.String("user_id", actor.ID),
	)

	return msg, nil
}

// Get retrieves a message by ID
func (s *MessageService) Get(ctx context.Context, id string) (*model.Message, error) {
	if !utils.ValidateUUID(id) {
		return nil, apperrors.ErrMessageNotFound
	}

	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, apperrors.ErrMessageNotFound
		}
		s.logger.Error("Failed to get message", zap.String("message_id", id), zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return msg, nil
}

// Update replaces a message body. Only the author may update.
func (s *MessageService) Update(ctx context.Context, actor *model.User, id, body string) (*model.Message, error) {
	msg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutate(actor, msg) {
		return msg, apperrors.ErrForbidden
	}
	if err := validateBody(body); err != nil {
		return msg, err
	}

	updated := *msg
	updated.Body = body
	if err := s.messageRepo.UpdateBody(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, apperrors.ErrMessageNotFound
		}
		s.logger.Error("Failed to update message", zap.String("message_id", id), zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	s.logger.Info("Message updated",
		zap.String("message_id", id),
		zap.String("room_id", updated.RoomID),
	)

	return &updated, nil
}

// Delete deletes a message and returns it so callers can redirect to its room.
// Only the author may delete.
func (s *MessageService) Delete(ctx context.Context, actor *model.User, id string) (*model.Message, error) {
	msg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutate(actor, msg) {
		return msg, apperrors.ErrForbidden
	}

	if err := s.messageRepo.Delete(ctx, msg.ID); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return nil, apperrors.ErrMessageNotFound
		}
		s.logger.Error("Failed to delete message", zap.String("message_id", id), zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	s.logger.Info("Message deleted",
		zap.String("message_id", id),
		zap.String("room_id", msg.RoomID),
	)

	return msg, nil
}
