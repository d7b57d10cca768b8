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

type RoomService struct {
	roomRepo    RoomRepository
	topicRepo   TopicRepository
	messageRepo MessageRepository
	logger      *zap.Logger
}

func NewRoomService(
	roomRepo RoomRepository,
	topicRepo TopicRepository,
	messageRepo MessageRepository,
	logger *zap.Logger,
) *RoomService {
	return &RoomService{
		roomRepo:    roomRepo,
		topicRepo:   topicRepo,
		messageRepo: messageRepo,
		logger:      logger,
	}
}

// HomePage is the room listing for a search query
type HomePage struct {
	Query     string
	Topics    []*model.TopicWithRoomCount
	Rooms     []*model.RoomDetail
	RoomCount int
	Messages  []*model.MessageWithUser
}

// RoomPage is a room with its conversation
type RoomPage struct {
	Room         *model.RoomDetail
	Messages     []*model.MessageWithUser
	Participants []*model.Participant
}

// RoomInput is the submitted room form
type RoomInput struct {
	Topic       string
	Name        string
	Description string
}

func (in *RoomInput) validate() error {
	v := utils.NewValidator()
	v.Required("topic", in.Topic)
	v.Required("name", in.Name)
	if v.HasErrors() {
		return apperrors.ErrValidation.WithDetails(v.Errors())
	}
	return nil
}

// Home searches rooms by topic, name or description. q is matched as given,
// so whitespace is part of the substring. An empty result is reported as
// ErrNothingFound rather than an empty page.
func (s *RoomService) Home(ctx context.Context, q string) (*HomePage, error) {
	rooms, err := s.roomRepo.Search(ctx, q)
	if err != nil {
		s.logger.Error("Failed to search rooms", zap.String("q", q), zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	if len(rooms) == 0 {
		return nil, apperrors.ErrNothingFound
	}

	topics, err := s.topicRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list topics", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	messages, err := s.messageRepo.ListByTopicQuery(ctx, q)
	if err != nil {
		s.logger.Error("Failed to list messages by topic", zap.String("q", q), zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	return &HomePage{
		Query:     q,
		Topics:    topics,
		Rooms:     rooms,
		RoomCount: len(rooms),
		Messages:  messages,
	}, nil
}

// Topics lists topics, filtered by q when filter is set. It fails with
// ErrNoTopics when no topic exists at all.
func (s *RoomService) Topics(ctx context.Context, q string, filter bool) ([]*model.TopicWithRoomCount, error) {
	count, err := s.topicRepo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count topics", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	if count == 0 {
		return nil, apperrors.ErrNoTopics
	}

	var topics []*model.TopicWithRoomCount
	if filter {
		topics, err = s.topicRepo.Search(ctx, q)
	} else {
		topics, err = s.topicRepo.List(ctx)
	}
	if err != nil {
		s.logger.Error("Failed to list topics", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	return topics, nil
}

// ListTopics lists every topic for sidebars and form suggestions
func (s *RoomService) ListTopics(ctx context.Context) ([]*model.TopicWithRoomCount, error) {
	topics, err := s.topicRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list topics", zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return topics, nil
}

// Get retrieves a room by ID
func (s *RoomService) Get(ctx context.Context, id string) (*model.RoomDetail, error) {
	if !utils.ValidateUUID(id) {
		return nil, apperrors.ErrRoomNotFound
	}

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, apperrors.ErrRoomNotFound
		}
		s.logger.Error("Failed to get room", zap.String("room_id", id), zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	return room, nil
}

// Detail loads a room with its messages in creation order and its participants
func (s *RoomService) Detail(ctx context.Context, id string) (*RoomPage, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByRoom(ctx, room.ID)
	if err != nil {
		s.logger.Error("Failed to list room messages", zap.String("room_id", id), zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	participants, err := s.roomRepo.ListParticipants(ctx, room.ID)
	if err != nil {
		s.logger.Error("Failed to list participants", zap.String("room_id", id), zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	return &RoomPage{
		Room:         room,
		Messages:     messages,
		Participants: participants,
	}, nil
}

// Create creates a room owned by actor, reusing the topic when it exists
func (s *RoomService) Create(ctx context.Context, actor *model.User, in *RoomInput) (*model.Room, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	topic, err := s.resolveTopic(ctx, in.Topic)
	if err != nil {
		return nil, err
	}

	room := &model.Room{
		TopicID:     topic.ID,
		OwnerID:     actor.ID,
		Name:        in.Name,
		Description: nullString(in.Description),
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		s.logger.Error("Failed to create room", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	s.logger.Info("Room created",
		zap.String("room_id", room.ID),
		zap.String("name", room.Name),
		zap.String("topic", topic.Name),
		zap.String("owner_id", actor.ID),
	)

	return room, nil
}

// Update overwrites a room's topic, name and description. Only the owner may update.
func (s *RoomService) Update(ctx context.Context, actor *model.User, id string, in *RoomInput) (*model.Room, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutate(actor, detail) {
		return nil, apperrors.ErrPermissionDenied
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	topic, err := s.resolveTopic(ctx, in.Topic)
	if err != nil {
		return nil, err
	}

	room := detail.Room
	room.TopicID = topic.ID
	room.Name = in.Name
	room.Description = nullString(in.Description)

	if err := s.roomRepo.Update(ctx, &room); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, apperrors.ErrRoomNotFound
		}
		s.logger.Error("Failed to update room", zap.String("room_id", id), zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	s.logger.Info("Room updated",
		zap.String("room_id", room.ID),
		zap.String("topic", topic.Name),
	)

	return &room, nil
}

// Delete deletes a room with its messages. Only the owner may delete.
func (s *RoomService) Delete(ctx context.Context, actor *model.User, id string) error {
	room, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrRoomNotFound) {
			return apperrors.ErrRoomGone
		}
		return err
	}
	if !CanMutate(actor, room) {
		return apperrors.ErrForbidden
	}

	if err := s.roomRepo.Delete(ctx, room.ID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return apperrors.ErrRoomGone
		}
		s.logger.Error("Failed to delete room", zap.String("room_id", id), zap.Error(err))
		return apperrors.ErrInternal
	}

	s.logger.Info("Room deleted",
		zap.String("room_id", room.ID),
		zap.String("owner_id", actor.ID),
	)

	return nil
}

func (s *RoomService) resolveTopic(ctx context.Context, name string) (*model.Topic, error) {
	topic, created, err := s.topicRepo.GetOrCreate(ctx, strings.TrimSpace(name))
	if err != nil {
		s.logger.Error("Failed to get or create topic", zap.String("topic", name), zap.Error(err))
		return nil, apperrors.ErrInternal
	}
	if created {
		s.logger.Info("Topic created", zap.String("topic_id", topic.ID), zap.String("topic", topic.Name))
	}
	return topic, nil
}
