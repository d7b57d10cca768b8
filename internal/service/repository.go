package service

import (
	"context"

	"github.com/go-demo/forum/internal/model"
	"github.com/go-demo/forum/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type TopicRepository interface {
	List(ctx context.Context) ([]*model.TopicWithRoomCount, error)
	Search(ctx context.Context, q string) ([]*model.TopicWithRoomCount, error)
	Count(ctx context.Context) (int, error)
	GetOrCreate(ctx context.Context, name string) (*model.Topic, bool, error)
}

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.RoomDetail, error)
	Update(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string) ([]*model.RoomDetail, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.RoomDetail, error)
	AddParticipant(ctx context.Context, roomID, userID string) error
	ListParticipants(ctx context.Context, roomID string) ([]*model.Participant, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	UpdateBody(ctx context.Context, msg *model.Message) error
	Delete(ctx context.Context, id string) error
	ListByRoom(ctx context.Context, roomID string) ([]*model.MessageWithUser, error)
	ListByUser(ctx context.Context, userID string) ([]*model.MessageWithUser, error)
	ListByTopicQuery(ctx context.Context, q string) ([]*model.MessageWithUser, error)
}

var (
	_ UserRepository    = (*repository.UserRepository)(nil)
	_ TopicRepository   = (*repository.TopicRepository)(nil)
	_ RoomRepository    = (*repository.RoomRepository)(nil)
	_ MessageRepository = (*repository.MessageRepository)(nil)
)
